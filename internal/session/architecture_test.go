package session_test

import (
	"testing"

	"vacciprofile/testutil"
)

func TestSessionIsIndependentOfDelivery(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.AdapterImportForbidden, "sessions are driven by adapters, never the reverse")
	testutil.AssertNoDirectImports(t, ".", testutil.InfraImportForbidden, "sessions see a loaded catalogue only")
}
