package dataset_test

import (
	"testing"

	"vacciprofile/testutil"
)

func TestDatasetReadsThroughBlobFacade(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InfraImportForbidden, "storage backends are reached through internal/blob")
}
