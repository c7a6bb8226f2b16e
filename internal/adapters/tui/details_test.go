package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vacciprofile/internal/session"
	"vacciprofile/testutil"
)

func TestDetailsMarkdown(t *testing.T) {
	s := session.New(testutil.Catalog())
	pfizer := testutil.Manufacturers()[0]
	s.SelectManufacturer(pfizer)

	md := detailsMarkdown(s.Details())
	assert.Contains(t, md, "## Pfizer")
	assert.Contains(t, md, "- **CEO:** Albert Bourla")
	assert.Contains(t, md, "- **head Office:** New York City")
	assert.Contains(t, md, "- [Annual Report](https://example.org/pfizer-report) (2024-02-01)")
	assert.Contains(t, md, "_Last updated 2024-03-15_")

	virus := testutil.Viruses()[0]
	_ = s.SelectVirus(virus)
	assert.Contains(t, detailsMarkdown(s.Details()), "_SARS-CoV-2_ causes COVID-19.")

	assert.Empty(t, detailsMarkdown(session.NoDetails{}))
}
