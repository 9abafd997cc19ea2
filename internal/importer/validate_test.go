package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_RequiredCoverage(t *testing.T) {
	table := mustParse(t, "Organization,Worth\nAcme,100\n")
	rep := Validate(table, DealSchema())

	// Both required fields reachable through synonyms; no warnings.
	assert.Empty(t, rep.MissingFields)
	assert.True(t, rep.CanContinue)
}

func TestValidate_MissingRequiredIsWarningOnly(t *testing.T) {
	table := mustParse(t, "Organization,Whatever\nAcme,junk\n")
	rep := Validate(table, DealSchema())

	assert.Equal(t, []string{"value"}, rep.MissingFields)
	require.NotEmpty(t, rep.Warnings)
	// Missing coverage does not block; the hard gate is mapping completion.
	assert.True(t, rep.CanContinue)
}

func TestValidate_DuplicatesKeyedOnIDColumn(t *testing.T) {
	table := mustParse(t, "Deal ID,Company Name\n1,Acme\n2,Globex\n1,Acme again\n")
	rep := Validate(table, DealSchema())

	assert.Equal(t, "Deal ID", rep.KeyHeader)
	assert.Equal(t, 1, rep.Duplicates)
}

func TestValidate_DuplicatesFallBackToNameColumn(t *testing.T) {
	table := mustParse(t, "Company Name,Amount\nAcme,1\nacme,2\nGlobex,3\n")
	rep := Validate(table, DealSchema())

	assert.Equal(t, "Company Name", rep.KeyHeader)
	assert.Equal(t, 1, rep.Duplicates) // case-insensitive
}

func TestValidate_EmptyTableCannotContinue(t *testing.T) {
	table := mustParse(t, "Company Name,Amount\n")
	rep := Validate(table, DealSchema())

	assert.Zero(t, rep.TotalRows)
	assert.False(t, rep.CanContinue)
}
