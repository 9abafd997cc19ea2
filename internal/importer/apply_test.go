package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pipeline-cli/internal/model"
)

func mustParse(t *testing.T, csvText string) *Table {
	t.Helper()
	table, err := Parse(strings.NewReader(csvText))
	require.NoError(t, err)
	return table
}

func TestApply(t *testing.T) {
	table := mustParse(t,
		"Company Name,Amount,Status,Probability,Industry,Created,Owner,Extra Col\n"+
			"Acme Corp,\"$1,500.50\",Proposal,60%,technology,2026-03-01,Jane,keepme\n"+
			"Globex,2000,Closed Won,10,MANUFACTURING,03/15/2026,Joe,\n")

	m := AutoMap(DealSchema(), table.Headers)
	require.True(t, m.Complete())

	deals, rep := Apply(table, m, nil)
	require.Len(t, deals, 2)
	assert.Equal(t, 2, rep.Imported)
	assert.Zero(t, rep.Duplicates)
	assert.Zero(t, rep.Errored)

	d := deals[0]
	assert.Equal(t, "Acme Corp", d.Name)
	assert.InDelta(t, 1500.50, d.Value, 0.001)
	assert.Equal(t, model.StageProposal, d.Stage)
	assert.Equal(t, 60, d.Probability)
	assert.Equal(t, "Technology", d.IndustryGroup)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), d.CreatedAt)
	assert.Equal(t, "Jane", d.LeaderID)
	assert.Equal(t, "keepme", d.Custom.Extra["Extra Col"])

	// Closed Won forces probability to 100 regardless of the column.
	assert.Equal(t, 100, deals[1].Probability)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), deals[1].CreatedAt)
}

func TestApply_DuplicatesAndErrors(t *testing.T) {
	table := mustParse(t,
		"Company Name,Amount\n"+
			"Acme Corp,100\n"+
			"ACME CORP,200\n"+ // duplicate of the row above, case-insensitive
			"Existing Deal,300\n"+ // duplicate of an existing deal
			",400\n") // no name at all

	m := AutoMap(DealSchema(), table.Headers)
	existing := []model.Deal{{Name: "existing deal"}}

	deals, rep := Apply(table, m, existing)
	assert.Len(t, deals, 1)
	assert.Equal(t, 1, rep.Imported)
	assert.Equal(t, 2, rep.Duplicates)
	assert.Equal(t, 1, rep.Errored)
}

func TestApply_BatchValue(t *testing.T) {
	table := mustParse(t, "Company Name\nAcme\nGlobex\n")

	m := AutoMap(DealSchema(), table.Headers)
	require.True(t, m.SetBatchValue("value", "5000"))
	require.True(t, m.SetBatchValue("industry_group", "logistics"))

	deals, rep := Apply(table, m, nil)
	require.Equal(t, 2, rep.Imported)
	for _, d := range deals {
		assert.InDelta(t, 5000, d.Value, 0.001)
		assert.Equal(t, "Logistics", d.IndustryGroup)
		assert.Equal(t, model.StageLead, d.Stage) // default when unmapped
	}
}

func TestParseMoney(t *testing.T) {
	assert.InDelta(t, 1234.5, parseMoney("$1,234.50"), 0.001)
	assert.InDelta(t, 99, parseMoney(" 99 "), 0.001)
	assert.Zero(t, parseMoney(""))
	assert.Zero(t, parseMoney("n/a"))
}
