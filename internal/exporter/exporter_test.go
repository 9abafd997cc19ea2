package exporter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pipeline-cli/internal/model"
)

func exportFixture() ([]model.Deal, []model.ClientLeader) {
	deals := []model.Deal{
		{
			ID: "d1", Name: "Acme rollout", Value: 1500.5, Stage: model.StageProposal,
			Probability: 60, LeaderID: "l1", IndustryGroup: "Technology",
			CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			ExpectedClose: "2026-09-30", Notes: "notes, with commas",
		},
		{
			ID: "d2", Name: "Globex renewal", Value: 2000, Stage: model.StageClosedWon,
			Probability: 100, LeaderID: "unknown-leader",
		},
	}
	leaders := []model.ClientLeader{{ID: "l1", Name: "Jane Doe"}}
	return deals, leaders
}

func TestWriteCSV(t *testing.T) {
	deals, leaders := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, deals, leaders))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Columns, records[0])
	assert.Equal(t, []string{
		"Acme rollout", "1500.5", "Proposal", "Jane Doe", "Technology",
		"2026-03-01", "2026-09-30", "60", "notes, with commas",
	}, records[1])

	// Unknown leader ids survive as-is, zero dates render empty.
	assert.Equal(t, "unknown-leader", records[2][3])
	assert.Equal(t, "", records[2][5])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}

func TestWriteXLSX(t *testing.T) {
	deals, leaders := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, deals, leaders))
	// A zip container at minimum.
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestBackupRoundTrip(t *testing.T) {
	deals, leaders := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, WriteBackup(&buf, leaders, deals))

	// Top-level shape is the verbatim two-key document.
	s := buf.String()
	assert.Contains(t, s, `"clientLeaders"`)
	assert.Contains(t, s, `"deals"`)

	b, err := ReadBackup(&buf)
	require.NoError(t, err)
	assert.Equal(t, leaders, b.ClientLeaders)
	assert.Equal(t, deals, b.Deals)
}

func TestReadBackup_MalformedJSON(t *testing.T) {
	_, err := ReadBackup(strings.NewReader("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode backup")
}
