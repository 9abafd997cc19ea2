package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nameField(t *testing.T) TargetField {
	t.Helper()
	f, ok := DealSchema().Field("name")
	require.True(t, ok)
	return f
}

func TestScore_ExactMatch(t *testing.T) {
	f := nameField(t)
	assert.InDelta(t, 1.0, Score(f, "name"), 0.001)
	assert.InDelta(t, 1.0, Score(f, "Name"), 0.001)
	assert.InDelta(t, 1.0, Score(f, "Deal Name"), 0.001) // label match
	assert.InDelta(t, 1.0, Score(f, "deal_name"), 0.001) // normalization
}

func TestScore_SynonymBeatsContainment(t *testing.T) {
	// "Company Name" contains the target ("name", 0.8) but the company
	// synonym carries 0.9 and wins.
	got := Score(nameField(t), "Company Name")
	assert.GreaterOrEqual(t, got, 0.9)
}

func TestScore_Containment(t *testing.T) {
	f, ok := DealSchema().Field("value")
	require.True(t, ok)
	assert.InDelta(t, 0.8, Score(f, "Deal Value USD"), 0.001)
}

func TestScore_Synonyms(t *testing.T) {
	f, ok := DealSchema().Field("value")
	require.True(t, ok)
	assert.InDelta(t, 0.9, Score(f, "Amount"), 0.001)

	f, ok = DealSchema().Field("industry_group")
	require.True(t, ok)
	assert.InDelta(t, 0.9, Score(f, "Industry"), 0.001)
}

func TestScore_TokenOverlap(t *testing.T) {
	f, ok := DealSchema().Field("expected_close_date")
	require.True(t, ok)
	// Shares "date" with the target tokens but no containment or synonym hit.
	got := Score(f, "date signed")
	assert.Greater(t, got, 0.0)
	assert.LessOrEqual(t, got, 0.5)
}

func TestScore_NoMatch(t *testing.T) {
	assert.Zero(t, Score(nameField(t), "zzz"))
	assert.Zero(t, Score(nameField(t), ""))
}

func TestAutoMap(t *testing.T) {
	schema := DealSchema()
	m := AutoMap(schema, []string{"Company Name", "Amount", "Status", "Random Junk"})

	fm, ok := m.Field("name")
	require.True(t, ok)
	assert.Equal(t, StatusAutoMapped, fm.Status)
	assert.Equal(t, "Company Name", fm.Header)
	assert.GreaterOrEqual(t, fm.Confidence, 0.9)

	fm, _ = m.Field("value")
	assert.Equal(t, StatusAutoMapped, fm.Status)
	assert.Equal(t, "Amount", fm.Header)

	fm, _ = m.Field("stage")
	assert.Equal(t, StatusAutoMapped, fm.Status)
	assert.Equal(t, "Status", fm.Header)

	// Nothing plausible for notes.
	fm, _ = m.Field("notes")
	assert.Equal(t, StatusUnmapped, fm.Status)
	assert.Empty(t, fm.Header)
}

func TestMapping_CompletionGate(t *testing.T) {
	schema := DealSchema()
	m := AutoMap(schema, []string{"Company Name"})

	// value (required) has no source column.
	assert.False(t, m.Complete())
	assert.Equal(t, []string{"value"}, m.MissingRequired())

	// A batch value satisfies the gate.
	require.True(t, m.SetBatchValue("value", "1000"))
	assert.True(t, m.Complete())
	assert.Empty(t, m.MissingRequired())

	fm, _ := m.Field("value")
	assert.Equal(t, StatusAutoFilled, fm.Status)
	assert.Equal(t, "1000", fm.BatchValue)
}

func TestMapping_SetManual(t *testing.T) {
	schema := DealSchema()
	m := AutoMap(schema, []string{"Col A", "Col B"})

	require.True(t, m.SetManual("name", "Col A"))
	fm, _ := m.Field("name")
	assert.Equal(t, StatusManual, fm.Status)
	assert.Equal(t, "Col A", fm.Header)

	assert.False(t, m.SetManual("no_such_field", "Col A"))
}
