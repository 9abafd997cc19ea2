package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionCSV = "Company Name,Amount,Status\n" +
	"Acme,1000,Lead\n" +
	"Globex,2000,Proposal\n" +
	"Initech,3000,Closed Won\n"

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession("deals.csv", int64(len(sessionCSV)), strings.NewReader(sessionCSV), nil)
	require.NoError(t, err)
	return s
}

func TestSession_FileGate(t *testing.T) {
	_, err := NewSession("deals.txt", 10, strings.NewReader("a,b\n1,2\n"), nil)
	require.Error(t, err)

	_, err = NewSession("deals.csv", MaxFileSize+1, strings.NewReader(""), nil)
	require.Error(t, err)
}

func TestSession_HappyPath(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, StateFileSelected, s.State())

	rows := s.Preview(5)
	assert.Len(t, rows, 3)
	assert.Equal(t, StatePreviewed, s.State())
	assert.Equal(t, []string{"Company Name", "Amount", "Status"}, s.Headers())

	rep, err := s.Validate()
	require.NoError(t, err)
	assert.Equal(t, 3, rep.TotalRows)
	assert.Equal(t, 3, rep.ValidRows)
	assert.True(t, rep.CanContinue)
	assert.Equal(t, StateValidated, s.State())

	m, err := s.AutoMap()
	require.NoError(t, err)
	assert.True(t, m.Complete())
	assert.Equal(t, StateMapped, s.State())

	require.NoError(t, s.Confirm())
	assert.Equal(t, StateConfirmed, s.State())

	deals, applyRep, err := s.Apply(nil)
	require.NoError(t, err)
	assert.Len(t, deals, 3)
	assert.Equal(t, 3, applyRep.Imported)
	assert.Equal(t, StateImported, s.State())
}

func TestSession_NoForwardSkips(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Validate()
	require.Error(t, err) // must preview first

	_, err = s.AutoMap()
	require.Error(t, err)

	require.Error(t, s.Confirm())

	_, _, err = s.Apply(nil)
	require.Error(t, err)
}

func TestSession_ConfirmBlocksOnRequiredGap(t *testing.T) {
	csvText := "Company Name,Status\nAcme,Lead\n"
	s, err := NewSession("deals.csv", int64(len(csvText)), strings.NewReader(csvText), nil)
	require.NoError(t, err)

	s.Preview(5)
	_, err = s.Validate()
	require.NoError(t, err)
	_, err = s.AutoMap()
	require.NoError(t, err)

	// value is required and has no column.
	err = s.Confirm()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value")

	s.Mapping().SetBatchValue("value", "250")
	require.NoError(t, s.Confirm())
}

func TestSession_BackDiscardsLaterState(t *testing.T) {
	s := newTestSession(t)
	s.Preview(5)
	_, err := s.Validate()
	require.NoError(t, err)
	_, err = s.AutoMap()
	require.NoError(t, err)
	require.NotNil(t, s.Mapping())

	// Backward moves are explicit and drop the mapping.
	require.NoError(t, s.Back(StatePreviewed))
	assert.Equal(t, StatePreviewed, s.State())
	assert.Nil(t, s.Mapping())

	// No automatic or forward "back" transitions.
	require.Error(t, s.Back(StateMapped))
	require.Error(t, s.Back(StatePreviewed))
}

func TestSession_ValidateGateBlocksMostlyEmptyFile(t *testing.T) {
	csvText := "Company Name,Amount\nAcme,100\n,\n,\n,\n"
	s, err := NewSession("deals.csv", int64(len(csvText)), strings.NewReader(csvText), nil)
	require.NoError(t, err)

	s.Preview(5)
	rep, err := s.Validate()
	require.Error(t, err)
	assert.False(t, rep.CanContinue)
	assert.Equal(t, 1, rep.ValidRows)
}
