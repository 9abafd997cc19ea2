package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampProbability(t *testing.T) {
	assert.Equal(t, 100, ClampProbability(StageClosedWon, 10))
	assert.Equal(t, 0, ClampProbability(StageClosedLost, 90))
	assert.Equal(t, 0, ClampProbability(StageLead, -5))
	assert.Equal(t, 100, ClampProbability(StageProposal, 250))
	assert.Equal(t, 45, ClampProbability(StageNegotiation, 45))
}

func TestDealStage(t *testing.T) {
	assert.True(t, StageClosedWon.Closed())
	assert.True(t, StageClosedLost.Closed())
	assert.False(t, StageLead.Closed())

	assert.True(t, StageQualified.Known())
	assert.False(t, DealStage("Warm Lead").Known())
}

func TestWeightedValue(t *testing.T) {
	d := Deal{Value: 2000, Probability: 10, Stage: StageLead}
	assert.InDelta(t, 200, d.WeightedValue(), 0.001)

	won := Deal{Value: 2000, Probability: 100, Stage: StageClosedWon}
	assert.Zero(t, won.WeightedValue())
}

func TestFilterStateBounds(t *testing.T) {
	var empty FilterState
	assert.True(t, empty.Empty())

	f := FilterState{From: "2026-01-01", To: "2026-06-30"}
	assert.False(t, f.Empty())

	from, to := f.Bounds()
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), to)

	bad := FilterState{From: "not-a-date"}
	from, to = bad.Bounds()
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())
}
