package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/pipeline-cli/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 14, 30, 0, 0, time.UTC)
}

func testDeals() []model.Deal {
	return []model.Deal{
		{ID: "d1", Name: "Acme rollout", Notes: "big expansion", IndustryGroup: "Manufacturing", LeaderID: "l1", CreatedAt: day(2026, 1, 15)},
		{ID: "d2", Name: "Globex renewal", Notes: "", IndustryGroup: "Technology", LeaderID: "l2", CreatedAt: day(2026, 3, 2)},
		{ID: "d3", Name: "Initech pilot", Notes: "acme competitor in play", IndustryGroup: "Technology", LeaderID: "l1", CreatedAt: day(2026, 5, 20)},
	}
}

func TestDeals_EmptyStateIsIdentity(t *testing.T) {
	deals := testDeals()
	got := Deals(deals, model.FilterState{})
	assert.Equal(t, deals, got)
}

func TestDeals_DoesNotMutateInput(t *testing.T) {
	deals := testDeals()
	_ = Deals(deals, model.FilterState{IndustryGroups: []string{"Technology"}})
	assert.Equal(t, testDeals(), deals)
}

func TestDeals_IndustryGroup(t *testing.T) {
	got := Deals(testDeals(), model.FilterState{IndustryGroups: []string{"Technology"}})
	assert.Len(t, got, 2)
	for _, d := range got {
		assert.Equal(t, "Technology", d.IndustryGroup)
	}
}

func TestDeals_LeaderSet(t *testing.T) {
	got := Deals(testDeals(), model.FilterState{LeaderIDs: []string{"l1"}})
	assert.Len(t, got, 2)
	assert.Equal(t, "d1", got[0].ID)
	assert.Equal(t, "d3", got[1].ID)
}

func TestDeals_DateRange(t *testing.T) {
	got := Deals(testDeals(), model.FilterState{From: "2026-02-01", To: "2026-04-30"})
	assert.Len(t, got, 1)
	assert.Equal(t, "d2", got[0].ID)

	// Inclusive bounds on the calendar date, regardless of time-of-day.
	got = Deals(testDeals(), model.FilterState{From: "2026-01-15", To: "2026-01-15"})
	assert.Len(t, got, 1)
	assert.Equal(t, "d1", got[0].ID)

	// Open-ended range.
	got = Deals(testDeals(), model.FilterState{From: "2026-03-01"})
	assert.Len(t, got, 2)
}

func TestDeals_SearchNameAndNotes(t *testing.T) {
	// Matches name of d1 and notes of d3, case-insensitively.
	got := Deals(testDeals(), model.FilterState{Query: "ACME"})
	assert.Len(t, got, 2)
	assert.Equal(t, "d1", got[0].ID)
	assert.Equal(t, "d3", got[1].ID)
}

func TestDeals_PredicatesAreANDed(t *testing.T) {
	got := Deals(testDeals(), model.FilterState{
		IndustryGroups: []string{"Technology"},
		LeaderIDs:      []string{"l1"},
	})
	assert.Len(t, got, 1)
	assert.Equal(t, "d3", got[0].ID)
}

func TestDeals_InvalidBoundsTreatedAsUnbounded(t *testing.T) {
	got := Deals(testDeals(), model.FilterState{From: "garbage"})
	assert.Len(t, got, 3)
}

func TestJobs(t *testing.T) {
	jobs := []model.Job{
		{ID: "j1", Name: "Plant retrofit", IndustryGroup: "Manufacturing", LeaderID: "l1", CreatedAt: day(2026, 2, 1)},
		{ID: "j2", Name: "Cloud migration", IndustryGroup: "Technology", LeaderID: "l2", CreatedAt: day(2026, 4, 1)},
	}

	got := Jobs(jobs, model.FilterState{LeaderIDs: []string{"l2"}})
	assert.Len(t, got, 1)
	assert.Equal(t, "j2", got[0].ID)

	got = Jobs(jobs, model.FilterState{Query: "retrofit"})
	assert.Len(t, got, 1)
	assert.Equal(t, "j1", got[0].ID)
}
