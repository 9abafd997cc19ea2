// Package filter reduces record collections against a FilterState. All
// functions are pure: order-preserving, no mutation of the input, safe to
// recompute on every request.
package filter

import (
	"strings"
	"time"

	"github.com/sells-group/pipeline-cli/internal/model"
)

// Record is the slice of a deal or job the filter predicates look at.
type Record interface {
	FilterGroup() string
	FilterLeaderID() string
	FilterCreatedAt() time.Time
	FilterText() (name, notes string)
}

type dealRecord struct{ d model.Deal }

func (r dealRecord) FilterGroup() string          { return r.d.IndustryGroup }
func (r dealRecord) FilterLeaderID() string       { return r.d.LeaderID }
func (r dealRecord) FilterCreatedAt() time.Time   { return r.d.CreatedAt }
func (r dealRecord) FilterText() (string, string) { return r.d.Name, r.d.Notes }

type jobRecord struct{ j model.Job }

func (r jobRecord) FilterGroup() string          { return r.j.IndustryGroup }
func (r jobRecord) FilterLeaderID() string       { return r.j.LeaderID }
func (r jobRecord) FilterCreatedAt() time.Time   { return r.j.CreatedAt }
func (r jobRecord) FilterText() (string, string) { return r.j.Name, r.j.Notes }

// Deals returns the deals satisfying every active predicate of state,
// in their original order. The input slice is never modified.
func Deals(deals []model.Deal, state model.FilterState) []model.Deal {
	out := make([]model.Deal, 0, len(deals))
	p := newPredicate(state)
	for _, d := range deals {
		if p.match(dealRecord{d}) {
			out = append(out, d)
		}
	}
	return out
}

// Jobs is the job-side counterpart of Deals.
func Jobs(jobs []model.Job, state model.FilterState) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	p := newPredicate(state)
	for _, j := range jobs {
		if p.match(jobRecord{j}) {
			out = append(out, j)
		}
	}
	return out
}

// predicate holds the pre-lowered, pre-parsed filter criteria so the per-record
// check does no repeated parsing.
type predicate struct {
	groups  map[string]bool
	leaders map[string]bool
	from    time.Time
	to      time.Time
	query   string
}

func newPredicate(state model.FilterState) predicate {
	p := predicate{query: strings.ToLower(state.Query)}
	if len(state.IndustryGroups) > 0 {
		p.groups = make(map[string]bool, len(state.IndustryGroups))
		for _, g := range state.IndustryGroups {
			p.groups[g] = true
		}
	}
	if len(state.LeaderIDs) > 0 {
		p.leaders = make(map[string]bool, len(state.LeaderIDs))
		for _, id := range state.LeaderIDs {
			p.leaders[id] = true
		}
	}
	p.from, p.to = state.Bounds()
	return p
}

func (p predicate) match(r Record) bool {
	if p.groups != nil && !p.groups[r.FilterGroup()] {
		return false
	}
	if p.leaders != nil && !p.leaders[r.FilterLeaderID()] {
		return false
	}

	// Date-range comparison is by calendar date, not time-of-day.
	if !p.from.IsZero() || !p.to.IsZero() {
		created := dateOnly(r.FilterCreatedAt())
		if !p.from.IsZero() && created.Before(p.from) {
			return false
		}
		if !p.to.IsZero() && created.After(p.to) {
			return false
		}
	}

	if p.query != "" {
		name, notes := r.FilterText()
		if !strings.Contains(strings.ToLower(name), p.query) &&
			!strings.Contains(strings.ToLower(notes), p.query) {
			return false
		}
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
