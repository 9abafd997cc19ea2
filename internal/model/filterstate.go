package model

import "time"

// DateLayout is the ISO calendar-date format used by filter bounds and the
// date fields carried as strings on records.
const DateLayout = "2006-01-02"

// FilterState is the transient set of dashboard filters. Empty fields mean
// the corresponding predicate is inactive; an all-empty state filters nothing.
type FilterState struct {
	IndustryGroups []string `json:"industry_groups,omitempty"`
	LeaderIDs      []string `json:"leader_ids,omitempty"`
	From           string   `json:"from,omitempty"` // inclusive ISO date, "" = unbounded
	To             string   `json:"to,omitempty"`   // inclusive ISO date, "" = unbounded
	Query          string   `json:"query,omitempty"`
}

// Empty reports whether no predicate is active.
func (f FilterState) Empty() bool {
	return len(f.IndustryGroups) == 0 && len(f.LeaderIDs) == 0 &&
		f.From == "" && f.To == "" && f.Query == ""
}

// Bounds parses the From/To strings. Invalid or empty strings yield zero
// times, which callers treat as unbounded.
func (f FilterState) Bounds() (from, to time.Time) {
	if f.From != "" {
		from, _ = time.Parse(DateLayout, f.From)
	}
	if f.To != "" {
		to, _ = time.Parse(DateLayout, f.To)
	}
	return from, to
}
