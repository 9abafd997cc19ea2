package model

import "time"

// DealStage is a pipeline position for an opportunity.
type DealStage string

const (
	StageLead        DealStage = "Lead"
	StageQualified   DealStage = "Qualified"
	StageProposal    DealStage = "Proposal"
	StageNegotiation DealStage = "Negotiation"
	StageClosedWon   DealStage = "Closed Won"
	StageClosedLost  DealStage = "Closed Lost"
)

// DealStageOrder is the canonical funnel order. Stage strings that are not in
// this list (e.g. after a lossy import) are kept on the record but excluded
// from funnel and win-rate computations.
var DealStageOrder = []DealStage{
	StageLead,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// Closed reports whether the stage is a terminal one.
func (s DealStage) Closed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Known reports whether the stage is one of the canonical stages.
func (s DealStage) Known() bool {
	for _, c := range DealStageOrder {
		if s == c {
			return true
		}
	}
	return false
}

// CustomFields is the open-ended field bag carried by a deal. Extra holds
// columns from imports that did not map onto any schema field.
type CustomFields struct {
	Priority   string            `json:"priority,omitempty"`
	Source     string            `json:"source,omitempty"`
	Competitor string            `json:"competitor,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Deal is a prospective sale tracked through the pipeline.
type Deal struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Value          float64      `json:"value"`
	Stage          DealStage    `json:"stage"`
	Probability    int          `json:"probability"`
	LeaderID       string       `json:"leader_id"`
	AccountID      string       `json:"account_id,omitempty"`
	IndustryGroup  string       `json:"industry_group"`
	CreatedAt      time.Time    `json:"created_at"`
	LastActivityAt time.Time    `json:"last_activity_at"`
	ExpectedClose  string       `json:"expected_close,omitempty"` // ISO date, "" = unset
	Notes          string       `json:"notes,omitempty"`
	Custom         CustomFields `json:"custom,omitempty"`
}

// ClampProbability normalizes probability to the stage convention:
// Closed Won is always 100, Closed Lost always 0, everything else [0,100].
// Enforced at entry points only, never at the storage layer.
func ClampProbability(stage DealStage, p int) int {
	switch stage {
	case StageClosedWon:
		return 100
	case StageClosedLost:
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// WeightedValue is the risk-adjusted expected revenue of a single deal.
// Closed deals contribute nothing to the pipeline.
func (d Deal) WeightedValue() float64 {
	if d.Stage.Closed() {
		return 0
	}
	return d.Value * float64(d.Probability) / 100
}
