package model

import "time"

// JobStage is a pipeline position for a post-sale project.
type JobStage string

const (
	JobStagePending    JobStage = "Pending"
	JobStageConfirmed  JobStage = "Confirmed"
	JobStageInProgress JobStage = "In Progress"
	JobStageCompleted  JobStage = "Completed"
	JobStageLost       JobStage = "Lost"
)

// JobStageOrder is the canonical job funnel order.
var JobStageOrder = []JobStage{
	JobStagePending,
	JobStageConfirmed,
	JobStageInProgress,
	JobStageCompleted,
	JobStageLost,
}

// Closed reports whether the job reached a terminal stage.
func (s JobStage) Closed() bool {
	return s == JobStageCompleted || s == JobStageLost
}

// ProjectStatus describes execution health, orthogonal to the stage.
type ProjectStatus string

const (
	ProjectNotStarted ProjectStatus = "Not Started"
	ProjectOnTrack    ProjectStatus = "On Track"
	ProjectAtRisk     ProjectStatus = "At Risk"
	ProjectDone       ProjectStatus = "Done"
)

// Job is a confirmed or executing project, optionally derived from a deal.
type Job struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	DealID               string        `json:"deal_id,omitempty"`
	AccountID            string        `json:"account_id,omitempty"`
	Value                float64       `json:"value"`
	Stage                JobStage      `json:"stage"`
	ProjectStatus        ProjectStatus `json:"project_status,omitempty"`
	LeaderID             string        `json:"leader_id"`
	IndustryGroup        string        `json:"industry_group,omitempty"`
	ExpectedConfirmation string        `json:"expected_confirmation,omitempty"` // ISO date
	ProjectStart         string        `json:"project_start,omitempty"`
	ProjectEnd           string        `json:"project_end,omitempty"`
	Notes                string        `json:"notes,omitempty"`
	Priority             string        `json:"priority,omitempty"`
	LostReason           string        `json:"lost_reason,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	LastActivityAt       time.Time     `json:"last_activity_at"`
}
