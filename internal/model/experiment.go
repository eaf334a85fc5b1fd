package model

import "time"

type ExperimentStatus string

const (
	ExperimentStatusDraft     ExperimentStatus = "draft"
	ExperimentStatusRunning   ExperimentStatus = "running"
	ExperimentStatusCompleted ExperimentStatus = "completed"
)

type ExperimentMetric string

const (
	ExperimentMetricClicks ExperimentMetric = "clicks"
	ExperimentMetricLikes  ExperimentMetric = "likes"
)

type Experiment struct {
	ID          string           `json:"id"`
	WorkspaceID string           `json:"workspace_id"`
	Name        string           `json:"name" validate:"required"`
	Metric      ExperimentMetric `json:"metric" validate:"required,oneof=clicks likes"`
	Status      ExperimentStatus `json:"status"`
	Variants    []*Variant       `json:"variants,omitempty"`
	Evaluation  *Evaluation      `json:"evaluation,omitempty"`
	CreatedAt   *time.Time       `json:"created_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

type Variant struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Body        string `json:"body" validate:"required"`
	Impressions int64  `json:"impressions"`
	Conversions int64  `json:"conversions"`
}

// Evaluation is the outcome of completing an experiment. WinnerVariantID is
// nil when the leading variant is not significantly ahead.
type Evaluation struct {
	WinnerVariantID *string `json:"winner_variant_id"`
	LeaderID        string  `json:"leader_id"`
	RunnerUpID      string  `json:"runner_up_id"`
	PValue          float64 `json:"p_value"`
	Significant     bool    `json:"significant"`
}
