package model

import "time"

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Template describes a recurring post: the content plus the calendar rule
// used to materialize scheduled posts.
type Template struct {
	ID          string         `json:"id"`
	WorkspaceID string         `json:"workspace_id"`
	Name        string         `json:"name" validate:"required"`
	Body        string         `json:"body" validate:"required"`
	Platforms   []string       `json:"platforms" validate:"required,min=1,dive,oneof=twitter facebook instagram linkedin"`
	Frequency   Frequency      `json:"frequency" validate:"required,oneof=daily weekly monthly"`
	Interval    int            `json:"interval" validate:"required,min=1"`
	Weekdays    []time.Weekday `json:"weekdays,omitempty"`
	DayOfMonth  int            `json:"day_of_month,omitempty" validate:"omitempty,min=1,max=31"`
	AtHour      int            `json:"at_hour" validate:"min=0,max=23"`
	AtMinute    int            `json:"at_minute" validate:"min=0,max=59"`
	Active      bool           `json:"active"`
}
