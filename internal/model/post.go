package model

import "time"

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
)

type Post struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	CampaignID  *string    `json:"campaign_id,omitempty"`
	AuthorID    string     `json:"author_id"`
	Body        string     `json:"body"`
	Platforms   []string   `json:"platforms"`
	Status      PostStatus `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
