package model

import "time"

type CampaignStatus string

const (
	CampaignStatusPlanned  CampaignStatus = "planned"
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusArchived CampaignStatus = "archived"
)

type Client struct {
	ID           string `json:"id"`
	WorkspaceID  string `json:"workspace_id"`
	Name         string `json:"name" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Notes        string `json:"notes"`
}

type Campaign struct {
	ID          string         `json:"id"`
	WorkspaceID string         `json:"workspace_id"`
	ClientID    *string        `json:"client_id,omitempty"`
	Name        string         `json:"name" validate:"required"`
	Status      CampaignStatus `json:"status"`
	StartsAt    *time.Time     `json:"starts_at,omitempty"`
	EndsAt      *time.Time     `json:"ends_at,omitempty"`
}
