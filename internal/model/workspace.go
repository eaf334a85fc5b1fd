package model

import "time"

type WorkspacePlan string

const (
	WorkspacePlanFree   WorkspacePlan = "free"
	WorkspacePlanPro    WorkspacePlan = "pro"
	WorkspacePlanAgency WorkspacePlan = "agency"
)

type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleEditor MemberRole = "editor"
	MemberRoleViewer MemberRole = "viewer"
)

type Workspace struct {
	ID        string        `json:"id"`
	Name      string        `json:"name" validate:"required"`
	Slug      string        `json:"slug" validate:"required"`
	Plan      WorkspacePlan `json:"plan" validate:"required,oneof=free pro agency"`
	CreatedAt *time.Time    `json:"created_at,omitempty"`
}

type Member struct {
	UserID string     `json:"user_id" validate:"required"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   MemberRole `json:"role" validate:"required,oneof=owner admin editor viewer"`
}
