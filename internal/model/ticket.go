package model

import "time"

type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

type Ticket struct {
	ID          string           `json:"id"`
	WorkspaceID string           `json:"workspace_id"`
	OpenedBy    string           `json:"opened_by"`
	AssigneeID  *string          `json:"assignee_id,omitempty"`
	Subject     string           `json:"subject" validate:"required"`
	Body        string           `json:"body" validate:"required"`
	Priority    TicketPriority   `json:"priority" validate:"required,oneof=low normal high urgent"`
	Status      TicketStatus     `json:"status"`
	Comments    []*TicketComment `json:"comments,omitempty"`
	CreatedAt   *time.Time       `json:"created_at,omitempty"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty"`
}

type TicketComment struct {
	ID        string     `json:"id"`
	TicketID  string     `json:"ticket_id"`
	AuthorID  string     `json:"author_id"`
	Body      string     `json:"body" validate:"required"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
