package model

import "time"

type Article struct {
	ID           string     `json:"id"`
	Slug         string     `json:"slug" validate:"required"`
	Category     string     `json:"category" validate:"required"`
	Title        string     `json:"title" validate:"required"`
	BodyMarkdown string     `json:"body_markdown" validate:"required"`
	Published    bool       `json:"published"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
