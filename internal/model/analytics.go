package model

import "time"

type MetricSample struct {
	PostID      string     `json:"post_id" validate:"required"`
	Impressions int64      `json:"impressions" validate:"min=0"`
	Clicks      int64      `json:"clicks" validate:"min=0"`
	Likes       int64      `json:"likes" validate:"min=0"`
	Shares      int64      `json:"shares" validate:"min=0"`
	Comments    int64      `json:"comments" validate:"min=0"`
	CollectedAt *time.Time `json:"collected_at,omitempty"`
}

type Summary struct {
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Likes          int64   `json:"likes"`
	Shares         int64   `json:"shares"`
	Comments       int64   `json:"comments"`
	EngagementRate float64 `json:"engagement_rate"`
}

type TopPost struct {
	PostID      string `json:"post_id"`
	Body        string `json:"body"`
	Impressions int64  `json:"impressions"`
}
