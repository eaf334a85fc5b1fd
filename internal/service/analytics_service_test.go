package service

import (
	"context"
	"testing"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_WorkspaceSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		totals   *repository.Totals
		wantRate float64
	}{
		{
			name:     "engagement rate over impressions",
			totals:   &repository.Totals{Impressions: 1000, Clicks: 40, Likes: 30, Shares: 20, Comments: 10},
			wantRate: 0.1,
		},
		{
			name:     "no impressions keeps the rate at zero",
			totals:   &repository.Totals{Impressions: 0, Clicks: 0, Likes: 0, Shares: 0, Comments: 0},
			wantRate: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			workspaces := new(MockWorkspaceRepository)
			workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
				Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "viewer"}, nil)

			metrics := new(MockMetricsRepository)
			metrics.On("WorkspaceTotals", mock.Anything, "ws-1").Return(tt.totals, nil)

			svc := NewAnalyticsService(new(MockTransactor)).
				WithMetricsRepo(metrics).
				WithWorkspaceRepo(workspaces)

			got, sErr := svc.WorkspaceSummary(context.Background(), "user-1", "ws-1")

			require.Nil(t, sErr)
			assert.Equal(t, tt.totals.Impressions, got.Impressions)
			assert.InDelta(t, tt.wantRate, got.EngagementRate, 1e-9)
		})
	}
}

func TestAnalyticsService_IngestRequiresPublishedPost(t *testing.T) {
	t.Parallel()

	workspaces := new(MockWorkspaceRepository)
	workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
		Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "editor"}, nil)

	posts := new(MockPostRepository)
	posts.On("Get", mock.Anything, "ws-1", "post-1").
		Return(&repository.Post{ID: "post-1", WorkspaceID: "ws-1", Status: model.PostStatusDraft}, nil)

	metrics := new(MockMetricsRepository)

	svc := NewAnalyticsService(new(MockTransactor)).
		WithMetricsRepo(metrics).
		WithPostRepo(posts).
		WithWorkspaceRepo(workspaces)

	_, sErr := svc.Ingest(context.Background(), "user-1", "ws-1", &model.MetricSample{PostID: "post-1", Impressions: 10})

	require.NotNil(t, sErr)
	assert.Equal(t, ErrorCodePostNotDraft, sErr.Code)
	metrics.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
