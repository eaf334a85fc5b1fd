package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/h-shvedko/sociallyhub-sub010/internal/db"
	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type AnalyticsService struct {
	tx db.Transactor

	metrics    repository.MetricsRepository
	posts      repository.PostRepository
	workspaces repository.WorkspaceRepository
}

func NewAnalyticsService(tx db.Transactor) *AnalyticsService {
	return &AnalyticsService{tx: tx}
}

func totalsToSummary(t *repository.Totals) *model.Summary {
	s := &model.Summary{
		Impressions: t.Impressions,
		Clicks:      t.Clicks,
		Likes:       t.Likes,
		Shares:      t.Shares,
		Comments:    t.Comments,
	}
	if t.Impressions > 0 {
		s.EngagementRate = float64(t.Clicks+t.Likes+t.Shares+t.Comments) / float64(t.Impressions)
	}
	return s
}

// Ingest stores a metric sample for a published post.
func (s *AnalyticsService) Ingest(ctx context.Context, actorID, workspaceID string, sample *model.MetricSample) (*model.MetricSample, *Error) {
	l := logger.FromContext(ctx)
	out := &model.MetricSample{}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		post, err := s.posts.Get(txCtx, workspaceID, sample.PostID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "post not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get post")
		}

		if post.Status != model.PostStatusPublished {
			return NewServiceError(ErrorCodePostNotDraft, "metrics only apply to published posts")
		}

		repoSample := &repository.MetricSample{
			ID:          uuid.NewString(),
			PostID:      sample.PostID,
			Impressions: sample.Impressions,
			Clicks:      sample.Clicks,
			Likes:       sample.Likes,
			Shares:      sample.Shares,
			Comments:    sample.Comments,
		}
		if err = s.metrics.Insert(txCtx, repoSample); err != nil {
			l.Error("failed to ingest sample", zap.String("post_id", sample.PostID), zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to ingest sample")
		}

		out = &model.MetricSample{
			PostID:      repoSample.PostID,
			Impressions: repoSample.Impressions,
			Clicks:      repoSample.Clicks,
			Likes:       repoSample.Likes,
			Shares:      repoSample.Shares,
			Comments:    repoSample.Comments,
			CollectedAt: repoSample.CollectedAt,
		}
		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return out, nil
}

func (s *AnalyticsService) WorkspaceSummary(ctx context.Context, actorID, workspaceID string) (*model.Summary, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	totals, err := s.metrics.WorkspaceTotals(ctx, workspaceID)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to aggregate metrics")
	}

	return totalsToSummary(totals), nil
}

func (s *AnalyticsService) CampaignSummary(ctx context.Context, actorID, workspaceID, campaignID string) (*model.Summary, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	totals, err := s.metrics.CampaignTotals(ctx, workspaceID, campaignID)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to aggregate metrics")
	}

	return totalsToSummary(totals), nil
}

func (s *AnalyticsService) TopPosts(ctx context.Context, actorID, workspaceID string, limit int) ([]*model.TopPost, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	if limit < 1 || limit > 100 {
		limit = 10
	}

	repoTop, err := s.metrics.TopPosts(ctx, workspaceID, limit)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to rank posts")
	}

	out := make([]*model.TopPost, 0, len(repoTop))
	for _, tp := range repoTop {
		out = append(out, &model.TopPost{
			PostID:      tp.PostID,
			Body:        tp.Body,
			Impressions: tp.Impressions,
		})
	}
	return out, nil
}

func (s *AnalyticsService) WithMetricsRepo(r repository.MetricsRepository) *AnalyticsService {
	s.metrics = r
	return s
}

func (s *AnalyticsService) WithPostRepo(r repository.PostRepository) *AnalyticsService {
	s.posts = r
	return s
}

func (s *AnalyticsService) WithWorkspaceRepo(r repository.WorkspaceRepository) *AnalyticsService {
	s.workspaces = r
	return s
}
