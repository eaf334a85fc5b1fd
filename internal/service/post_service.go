package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/h-shvedko/sociallyhub-sub010/internal/db"
	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type PostService struct {
	tx db.Transactor

	posts      repository.PostRepository
	workspaces repository.WorkspaceRepository

	now func() time.Time
}

func NewPostService(tx db.Transactor) *PostService {
	return &PostService{
		tx:  tx,
		now: time.Now,
	}
}

func postToModel(p *repository.Post) *model.Post {
	return &model.Post{
		ID:          p.ID,
		WorkspaceID: p.WorkspaceID,
		CampaignID:  p.CampaignID,
		AuthorID:    p.AuthorID,
		Body:        p.Body,
		Platforms:   p.Platforms,
		Status:      p.Status,
		ScheduledAt: p.ScheduledAt,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
	}
}

func (s *PostService) CreateDraft(ctx context.Context, authorID string, draft *model.Post) (*model.Post, *Error) {
	l := logger.FromContext(ctx)

	if sErr := requireRole(ctx, s.workspaces, draft.WorkspaceID, authorID, rolesEditor...); sErr != nil {
		return nil, sErr
	}

	repoPost := &repository.Post{
		ID:          uuid.NewString(),
		WorkspaceID: draft.WorkspaceID,
		CampaignID:  draft.CampaignID,
		AuthorID:    authorID,
		Body:        draft.Body,
		Platforms:   draft.Platforms,
		Status:      model.PostStatusDraft,
	}

	err := s.posts.Create(ctx, repoPost)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "campaign not found")
	case err != nil:
		l.Error("failed to create post", zap.String("workspace_id", draft.WorkspaceID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to create post")
	}

	return postToModel(repoPost), nil
}

// SchedulePost moves a draft to scheduled. The time must be in the future and
// the draft must name at least one platform.
func (s *PostService) SchedulePost(ctx context.Context, actorID, workspaceID, postID string, at time.Time) (*model.Post, *Error) {
	l := logger.FromContext(ctx)
	post := &model.Post{}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		repoPost, err := s.posts.Get(txCtx, workspaceID, postID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "post not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get post")
		}

		if repoPost.Status != model.PostStatusDraft {
			return NewServiceError(ErrorCodePostNotDraft, "only drafts can be scheduled")
		}
		if len(repoPost.Platforms) == 0 {
			return NewServiceError(ErrorCodeInvalidBody, "post has no platforms")
		}
		if !at.After(s.now()) {
			return NewServiceError(ErrorCodeScheduleInPast, "scheduled_at must be in the future")
		}

		status := model.PostStatusScheduled
		scheduledAt := &at
		patched, err := s.posts.Patch(txCtx, &repository.PostPatch{
			ID:          postID,
			WorkspaceID: workspaceID,
			Status:      &status,
			ScheduledAt: &scheduledAt,
		})
		if err != nil {
			l.Error("failed to schedule post", zap.String("post_id", postID), zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to schedule post")
		}

		post = postToModel(patched)
		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return post, nil
}

func (s *PostService) UpdateBody(ctx context.Context, actorID, workspaceID, postID, body string) (*model.Post, *Error) {
	post := &model.Post{}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		repoPost, err := s.posts.Get(txCtx, workspaceID, postID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "post not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get post")
		}

		if repoPost.Status == model.PostStatusPublished || repoPost.Status == model.PostStatusFailed {
			return NewServiceError(ErrorCodePostPublished, "published posts are immutable")
		}

		patched, err := s.posts.Patch(txCtx, &repository.PostPatch{
			ID:          postID,
			WorkspaceID: workspaceID,
			Body:        &body,
		})
		if err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to update post")
		}

		post = postToModel(patched)
		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return post, nil
}

// PublishNow publishes a draft or scheduled post immediately.
func (s *PostService) PublishNow(ctx context.Context, actorID, workspaceID, postID string) (*model.Post, *Error) {
	l := logger.FromContext(ctx)
	post := &model.Post{}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		repoPost, err := s.posts.Get(txCtx, workspaceID, postID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "post not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get post")
		}

		if repoPost.Status == model.PostStatusPublished || repoPost.Status == model.PostStatusFailed {
			return NewServiceError(ErrorCodePostPublished, "post is already published")
		}
		if len(repoPost.Platforms) == 0 {
			return NewServiceError(ErrorCodeInvalidBody, "post has no platforms")
		}

		now := s.now()
		status := model.PostStatusPublished
		publishedAt := &now
		patched, err := s.posts.Patch(txCtx, &repository.PostPatch{
			ID:          postID,
			WorkspaceID: workspaceID,
			Status:      &status,
			PublishedAt: &publishedAt,
		})
		if err != nil {
			l.Error("failed to publish post", zap.String("post_id", postID), zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to publish post")
		}

		post = postToModel(patched)
		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return post, nil
}

// CancelSchedule returns a scheduled post to draft and clears scheduled_at.
func (s *PostService) CancelSchedule(ctx context.Context, actorID, workspaceID, postID string) (*model.Post, *Error) {
	post := &model.Post{}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		repoPost, err := s.posts.Get(txCtx, workspaceID, postID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "post not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get post")
		}

		if repoPost.Status != model.PostStatusScheduled {
			return NewServiceError(ErrorCodePostNotDraft, "post is not scheduled")
		}

		status := model.PostStatusDraft
		var noTime *time.Time
		patched, err := s.posts.Patch(txCtx, &repository.PostPatch{
			ID:          postID,
			WorkspaceID: workspaceID,
			Status:      &status,
			ScheduledAt: &noTime,
		})
		if err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to cancel schedule")
		}

		post = postToModel(patched)
		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, actorID, workspaceID, postID string) (*model.Post, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	repoPost, err := s.posts.Get(ctx, workspaceID, postID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "post not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get post")
	}

	return postToModel(repoPost), nil
}

func (s *PostService) ListPosts(ctx context.Context, actorID, workspaceID string, status model.PostStatus) ([]*model.Post, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	repoPosts, err := s.posts.List(ctx, workspaceID, status)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list posts")
	}

	posts := make([]*model.Post, 0, len(repoPosts))
	for _, p := range repoPosts {
		posts = append(posts, postToModel(p))
	}
	return posts, nil
}

func (s *PostService) DeletePost(ctx context.Context, actorID, workspaceID, postID string) *Error {
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		repoPost, err := s.posts.Get(txCtx, workspaceID, postID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "post not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get post")
		}

		if repoPost.Status == model.PostStatusPublished {
			return NewServiceError(ErrorCodePostPublished, "published posts cannot be deleted")
		}

		if err = s.posts.Delete(txCtx, workspaceID, postID); err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to delete post")
		}
		return nil
	})

	return txError(err)
}

func (s *PostService) WithPostRepo(r repository.PostRepository) *PostService {
	s.posts = r
	return s
}

func (s *PostService) WithWorkspaceRepo(r repository.WorkspaceRepository) *PostService {
	s.workspaces = r
	return s
}

// WithNow overrides the clock, used in tests.
func (s *PostService) WithNow(now func() time.Time) *PostService {
	s.now = now
	return s
}
