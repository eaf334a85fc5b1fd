package service

import (
	"context"
	"testing"
	"time"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPostService_SchedulePost(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.Add(2 * time.Hour)

	tests := []struct {
		name       string
		at         time.Time
		setupMocks func(posts *MockPostRepository, workspaces *MockWorkspaceRepository)
		wantCode   ErrorCode
	}{
		{
			name: "schedules a draft",
			at:   future,
			setupMocks: func(posts *MockPostRepository, workspaces *MockWorkspaceRepository) {
				workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
					Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "editor"}, nil)
				posts.On("Get", mock.Anything, "ws-1", "post-1").
					Return(&repository.Post{
						ID:          "post-1",
						WorkspaceID: "ws-1",
						Status:      model.PostStatusDraft,
						Platforms:   []string{"twitter"},
					}, nil)
				posts.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.PostPatch) bool {
					return p.ID == "post-1" && p.Status != nil && *p.Status == model.PostStatusScheduled
				})).Return(&repository.Post{
					ID:          "post-1",
					WorkspaceID: "ws-1",
					Status:      model.PostStatusScheduled,
					Platforms:   []string{"twitter"},
					ScheduledAt: &future,
				}, nil)
			},
		},
		{
			name: "rejects a published post",
			at:   future,
			setupMocks: func(posts *MockPostRepository, workspaces *MockWorkspaceRepository) {
				workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
					Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "editor"}, nil)
				posts.On("Get", mock.Anything, "ws-1", "post-1").
					Return(&repository.Post{
						ID:        "post-1",
						Status:    model.PostStatusPublished,
						Platforms: []string{"twitter"},
					}, nil)
			},
			wantCode: ErrorCodePostNotDraft,
		},
		{
			name: "rejects a time in the past",
			at:   now.Add(-time.Hour),
			setupMocks: func(posts *MockPostRepository, workspaces *MockWorkspaceRepository) {
				workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
					Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "editor"}, nil)
				posts.On("Get", mock.Anything, "ws-1", "post-1").
					Return(&repository.Post{
						ID:        "post-1",
						Status:    model.PostStatusDraft,
						Platforms: []string{"twitter"},
					}, nil)
			},
			wantCode: ErrorCodeScheduleInPast,
		},
		{
			name: "rejects a draft without platforms",
			at:   future,
			setupMocks: func(posts *MockPostRepository, workspaces *MockWorkspaceRepository) {
				workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
					Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "editor"}, nil)
				posts.On("Get", mock.Anything, "ws-1", "post-1").
					Return(&repository.Post{
						ID:     "post-1",
						Status: model.PostStatusDraft,
					}, nil)
			},
			wantCode: ErrorCodeInvalidBody,
		},
		{
			name: "viewers cannot schedule",
			at:   future,
			setupMocks: func(posts *MockPostRepository, workspaces *MockWorkspaceRepository) {
				workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
					Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "viewer"}, nil)
			},
			wantCode: ErrorCodeForbidden,
		},
		{
			name: "non-members see not found",
			at:   future,
			setupMocks: func(posts *MockPostRepository, workspaces *MockWorkspaceRepository) {
				workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
					Return(nil, repository.ErrNotFound)
			},
			wantCode: ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			posts := new(MockPostRepository)
			workspaces := new(MockWorkspaceRepository)
			tt.setupMocks(posts, workspaces)

			svc := NewPostService(new(MockTransactor)).
				WithPostRepo(posts).
				WithWorkspaceRepo(workspaces).
				WithNow(func() time.Time { return now })

			got, sErr := svc.SchedulePost(context.Background(), "user-1", "ws-1", "post-1", tt.at)

			if tt.wantCode != "" {
				require.NotNil(t, sErr)
				assert.Equal(t, tt.wantCode, sErr.Code)
				return
			}

			require.Nil(t, sErr)
			assert.Equal(t, model.PostStatusScheduled, got.Status)
			require.NotNil(t, got.ScheduledAt)
			assert.Equal(t, future, *got.ScheduledAt)
			posts.AssertExpectations(t)
		})
	}
}

func TestPostService_PublishNow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	posts := new(MockPostRepository)
	workspaces := new(MockWorkspaceRepository)

	workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
		Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "owner"}, nil)
	posts.On("Get", mock.Anything, "ws-1", "post-1").
		Return(&repository.Post{
			ID:        "post-1",
			Status:    model.PostStatusScheduled,
			Platforms: []string{"linkedin"},
		}, nil)
	posts.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.PostPatch) bool {
		return p.Status != nil && *p.Status == model.PostStatusPublished &&
			p.PublishedAt != nil && *p.PublishedAt != nil
	})).Return(&repository.Post{
		ID:          "post-1",
		Status:      model.PostStatusPublished,
		Platforms:   []string{"linkedin"},
		PublishedAt: &now,
	}, nil)

	svc := NewPostService(new(MockTransactor)).
		WithPostRepo(posts).
		WithWorkspaceRepo(workspaces).
		WithNow(func() time.Time { return now })

	got, sErr := svc.PublishNow(context.Background(), "user-1", "ws-1", "post-1")

	require.Nil(t, sErr)
	assert.Equal(t, model.PostStatusPublished, got.Status)
	require.NotNil(t, got.PublishedAt)
	assert.Equal(t, now, *got.PublishedAt)
	posts.AssertExpectations(t)
}

func TestPostService_CancelSchedule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		postStatus model.PostStatus
		wantCode   ErrorCode
	}{
		{name: "cancels a scheduled post", postStatus: model.PostStatusScheduled},
		{name: "drafts cannot be cancelled", postStatus: model.PostStatusDraft, wantCode: ErrorCodePostNotDraft},
		{name: "published posts cannot be cancelled", postStatus: model.PostStatusPublished, wantCode: ErrorCodePostNotDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			posts := new(MockPostRepository)
			workspaces := new(MockWorkspaceRepository)

			workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
				Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "editor"}, nil)
			posts.On("Get", mock.Anything, "ws-1", "post-1").
				Return(&repository.Post{ID: "post-1", Status: tt.postStatus}, nil)
			posts.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.PostPatch) bool {
				return p.Status != nil && *p.Status == model.PostStatusDraft &&
					p.ScheduledAt != nil && *p.ScheduledAt == nil
			})).Return(&repository.Post{ID: "post-1", Status: model.PostStatusDraft}, nil)

			svc := NewPostService(new(MockTransactor)).
				WithPostRepo(posts).
				WithWorkspaceRepo(workspaces)

			got, sErr := svc.CancelSchedule(context.Background(), "user-1", "ws-1", "post-1")

			if tt.wantCode != "" {
				require.NotNil(t, sErr)
				assert.Equal(t, tt.wantCode, sErr.Code)
				return
			}

			require.Nil(t, sErr)
			assert.Equal(t, model.PostStatusDraft, got.Status)
			assert.Nil(t, got.ScheduledAt)
		})
	}
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	t.Run("published posts cannot be deleted", func(t *testing.T) {
		t.Parallel()

		posts := new(MockPostRepository)
		workspaces := new(MockWorkspaceRepository)

		workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "owner"}, nil)
		posts.On("Get", mock.Anything, "ws-1", "post-1").
			Return(&repository.Post{ID: "post-1", Status: model.PostStatusPublished}, nil)

		svc := NewPostService(new(MockTransactor)).
			WithPostRepo(posts).
			WithWorkspaceRepo(workspaces)

		sErr := svc.DeletePost(context.Background(), "user-1", "ws-1", "post-1")

		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodePostPublished, sErr.Code)
		posts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deletes a draft", func(t *testing.T) {
		t.Parallel()

		posts := new(MockPostRepository)
		workspaces := new(MockWorkspaceRepository)

		workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "owner"}, nil)
		posts.On("Get", mock.Anything, "ws-1", "post-1").
			Return(&repository.Post{ID: "post-1", Status: model.PostStatusDraft}, nil)
		posts.On("Delete", mock.Anything, "ws-1", "post-1").Return(nil)

		svc := NewPostService(new(MockTransactor)).
			WithPostRepo(posts).
			WithWorkspaceRepo(workspaces)

		sErr := svc.DeletePost(context.Background(), "user-1", "ws-1", "post-1")

		require.Nil(t, sErr)
		posts.AssertExpectations(t)
	})
}
