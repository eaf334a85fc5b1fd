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

func TestTemplateService_CreateTemplate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tpl      *model.Template
		wantCode ErrorCode
	}{
		{
			name: "weekly template",
			tpl: &model.Template{
				WorkspaceID: "ws-1",
				Name:        "weekly digest",
				Body:        "this week at acme",
				Platforms:   []string{"linkedin"},
				Frequency:   model.FrequencyWeekly,
				Interval:    1,
				Weekdays:    []time.Weekday{time.Monday},
				AtHour:      9,
			},
		},
		{
			name: "weekly without weekdays is invalid",
			tpl: &model.Template{
				WorkspaceID: "ws-1",
				Name:        "broken",
				Frequency:   model.FrequencyWeekly,
				Interval:    1,
				AtHour:      9,
			},
			wantCode: ErrorCodeInvalidBody,
		},
		{
			name: "zero interval is invalid",
			tpl: &model.Template{
				WorkspaceID: "ws-1",
				Name:        "broken",
				Frequency:   model.FrequencyDaily,
				Interval:    0,
			},
			wantCode: ErrorCodeInvalidBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			templates := new(MockTemplateRepository)
			workspaces := new(MockWorkspaceRepository)

			workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
				Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "editor"}, nil)
			templates.On("Create", mock.Anything, mock.MatchedBy(func(tpl *repository.Template) bool {
				return tpl.ID != "" && tpl.Active
			})).Return(nil)

			svc := NewTemplateService(new(MockTransactor)).
				WithTemplateRepo(templates).
				WithWorkspaceRepo(workspaces).
				WithNow(func() time.Time { return now })

			got, sErr := svc.CreateTemplate(context.Background(), "user-1", tt.tpl)

			if tt.wantCode != "" {
				require.NotNil(t, sErr)
				assert.Equal(t, tt.wantCode, sErr.Code)
				templates.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			require.Nil(t, sErr)
			assert.True(t, got.Active)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestTemplateService_Materialize(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	dailyTemplate := &repository.Template{
		ID:          "tpl-1",
		WorkspaceID: "ws-1",
		Name:        "daily tip",
		Body:        "tip of the day",
		Platforms:   []string{"twitter"},
		Frequency:   model.FrequencyDaily,
		Interval:    1,
		AtHour:      9,
		Active:      true,
	}

	t.Run("creates one scheduled post per occurrence", func(t *testing.T) {
		t.Parallel()

		templates := new(MockTemplateRepository)
		posts := new(MockPostRepository)
		workspaces := new(MockWorkspaceRepository)

		workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "editor"}, nil)
		templates.On("Get", mock.Anything, "ws-1", "tpl-1").Return(dailyTemplate, nil)
		posts.On("Create", mock.Anything, mock.MatchedBy(func(p *repository.Post) bool {
			return p.Status == model.PostStatusScheduled &&
				p.Body == "tip of the day" &&
				p.ScheduledAt != nil && p.ScheduledAt.After(now)
		})).Return(nil)

		svc := NewTemplateService(new(MockTransactor)).
			WithTemplateRepo(templates).
			WithPostRepo(posts).
			WithWorkspaceRepo(workspaces).
			WithNow(func() time.Time { return now })

		got, sErr := svc.Materialize(context.Background(), "user-1", "ws-1", "tpl-1", 3)

		require.Nil(t, sErr)
		require.Len(t, got, 3)
		for i := 1; i < len(got); i++ {
			assert.True(t, got[i].ScheduledAt.After(*got[i-1].ScheduledAt))
		}
		posts.AssertNumberOfCalls(t, "Create", 3)
	})

	t.Run("inactive templates do not materialize", func(t *testing.T) {
		t.Parallel()

		inactive := *dailyTemplate
		inactive.Active = false

		templates := new(MockTemplateRepository)
		posts := new(MockPostRepository)
		workspaces := new(MockWorkspaceRepository)

		workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "editor"}, nil)
		templates.On("Get", mock.Anything, "ws-1", "tpl-1").Return(&inactive, nil)

		svc := NewTemplateService(new(MockTransactor)).
			WithTemplateRepo(templates).
			WithPostRepo(posts).
			WithWorkspaceRepo(workspaces).
			WithNow(func() time.Time { return now })

		_, sErr := svc.Materialize(context.Background(), "user-1", "ws-1", "tpl-1", 3)

		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodeTemplateInactive, sErr.Code)
		posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("count outside 1..100 is rejected", func(t *testing.T) {
		t.Parallel()

		svc := NewTemplateService(new(MockTransactor))

		_, sErr := svc.Materialize(context.Background(), "user-1", "ws-1", "tpl-1", 0)
		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodeInvalidBody, sErr.Code)

		_, sErr = svc.Materialize(context.Background(), "user-1", "ws-1", "tpl-1", 101)
		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodeInvalidBody, sErr.Code)
	})
}
