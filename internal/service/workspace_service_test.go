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

func TestWorkspaceService_CreateWorkspace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setupMocks func(workspaces *MockWorkspaceRepository)
		wantCode   ErrorCode
	}{
		{
			name: "creates workspace with creator as owner",
			setupMocks: func(workspaces *MockWorkspaceRepository) {
				workspaces.On("Create", mock.Anything, mock.MatchedBy(func(ws *repository.Workspace) bool {
					return ws.Slug == "acme" && ws.Plan == "pro"
				})).Return(nil)
				workspaces.On("AddMember", mock.Anything, mock.Anything, "user-1", "owner").Return(nil)
			},
		},
		{
			name: "duplicate slug",
			setupMocks: func(workspaces *MockWorkspaceRepository) {
				workspaces.On("Create", mock.Anything, mock.Anything).Return(repository.ErrAlreadyExists)
			},
			wantCode: ErrorCodeSlugExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			workspaces := new(MockWorkspaceRepository)
			tt.setupMocks(workspaces)

			svc := NewWorkspaceService(new(MockTransactor)).WithWorkspaceRepo(workspaces)

			got, sErr := svc.CreateWorkspace(context.Background(), "user-1", &model.Workspace{
				Name: "Acme",
				Slug: "acme",
				Plan: model.WorkspacePlanPro,
			})

			if tt.wantCode != "" {
				require.NotNil(t, sErr)
				assert.Equal(t, tt.wantCode, sErr.Code)
				return
			}

			require.Nil(t, sErr)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "acme", got.Slug)
			workspaces.AssertExpectations(t)
		})
	}
}

func TestWorkspaceService_CreateWorkspaceCommitFailure(t *testing.T) {
	t.Parallel()

	workspaces := new(MockWorkspaceRepository)
	workspaces.On("Create", mock.Anything, mock.Anything).Return(nil)
	workspaces.On("AddMember", mock.Anything, mock.Anything, "user-1", "owner").Return(nil)

	svc := NewWorkspaceService(FailingTransactor{}).WithWorkspaceRepo(workspaces)

	got, sErr := svc.CreateWorkspace(context.Background(), "user-1", &model.Workspace{
		Name: "Acme",
		Slug: "acme",
		Plan: model.WorkspacePlanPro,
	})

	require.NotNil(t, sErr)
	assert.Equal(t, ErrorCodeUnspecified, sErr.Code)
	assert.Nil(t, got)
}

func TestWorkspaceService_RemoveMember(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setupMocks func(workspaces *MockWorkspaceRepository)
		wantCode   ErrorCode
	}{
		{
			name: "removes an editor",
			setupMocks: func(workspaces *MockWorkspaceRepository) {
				workspaces.On("GetMember", mock.Anything, "ws-1", "actor-1").
					Return(&repository.Member{WorkspaceID: "ws-1", UserID: "actor-1", Role: "owner"}, nil)
				workspaces.On("GetMember", mock.Anything, "ws-1", "user-2").
					Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-2", Role: "editor"}, nil)
				workspaces.On("RemoveMember", mock.Anything, "ws-1", "user-2").Return(nil)
			},
		},
		{
			name: "refuses to remove the last owner",
			setupMocks: func(workspaces *MockWorkspaceRepository) {
				workspaces.On("GetMember", mock.Anything, "ws-1", "actor-1").
					Return(&repository.Member{WorkspaceID: "ws-1", UserID: "actor-1", Role: "owner"}, nil)
				workspaces.On("GetMember", mock.Anything, "ws-1", "user-2").
					Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-2", Role: "owner"}, nil)
				workspaces.On("CountOwners", mock.Anything, "ws-1").Return(1, nil)
			},
			wantCode: ErrorCodeLastOwner,
		},
		{
			name: "removes an owner when another remains",
			setupMocks: func(workspaces *MockWorkspaceRepository) {
				workspaces.On("GetMember", mock.Anything, "ws-1", "actor-1").
					Return(&repository.Member{WorkspaceID: "ws-1", UserID: "actor-1", Role: "owner"}, nil)
				workspaces.On("GetMember", mock.Anything, "ws-1", "user-2").
					Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-2", Role: "owner"}, nil)
				workspaces.On("CountOwners", mock.Anything, "ws-1").Return(2, nil)
				workspaces.On("RemoveMember", mock.Anything, "ws-1", "user-2").Return(nil)
			},
		},
		{
			name: "editors cannot remove members",
			setupMocks: func(workspaces *MockWorkspaceRepository) {
				workspaces.On("GetMember", mock.Anything, "ws-1", "actor-1").
					Return(&repository.Member{WorkspaceID: "ws-1", UserID: "actor-1", Role: "editor"}, nil)
			},
			wantCode: ErrorCodeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			workspaces := new(MockWorkspaceRepository)
			tt.setupMocks(workspaces)

			svc := NewWorkspaceService(new(MockTransactor)).WithWorkspaceRepo(workspaces)

			sErr := svc.RemoveMember(context.Background(), "actor-1", "ws-1", "user-2")

			if tt.wantCode != "" {
				require.NotNil(t, sErr)
				assert.Equal(t, tt.wantCode, sErr.Code)
				return
			}

			require.Nil(t, sErr)
			workspaces.AssertExpectations(t)
		})
	}
}

func TestWorkspaceService_SetMemberRole(t *testing.T) {
	t.Parallel()

	t.Run("refuses to demote the last owner", func(t *testing.T) {
		t.Parallel()

		workspaces := new(MockWorkspaceRepository)
		workspaces.On("GetMember", mock.Anything, "ws-1", "actor-1").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "actor-1", Role: "owner"}, nil)
		workspaces.On("CountOwners", mock.Anything, "ws-1").Return(1, nil)

		svc := NewWorkspaceService(new(MockTransactor)).WithWorkspaceRepo(workspaces)

		sErr := svc.SetMemberRole(context.Background(), "actor-1", "ws-1", "actor-1", model.MemberRoleEditor)

		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodeLastOwner, sErr.Code)
	})

	t.Run("promotes an editor to admin", func(t *testing.T) {
		t.Parallel()

		workspaces := new(MockWorkspaceRepository)
		workspaces.On("GetMember", mock.Anything, "ws-1", "actor-1").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "actor-1", Role: "owner"}, nil)
		workspaces.On("GetMember", mock.Anything, "ws-1", "user-2").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-2", Role: "editor"}, nil)
		workspaces.On("SetMemberRole", mock.Anything, "ws-1", "user-2", "admin").Return(nil)

		svc := NewWorkspaceService(new(MockTransactor)).WithWorkspaceRepo(workspaces)

		sErr := svc.SetMemberRole(context.Background(), "actor-1", "ws-1", "user-2", model.MemberRoleAdmin)

		require.Nil(t, sErr)
		workspaces.AssertExpectations(t)
	})
}

func TestWorkspaceService_AddMember(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setupMocks func(workspaces *MockWorkspaceRepository, users *MockUserRepository)
		wantCode   ErrorCode
	}{
		{
			name: "adds an active user",
			setupMocks: func(workspaces *MockWorkspaceRepository, users *MockUserRepository) {
				users.On("Get", mock.Anything, "user-2").
					Return(&repository.User{ID: "user-2", IsActive: true}, nil)
				workspaces.On("AddMember", mock.Anything, "ws-1", "user-2", "viewer").Return(nil)
			},
		},
		{
			name: "already a member",
			setupMocks: func(workspaces *MockWorkspaceRepository, users *MockUserRepository) {
				users.On("Get", mock.Anything, "user-2").
					Return(&repository.User{ID: "user-2", IsActive: true}, nil)
				workspaces.On("AddMember", mock.Anything, "ws-1", "user-2", "viewer").
					Return(repository.ErrAlreadyExists)
			},
			wantCode: ErrorCodeMemberExists,
		},
		{
			name: "unknown user",
			setupMocks: func(workspaces *MockWorkspaceRepository, users *MockUserRepository) {
				users.On("Get", mock.Anything, "user-2").Return(nil, repository.ErrNotFound)
			},
			wantCode: ErrorCodeNotFound,
		},
		{
			name: "deactivated user cannot be added",
			setupMocks: func(workspaces *MockWorkspaceRepository, users *MockUserRepository) {
				users.On("Get", mock.Anything, "user-2").
					Return(&repository.User{ID: "user-2", IsActive: false}, nil)
			},
			wantCode: ErrorCodeUserInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			workspaces := new(MockWorkspaceRepository)
			users := new(MockUserRepository)
			workspaces.On("GetMember", mock.Anything, "ws-1", "actor-1").
				Return(&repository.Member{WorkspaceID: "ws-1", UserID: "actor-1", Role: "admin"}, nil)
			tt.setupMocks(workspaces, users)

			svc := NewWorkspaceService(new(MockTransactor)).
				WithWorkspaceRepo(workspaces).
				WithUserRepo(users)

			sErr := svc.AddMember(context.Background(), "actor-1", "ws-1", "user-2", model.MemberRoleViewer)

			if tt.wantCode != "" {
				require.NotNil(t, sErr)
				assert.Equal(t, tt.wantCode, sErr.Code)
				return
			}

			require.Nil(t, sErr)
			workspaces.AssertExpectations(t)
		})
	}
}
