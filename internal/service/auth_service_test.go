package service

import (
	"context"
	"testing"
	"time"

	"github.com/h-shvedko/sociallyhub-sub010/internal/auth"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("correct horse battery")
	require.NoError(t, err)

	tests := []struct {
		name       string
		password   string
		setupMocks func(users *MockUserRepository)
		wantCode   ErrorCode
		wantRole   auth.TokenRole
	}{
		{
			name:     "member logs in",
			password: "correct horse battery",
			setupMocks: func(users *MockUserRepository) {
				users.On("GetByEmail", mock.Anything, "pat@acme.test").
					Return(&repository.User{ID: "user-1", Email: "pat@acme.test", PasswordHash: hash, IsActive: true}, nil)
			},
			wantRole: auth.TokenRoleMember,
		},
		{
			name:     "admin gets the admin role",
			password: "correct horse battery",
			setupMocks: func(users *MockUserRepository) {
				users.On("GetByEmail", mock.Anything, "pat@acme.test").
					Return(&repository.User{ID: "user-1", Email: "pat@acme.test", PasswordHash: hash, IsActive: true, IsAdmin: true}, nil)
			},
			wantRole: auth.TokenRoleAdmin,
		},
		{
			name:     "deactivated user cannot log in",
			password: "correct horse battery",
			setupMocks: func(users *MockUserRepository) {
				users.On("GetByEmail", mock.Anything, "pat@acme.test").
					Return(&repository.User{ID: "user-1", Email: "pat@acme.test", PasswordHash: hash, IsActive: false}, nil)
			},
			wantCode: ErrorCodeUserInactive,
		},
		{
			name:     "wrong password",
			password: "not it",
			setupMocks: func(users *MockUserRepository) {
				users.On("GetByEmail", mock.Anything, "pat@acme.test").
					Return(&repository.User{ID: "user-1", Email: "pat@acme.test", PasswordHash: hash, IsActive: true}, nil)
			},
			wantCode: ErrorCodeUnauthorized,
		},
		{
			name:     "unknown email",
			password: "correct horse battery",
			setupMocks: func(users *MockUserRepository) {
				users.On("GetByEmail", mock.Anything, "pat@acme.test").
					Return(nil, repository.ErrNotFound)
			},
			wantCode: ErrorCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			users := new(MockUserRepository)
			tt.setupMocks(users)

			tokens := auth.NewTokenManager("test-secret", time.Hour)
			svc := NewAuthService(tokens).WithUserRepo(users)

			token, user, sErr := svc.Login(context.Background(), "pat@acme.test", tt.password)

			if tt.wantCode != "" {
				require.NotNil(t, sErr)
				assert.Equal(t, tt.wantCode, sErr.Code)
				assert.Empty(t, token)
				return
			}

			require.Nil(t, sErr)
			require.NotNil(t, user)

			claims, err := tokens.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, tt.wantRole, claims.Role)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	t.Run("registers an active user", func(t *testing.T) {
		t.Parallel()

		users := new(MockUserRepository)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *repository.User) bool {
			return u.Email == "pat@acme.test" && u.IsActive && !u.IsAdmin && u.PasswordHash != ""
		})).Return(nil)

		svc := NewAuthService(auth.NewTokenManager("test-secret", time.Hour)).WithUserRepo(users)

		user, sErr := svc.Register(context.Background(), "pat@acme.test", "Pat", "correct horse battery")

		require.Nil(t, sErr)
		assert.True(t, user.IsActive)
		users.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		users := new(MockUserRepository)
		users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrAlreadyExists)

		svc := NewAuthService(auth.NewTokenManager("test-secret", time.Hour)).WithUserRepo(users)

		_, sErr := svc.Register(context.Background(), "pat@acme.test", "Pat", "correct horse battery")

		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodeEmailExists, sErr.Code)
	})
}
