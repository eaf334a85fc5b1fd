package service

import (
	"context"
	"testing"

	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminService_SetUserActive(t *testing.T) {
	t.Parallel()

	t.Run("deactivates another user", func(t *testing.T) {
		t.Parallel()

		users := new(MockUserRepository)
		users.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.UserPatch) bool {
			return p.ID == "user-2" && p.IsActive != nil && !*p.IsActive
		})).Return(&repository.User{ID: "user-2", IsActive: false}, nil)

		svc := NewAdminService(new(MockTransactor)).WithUserRepo(users)

		got, sErr := svc.SetUserActive(context.Background(), "admin-1", "user-2", false)

		require.Nil(t, sErr)
		assert.False(t, got.IsActive)
	})

	t.Run("admins cannot deactivate themselves", func(t *testing.T) {
		t.Parallel()

		users := new(MockUserRepository)
		svc := NewAdminService(new(MockTransactor)).WithUserRepo(users)

		_, sErr := svc.SetUserActive(context.Background(), "admin-1", "admin-1", false)

		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodeSelfForbidden, sErr.Code)
		users.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything)
	})

	t.Run("reactivating yourself is allowed", func(t *testing.T) {
		t.Parallel()

		users := new(MockUserRepository)
		users.On("Patch", mock.Anything, mock.Anything).
			Return(&repository.User{ID: "admin-1", IsActive: true}, nil)

		svc := NewAdminService(new(MockTransactor)).WithUserRepo(users)

		got, sErr := svc.SetUserActive(context.Background(), "admin-1", "admin-1", true)

		require.Nil(t, sErr)
		assert.True(t, got.IsActive)
	})
}

func TestAdminService_SetUserAdmin(t *testing.T) {
	t.Parallel()

	t.Run("admins cannot demote themselves", func(t *testing.T) {
		t.Parallel()

		svc := NewAdminService(new(MockTransactor)).WithUserRepo(new(MockUserRepository))

		_, sErr := svc.SetUserAdmin(context.Background(), "admin-1", "admin-1", false)

		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodeSelfForbidden, sErr.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		users := new(MockUserRepository)
		users.On("Patch", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)

		svc := NewAdminService(new(MockTransactor)).WithUserRepo(users)

		_, sErr := svc.SetUserAdmin(context.Background(), "admin-1", "ghost", true)

		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodeNotFound, sErr.Code)
	})
}

func TestAdminService_BulkOperate(t *testing.T) {
	t.Parallel()

	t.Run("one failing item never aborts the batch", func(t *testing.T) {
		t.Parallel()

		users := new(MockUserRepository)
		users.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.UserPatch) bool {
			return p.ID == "user-1"
		})).Return(&repository.User{ID: "user-1", IsActive: true}, nil)
		users.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.UserPatch) bool {
			return p.ID == "ghost"
		})).Return(nil, repository.ErrNotFound)
		users.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.UserPatch) bool {
			return p.ID == "user-3"
		})).Return(&repository.User{ID: "user-3", IsAdmin: true}, nil)

		svc := NewAdminService(new(MockTransactor)).WithUserRepo(users)

		got, sErr := svc.BulkOperate(context.Background(), "admin-1", []BulkItem{
			{UserID: "user-1", Action: BulkActionActivate},
			{UserID: "ghost", Action: BulkActionDeactivate},
			{UserID: "user-3", Action: BulkActionPromote},
		})

		require.Nil(t, sErr)
		assert.Equal(t, 2, got.Succeeded)
		assert.Equal(t, 1, got.Failed)
		require.Len(t, got.Items, 3)
		assert.True(t, got.Items[0].OK)
		assert.False(t, got.Items[1].OK)
		assert.Equal(t, ErrorCodeNotFound, got.Items[1].Error.Code)
		assert.True(t, got.Items[2].OK)
	})

	t.Run("self-deactivation fails only that item", func(t *testing.T) {
		t.Parallel()

		users := new(MockUserRepository)
		users.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.UserPatch) bool {
			return p.ID == "user-2"
		})).Return(&repository.User{ID: "user-2"}, nil)

		svc := NewAdminService(new(MockTransactor)).WithUserRepo(users)

		got, sErr := svc.BulkOperate(context.Background(), "admin-1", []BulkItem{
			{UserID: "admin-1", Action: BulkActionDeactivate},
			{UserID: "user-2", Action: BulkActionDeactivate},
		})

		require.Nil(t, sErr)
		assert.Equal(t, 1, got.Succeeded)
		assert.Equal(t, 1, got.Failed)
		assert.Equal(t, ErrorCodeSelfForbidden, got.Items[0].Error.Code)
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()

		svc := NewAdminService(new(MockTransactor)).WithUserRepo(new(MockUserRepository))

		_, sErr := svc.BulkOperate(context.Background(), "admin-1", nil)

		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodeInvalidBody, sErr.Code)
	})

	t.Run("unknown action", func(t *testing.T) {
		t.Parallel()

		svc := NewAdminService(new(MockTransactor)).WithUserRepo(new(MockUserRepository))

		got, sErr := svc.BulkOperate(context.Background(), "admin-1", []BulkItem{
			{UserID: "user-1", Action: "explode"},
		})

		require.Nil(t, sErr)
		assert.Equal(t, 1, got.Failed)
		assert.Equal(t, ErrorCodeInvalidBody, got.Items[0].Error.Code)
	})
}
