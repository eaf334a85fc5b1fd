package service

import (
	"context"

	"github.com/h-shvedko/sociallyhub-sub010/internal/db"
	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type BulkAction string

const (
	BulkActionActivate   BulkAction = "activate"
	BulkActionDeactivate BulkAction = "deactivate"
	BulkActionPromote    BulkAction = "promote"
	BulkActionDemote     BulkAction = "demote"
)

type BulkItem struct {
	UserID string     `json:"user_id" validate:"required"`
	Action BulkAction `json:"action" validate:"required,oneof=activate deactivate promote demote"`
}

type BulkItemResult struct {
	UserID string `json:"user_id"`
	OK     bool   `json:"ok"`
	Error  *Error `json:"error,omitempty"`
}

type BulkResult struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Items     []*BulkItemResult `json:"items"`
}

type AdminService struct {
	tx db.Transactor

	users repository.UserRepository
}

func NewAdminService(tx db.Transactor) *AdminService {
	return &AdminService{tx: tx}
}

func userToModel(u *repository.User) *model.User {
	return &model.User{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		IsActive: u.IsActive,
		IsAdmin:  u.IsAdmin,
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*model.User, *Error) {
	repoUsers, err := s.users.List(ctx)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list users")
	}

	out := make([]*model.User, 0, len(repoUsers))
	for _, u := range repoUsers {
		out = append(out, userToModel(u))
	}
	return out, nil
}

// SetUserActive flips the active flag. Admins cannot deactivate themselves.
func (s *AdminService) SetUserActive(ctx context.Context, actorID, userID string, isActive bool) (*model.User, *Error) {
	if actorID == userID && !isActive {
		return nil, NewServiceError(ErrorCodeSelfForbidden, "cannot deactivate yourself")
	}

	user, err := s.users.Patch(ctx, &repository.UserPatch{
		ID:       userID,
		IsActive: &isActive,
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "user not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to update user")
	}

	return userToModel(user), nil
}

// SetUserAdmin flips the admin flag. Admins cannot demote themselves.
func (s *AdminService) SetUserAdmin(ctx context.Context, actorID, userID string, isAdmin bool) (*model.User, *Error) {
	if actorID == userID && !isAdmin {
		return nil, NewServiceError(ErrorCodeSelfForbidden, "cannot demote yourself")
	}

	user, err := s.users.Patch(ctx, &repository.UserPatch{
		ID:      userID,
		IsAdmin: &isAdmin,
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "user not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to update user")
	}

	return userToModel(user), nil
}

// BulkOperate runs each item in its own transaction; one failing item never
// aborts the batch.
func (s *AdminService) BulkOperate(ctx context.Context, actorID string, items []BulkItem) (*BulkResult, *Error) {
	l := logger.FromContext(ctx)

	if len(items) == 0 {
		return nil, NewServiceError(ErrorCodeInvalidBody, "no items")
	}

	result := &BulkResult{Items: make([]*BulkItemResult, 0, len(items))}

	for _, item := range items {
		itemErr := s.applyBulkItem(ctx, actorID, item)

		ir := &BulkItemResult{UserID: item.UserID, OK: itemErr == nil, Error: itemErr}
		if itemErr == nil {
			result.Succeeded++
		} else {
			result.Failed++
			l.Warn("bulk item failed",
				zap.String("user_id", item.UserID),
				zap.String("action", string(item.Action)),
				zap.String("code", string(itemErr.Code)))
		}
		result.Items = append(result.Items, ir)
	}

	l.Info("bulk operation finished",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))

	return result, nil
}

func (s *AdminService) applyBulkItem(ctx context.Context, actorID string, item BulkItem) *Error {
	var flag bool
	patch := &repository.UserPatch{ID: item.UserID}

	switch item.Action {
	case BulkActionActivate:
		flag = true
		patch.IsActive = &flag
	case BulkActionDeactivate:
		if item.UserID == actorID {
			return NewServiceError(ErrorCodeSelfForbidden, "cannot deactivate yourself")
		}
		patch.IsActive = &flag
	case BulkActionPromote:
		flag = true
		patch.IsAdmin = &flag
	case BulkActionDemote:
		if item.UserID == actorID {
			return NewServiceError(ErrorCodeSelfForbidden, "cannot demote yourself")
		}
		patch.IsAdmin = &flag
	default:
		return NewServiceError(ErrorCodeInvalidBody, "unknown action")
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, err := s.users.Patch(txCtx, patch)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "user not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to update user")
		}
		return nil
	})

	return txError(err)
}

func (s *AdminService) WithUserRepo(r repository.UserRepository) *AdminService {
	s.users = r
	return s
}
