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

type WorkspaceService struct {
	tx db.Transactor

	workspaces repository.WorkspaceRepository
	users      repository.UserRepository
}

func NewWorkspaceService(tx db.Transactor) *WorkspaceService {
	return &WorkspaceService{tx: tx}
}

// CreateWorkspace creates the workspace and makes the creator its owner.
func (w *WorkspaceService) CreateWorkspace(ctx context.Context, creatorID string, ws *model.Workspace) (*model.Workspace, *Error) {
	l := logger.FromContext(ctx)
	l.Info("creating workspace", zap.String("slug", ws.Slug), zap.String("creator_id", creatorID))

	repoWS := &repository.Workspace{
		ID:   uuid.NewString(),
		Name: ws.Name,
		Slug: ws.Slug,
		Plan: string(ws.Plan),
	}

	err := w.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		err := w.workspaces.Create(txCtx, repoWS)
		if errors.Is(err, repository.ErrAlreadyExists) {
			l.Warn("workspace slug taken", zap.String("slug", ws.Slug))
			return NewServiceError(ErrorCodeSlugExists, "workspace slug already exists")
		}
		if err != nil {
			l.Error("failed to create workspace", zap.String("slug", ws.Slug), zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to create workspace")
		}

		if err = w.workspaces.AddMember(txCtx, repoWS.ID, creatorID, string(model.MemberRoleOwner)); err != nil {
			l.Error("failed to add owner", zap.String("workspace_id", repoWS.ID), zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to add workspace owner")
		}

		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}

	return &model.Workspace{
		ID:        repoWS.ID,
		Name:      repoWS.Name,
		Slug:      repoWS.Slug,
		Plan:      model.WorkspacePlan(repoWS.Plan),
		CreatedAt: repoWS.CreatedAt,
	}, nil
}

func (w *WorkspaceService) GetWorkspace(ctx context.Context, userID, slug string) (*model.Workspace, []*model.Member, *Error) {
	ws, err := w.workspaces.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, NewServiceError(ErrorCodeNotFound, "workspace not found")
	}
	if err != nil {
		return nil, nil, NewServiceError(ErrorCodeUnspecified, "failed to get workspace")
	}

	if sErr := requireRole(ctx, w.workspaces, ws.ID, userID, rolesAll...); sErr != nil {
		return nil, nil, sErr
	}

	repoMembers, err := w.workspaces.GetMembers(ctx, ws.ID)
	if err != nil {
		return nil, nil, NewServiceError(ErrorCodeUnspecified, "failed to get members")
	}

	members := make([]*model.Member, 0, len(repoMembers))
	for _, m := range repoMembers {
		members = append(members, &model.Member{
			UserID: m.UserID,
			Name:   m.Name,
			Email:  m.Email,
			Role:   model.MemberRole(m.Role),
		})
	}

	return &model.Workspace{
		ID:        ws.ID,
		Name:      ws.Name,
		Slug:      ws.Slug,
		Plan:      model.WorkspacePlan(ws.Plan),
		CreatedAt: ws.CreatedAt,
	}, members, nil
}

func (w *WorkspaceService) ListWorkspaces(ctx context.Context, userID string) ([]*model.Workspace, *Error) {
	repoWS, err := w.workspaces.ListForUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list workspaces")
	}

	out := make([]*model.Workspace, 0, len(repoWS))
	for _, ws := range repoWS {
		out = append(out, &model.Workspace{
			ID:        ws.ID,
			Name:      ws.Name,
			Slug:      ws.Slug,
			Plan:      model.WorkspacePlan(ws.Plan),
			CreatedAt: ws.CreatedAt,
		})
	}
	return out, nil
}

func (w *WorkspaceService) AddMember(ctx context.Context, actorID, workspaceID, userID string, role model.MemberRole) *Error {
	l := logger.FromContext(ctx)
	l.Info("adding member",
		zap.String("workspace_id", workspaceID),
		zap.String("user_id", userID),
		zap.String("role", string(role)))

	err := w.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, w.workspaces, workspaceID, actorID, rolesAdmin...); sErr != nil {
			return sErr
		}

		user, err := w.users.Get(txCtx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return NewServiceError(ErrorCodeNotFound, "user not found")
		}
		if err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to get user")
		}
		if !user.IsActive {
			return NewServiceError(ErrorCodeUserInactive, "user is deactivated")
		}

		err = w.workspaces.AddMember(txCtx, workspaceID, userID, string(role))
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return NewServiceError(ErrorCodeMemberExists, "user is already a member")
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "user not found")
		case err != nil:
			l.Error("failed to add member", zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to add member")
		}
		return nil
	})

	return txError(err)
}

// RemoveMember refuses to remove the last owner.
func (w *WorkspaceService) RemoveMember(ctx context.Context, actorID, workspaceID, userID string) *Error {
	l := logger.FromContext(ctx)

	err := w.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, w.workspaces, workspaceID, actorID, rolesAdmin...); sErr != nil {
			return sErr
		}

		member, err := w.workspaces.GetMember(txCtx, workspaceID, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return NewServiceError(ErrorCodeNotFound, "member not found")
		}
		if err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to get member")
		}

		if model.MemberRole(member.Role) == model.MemberRoleOwner {
			owners, err := w.workspaces.CountOwners(txCtx, workspaceID)
			if err != nil {
				return NewServiceError(ErrorCodeUnspecified, "failed to count owners")
			}
			if owners <= 1 {
				l.Warn("refusing to remove last owner", zap.String("workspace_id", workspaceID))
				return NewServiceError(ErrorCodeLastOwner, "cannot remove the last owner")
			}
		}

		if err = w.workspaces.RemoveMember(txCtx, workspaceID, userID); err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to remove member")
		}
		return nil
	})

	return txError(err)
}

// SetMemberRole refuses to demote the last owner.
func (w *WorkspaceService) SetMemberRole(ctx context.Context, actorID, workspaceID, userID string, role model.MemberRole) *Error {
	err := w.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, w.workspaces, workspaceID, actorID, rolesAdmin...); sErr != nil {
			return sErr
		}

		member, err := w.workspaces.GetMember(txCtx, workspaceID, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return NewServiceError(ErrorCodeNotFound, "member not found")
		}
		if err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to get member")
		}

		if model.MemberRole(member.Role) == model.MemberRoleOwner && role != model.MemberRoleOwner {
			owners, err := w.workspaces.CountOwners(txCtx, workspaceID)
			if err != nil {
				return NewServiceError(ErrorCodeUnspecified, "failed to count owners")
			}
			if owners <= 1 {
				return NewServiceError(ErrorCodeLastOwner, "cannot demote the last owner")
			}
		}

		if err = w.workspaces.SetMemberRole(txCtx, workspaceID, userID, string(role)); err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to set member role")
		}
		return nil
	})

	return txError(err)
}

func (w *WorkspaceService) WithWorkspaceRepo(r repository.WorkspaceRepository) *WorkspaceService {
	w.workspaces = r
	return w
}

func (w *WorkspaceService) WithUserRepo(r repository.UserRepository) *WorkspaceService {
	w.users = r
	return w
}
