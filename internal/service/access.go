package service

import (
	"context"
	"slices"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/pkg/errors"
)

// requireRole checks the actor's membership in the workspace against the
// allowed roles. Non-members get NOT_FOUND rather than FORBIDDEN so that
// workspace existence does not leak across tenants.
func requireRole(ctx context.Context, ws repository.WorkspaceRepository, workspaceID, userID string, roles ...model.MemberRole) *Error {
	member, err := ws.GetMember(ctx, workspaceID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return NewServiceError(ErrorCodeNotFound, "workspace not found")
	}
	if err != nil {
		return NewServiceError(ErrorCodeUnspecified, "failed to check membership")
	}

	if !slices.Contains(roles, model.MemberRole(member.Role)) {
		return NewServiceError(ErrorCodeForbidden, "insufficient workspace role")
	}

	return nil
}

var (
	rolesAll    = []model.MemberRole{model.MemberRoleOwner, model.MemberRoleAdmin, model.MemberRoleEditor, model.MemberRoleViewer}
	rolesEditor = []model.MemberRole{model.MemberRoleOwner, model.MemberRoleAdmin, model.MemberRoleEditor}
	rolesAdmin  = []model.MemberRole{model.MemberRoleOwner, model.MemberRoleAdmin}
)
