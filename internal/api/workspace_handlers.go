package api

import (
	"net/http"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) CreateWorkspace(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	ws := &model.Workspace{}
	if err := h.decodeRequest(e, ws); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("creating workspace", zap.String("slug", ws.Slug))

	created, err := h.workspace.CreateWorkspace(e.Request().Context(), actorID(e), ws)
	if err != nil {
		l.Error("failed to create workspace", zap.String("slug", ws.Slug), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) ListWorkspaces(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaces, err := h.workspace.ListWorkspaces(e.Request().Context(), actorID(e))
	if err != nil {
		l.Error("failed to list workspaces", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, workspaces)
}

func (h *Handler) GetWorkspace(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	slug := e.Param("slug")

	ws, members, err := h.workspace.GetWorkspace(e.Request().Context(), actorID(e), slug)
	if err != nil {
		l.Error("failed to get workspace", zap.String("slug", slug), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, struct {
		Workspace *model.Workspace `json:"workspace"`
		Members   []*model.Member  `json:"members"`
	}{Workspace: ws, Members: members})
}

func (h *Handler) AddMember(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")

	var req struct {
		UserID string           `json:"user_id" validate:"required"`
		Role   model.MemberRole `json:"role" validate:"required,oneof=owner admin editor viewer"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("adding member",
		zap.String("workspace_id", workspaceID),
		zap.String("user_id", req.UserID),
		zap.String("role", string(req.Role)))

	if err := h.workspace.AddMember(e.Request().Context(), actorID(e), workspaceID, req.UserID, req.Role); err != nil {
		l.Error("failed to add member", zap.String("workspace_id", workspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusCreated)
}

func (h *Handler) RemoveMember(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	userID := e.Param("user_id")

	l.Info("removing member",
		zap.String("workspace_id", workspaceID),
		zap.String("user_id", userID))

	if err := h.workspace.RemoveMember(e.Request().Context(), actorID(e), workspaceID, userID); err != nil {
		l.Error("failed to remove member", zap.String("workspace_id", workspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) SetMemberRole(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	userID := e.Param("user_id")

	var req struct {
		Role model.MemberRole `json:"role" validate:"required,oneof=owner admin editor viewer"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := h.workspace.SetMemberRole(e.Request().Context(), actorID(e), workspaceID, userID, req.Role); err != nil {
		l.Error("failed to set member role", zap.String("workspace_id", workspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}
