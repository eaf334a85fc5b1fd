package api

import (
	"net/http"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) CreateTemplate(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	tpl := &model.Template{}
	if err := h.decodeRequest(e, tpl); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}
	tpl.WorkspaceID = e.Param("workspace_id")

	l.Info("creating template",
		zap.String("workspace_id", tpl.WorkspaceID),
		zap.String("name", tpl.Name))

	created, err := h.template.CreateTemplate(e.Request().Context(), actorID(e), tpl)
	if err != nil {
		l.Error("failed to create template", zap.String("workspace_id", tpl.WorkspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) ListTemplates(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")

	templates, err := h.template.ListTemplates(e.Request().Context(), actorID(e), workspaceID)
	if err != nil {
		l.Error("failed to list templates", zap.String("workspace_id", workspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, templates)
}

func (h *Handler) GetTemplate(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	templateID := e.Param("template_id")

	tpl, err := h.template.GetTemplate(e.Request().Context(), actorID(e), workspaceID, templateID)
	if err != nil {
		l.Error("failed to get template", zap.String("template_id", templateID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, tpl)
}

func (h *Handler) UpdateTemplate(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	tpl := &model.Template{}
	if err := h.decodeRequest(e, tpl); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}
	tpl.WorkspaceID = e.Param("workspace_id")
	tpl.ID = e.Param("template_id")

	updated, err := h.template.UpdateTemplate(e.Request().Context(), actorID(e), tpl)
	if err != nil {
		l.Error("failed to update template", zap.String("template_id", tpl.ID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteTemplate(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	templateID := e.Param("template_id")

	if err := h.template.DeleteTemplate(e.Request().Context(), actorID(e), workspaceID, templateID); err != nil {
		l.Error("failed to delete template", zap.String("template_id", templateID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) MaterializeTemplate(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	templateID := e.Param("template_id")

	var req struct {
		Count int `json:"count" validate:"required,min=1,max=100"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("materializing template",
		zap.String("template_id", templateID),
		zap.Int("count", req.Count))

	posts, err := h.template.Materialize(e.Request().Context(), actorID(e), workspaceID, templateID, req.Count)
	if err != nil {
		l.Error("failed to materialize template", zap.String("template_id", templateID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, posts)
}
