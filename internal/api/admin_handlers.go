package api

import (
	"net/http"

	"github.com/h-shvedko/sociallyhub-sub010/internal/service"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) ListUsers(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	users, err := h.admin.ListUsers(e.Request().Context())
	if err != nil {
		l.Error("failed to list users", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, users)
}

func (h *Handler) SetUserActive(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		UserID   string `json:"user_id" validate:"required"`
		IsActive bool   `json:"is_active"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("setting user active status",
		zap.String("user_id", req.UserID),
		zap.Bool("is_active", req.IsActive))

	user, err := h.admin.SetUserActive(e.Request().Context(), actorID(e), req.UserID, req.IsActive)
	if err != nil {
		l.Error("failed to set user active status", zap.String("user_id", req.UserID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, user)
}

func (h *Handler) SetUserAdmin(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		UserID  string `json:"user_id" validate:"required"`
		IsAdmin bool   `json:"is_admin"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("setting user admin flag",
		zap.String("user_id", req.UserID),
		zap.Bool("is_admin", req.IsAdmin))

	user, err := h.admin.SetUserAdmin(e.Request().Context(), actorID(e), req.UserID, req.IsAdmin)
	if err != nil {
		l.Error("failed to set user admin flag", zap.String("user_id", req.UserID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, user)
}

func (h *Handler) BulkOperate(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Items []service.BulkItem `json:"items" validate:"required,min=1,dive"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("running bulk operation", zap.Int("items", len(req.Items)))

	result, err := h.admin.BulkOperate(e.Request().Context(), actorID(e), req.Items)
	if err != nil {
		l.Error("bulk operation failed", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, result)
}
