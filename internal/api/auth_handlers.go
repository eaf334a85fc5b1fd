package api

import (
	"net/http"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) Register(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Name     string `json:"name" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("registering user", zap.String("email", req.Email))

	user, err := h.auth.Register(e.Request().Context(), req.Email, req.Name, req.Password)
	if err != nil {
		l.Error("failed to register user", zap.String("email", req.Email), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	token, user, err := h.auth.Login(e.Request().Context(), req.Email, req.Password)
	if err != nil {
		l.Warn("login failed", zap.String("email", req.Email), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}{Token: token, User: user})
}
