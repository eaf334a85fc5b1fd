package api

import (
	"net/http"
	"time"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) CreateDraft(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")

	var req struct {
		Body       string   `json:"body" validate:"required"`
		Platforms  []string `json:"platforms" validate:"omitempty,dive,oneof=twitter facebook instagram linkedin"`
		CampaignID *string  `json:"campaign_id"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	draft := &model.Post{
		WorkspaceID: workspaceID,
		CampaignID:  req.CampaignID,
		Body:        req.Body,
		Platforms:   req.Platforms,
	}

	post, err := h.post.CreateDraft(e.Request().Context(), actorID(e), draft)
	if err != nil {
		l.Error("failed to create draft", zap.String("workspace_id", workspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, post)
}

func (h *Handler) ListPosts(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	status := model.PostStatus(e.QueryParam("status"))

	posts, err := h.post.ListPosts(e.Request().Context(), actorID(e), workspaceID, status)
	if err != nil {
		l.Error("failed to list posts", zap.String("workspace_id", workspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, posts)
}

func (h *Handler) GetPost(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	postID := e.Param("post_id")

	post, err := h.post.GetPost(e.Request().Context(), actorID(e), workspaceID, postID)
	if err != nil {
		l.Error("failed to get post", zap.String("post_id", postID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, post)
}

func (h *Handler) UpdatePostBody(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	postID := e.Param("post_id")

	var req struct {
		Body string `json:"body" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	post, err := h.post.UpdateBody(e.Request().Context(), actorID(e), workspaceID, postID, req.Body)
	if err != nil {
		l.Error("failed to update post body", zap.String("post_id", postID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, post)
}

func (h *Handler) SchedulePost(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	postID := e.Param("post_id")

	var req struct {
		ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("scheduling post",
		zap.String("post_id", postID),
		zap.Time("scheduled_at", req.ScheduledAt))

	post, err := h.post.SchedulePost(e.Request().Context(), actorID(e), workspaceID, postID, req.ScheduledAt)
	if err != nil {
		l.Error("failed to schedule post", zap.String("post_id", postID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, post)
}

func (h *Handler) PublishPost(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	postID := e.Param("post_id")

	l.Info("publishing post", zap.String("post_id", postID))

	post, err := h.post.PublishNow(e.Request().Context(), actorID(e), workspaceID, postID)
	if err != nil {
		l.Error("failed to publish post", zap.String("post_id", postID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, post)
}

func (h *Handler) CancelSchedule(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	postID := e.Param("post_id")

	post, err := h.post.CancelSchedule(e.Request().Context(), actorID(e), workspaceID, postID)
	if err != nil {
		l.Error("failed to cancel schedule", zap.String("post_id", postID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, post)
}

func (h *Handler) DeletePost(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	postID := e.Param("post_id")

	if err := h.post.DeletePost(e.Request().Context(), actorID(e), workspaceID, postID); err != nil {
		l.Error("failed to delete post", zap.String("post_id", postID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}
