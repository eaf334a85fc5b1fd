package api

import (
	"net/http"
	"strconv"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) IngestMetrics(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")

	sample := &model.MetricSample{}
	if err := h.decodeRequest(e, sample); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	stored, err := h.analytics.Ingest(e.Request().Context(), actorID(e), workspaceID, sample)
	if err != nil {
		l.Error("failed to ingest metrics",
			zap.String("workspace_id", workspaceID),
			zap.String("post_id", sample.PostID),
			zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, stored)
}

func (h *Handler) WorkspaceSummary(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")

	summary, err := h.analytics.WorkspaceSummary(e.Request().Context(), actorID(e), workspaceID)
	if err != nil {
		l.Error("failed to summarize workspace", zap.String("workspace_id", workspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, summary)
}

func (h *Handler) CampaignSummary(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	campaignID := e.Param("campaign_id")

	summary, err := h.analytics.CampaignSummary(e.Request().Context(), actorID(e), workspaceID, campaignID)
	if err != nil {
		l.Error("failed to summarize campaign", zap.String("campaign_id", campaignID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, summary)
}

func (h *Handler) TopPosts(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")

	limit, _ := strconv.Atoi(e.QueryParam("limit"))

	top, err := h.analytics.TopPosts(e.Request().Context(), actorID(e), workspaceID, limit)
	if err != nil {
		l.Error("failed to rank posts", zap.String("workspace_id", workspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, top)
}
