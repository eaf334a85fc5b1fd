package api

import (
	"net/http"
	"strconv"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/service"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) CreateExperiment(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	exp := &model.Experiment{}
	if err := h.decodeRequest(e, exp); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}
	exp.WorkspaceID = e.Param("workspace_id")

	l.Info("creating experiment",
		zap.String("workspace_id", exp.WorkspaceID),
		zap.String("name", exp.Name),
		zap.Int("variants", len(exp.Variants)))

	created, err := h.abtest.CreateExperiment(e.Request().Context(), actorID(e), exp)
	if err != nil {
		l.Error("failed to create experiment", zap.String("workspace_id", exp.WorkspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) ListExperiments(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")

	experiments, err := h.abtest.ListExperiments(e.Request().Context(), actorID(e), workspaceID)
	if err != nil {
		l.Error("failed to list experiments", zap.String("workspace_id", workspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, experiments)
}

func (h *Handler) GetExperiment(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	experimentID := e.Param("experiment_id")

	exp, err := h.abtest.GetExperiment(e.Request().Context(), actorID(e), workspaceID, experimentID)
	if err != nil {
		l.Error("failed to get experiment", zap.String("experiment_id", experimentID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, exp)
}

func (h *Handler) StartExperiment(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	experimentID := e.Param("experiment_id")

	l.Info("starting experiment", zap.String("experiment_id", experimentID))

	exp, err := h.abtest.StartExperiment(e.Request().Context(), actorID(e), workspaceID, experimentID)
	if err != nil {
		l.Error("failed to start experiment", zap.String("experiment_id", experimentID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, exp)
}

func (h *Handler) RecordExperimentResult(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	experimentID := e.Param("experiment_id")

	var req struct {
		VariantID   string `json:"variant_id" validate:"required"`
		Impressions int64  `json:"impressions" validate:"min=0"`
		Conversions int64  `json:"conversions" validate:"min=0"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	variant, err := h.abtest.RecordResult(e.Request().Context(), actorID(e), workspaceID, experimentID,
		req.VariantID, req.Impressions, req.Conversions)
	if err != nil {
		l.Error("failed to record result",
			zap.String("experiment_id", experimentID),
			zap.String("variant_id", req.VariantID),
			zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, variant)
}

func (h *Handler) CompleteExperiment(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	experimentID := e.Param("experiment_id")

	l.Info("completing experiment", zap.String("experiment_id", experimentID))

	exp, err := h.abtest.CompleteExperiment(e.Request().Context(), actorID(e), workspaceID, experimentID)
	if err != nil {
		l.Error("failed to complete experiment", zap.String("experiment_id", experimentID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, exp)
}

func (h *Handler) SampleSize(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	baseline, err := strconv.ParseFloat(e.QueryParam("baseline"), 64)
	if err != nil {
		return h.transportError(e, service.NewServiceError(service.ErrorCodeInvalidBody, "baseline must be a number"))
	}
	target, err := strconv.ParseFloat(e.QueryParam("target"), 64)
	if err != nil {
		return h.transportError(e, service.NewServiceError(service.ErrorCodeInvalidBody, "target must be a number"))
	}

	n, sErr := h.abtest.SampleSize(baseline, target)
	if sErr != nil {
		l.Warn("sample size rejected",
			zap.Float64("baseline", baseline),
			zap.Float64("target", target),
			zap.Any("error", sErr))
		return h.transportError(e, sErr)
	}

	return e.JSON(http.StatusOK, struct {
		Baseline   float64 `json:"baseline"`
		Target     float64 `json:"target"`
		SampleSize int64   `json:"sample_size_per_variant"`
		Alpha      float64 `json:"alpha"`
		Power      float64 `json:"power"`
	}{Baseline: baseline, Target: target, SampleSize: n, Alpha: 0.05, Power: 0.8})
}
