package api

import (
	"net/http"
	"time"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) CreateClient(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	client := &model.Client{}
	if err := h.decodeRequest(e, client); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}
	client.WorkspaceID = e.Param("workspace_id")

	created, err := h.campaign.CreateClient(e.Request().Context(), actorID(e), client)
	if err != nil {
		l.Error("failed to create client", zap.String("workspace_id", client.WorkspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) ListClients(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")

	clients, err := h.campaign.ListClients(e.Request().Context(), actorID(e), workspaceID)
	if err != nil {
		l.Error("failed to list clients", zap.String("workspace_id", workspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, clients)
}

func (h *Handler) UpdateClient(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	client := &model.Client{}
	if err := h.decodeRequest(e, client); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}
	client.WorkspaceID = e.Param("workspace_id")
	client.ID = e.Param("client_id")

	updated, err := h.campaign.UpdateClient(e.Request().Context(), actorID(e), client)
	if err != nil {
		l.Error("failed to update client", zap.String("client_id", client.ID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteClient(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	clientID := e.Param("client_id")

	l.Info("deleting client", zap.String("client_id", clientID))

	if err := h.campaign.DeleteClient(e.Request().Context(), actorID(e), workspaceID, clientID); err != nil {
		l.Error("failed to delete client", zap.String("client_id", clientID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateCampaign(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	campaign := &model.Campaign{}
	if err := h.decodeRequest(e, campaign); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}
	campaign.WorkspaceID = e.Param("workspace_id")

	l.Info("creating campaign",
		zap.String("workspace_id", campaign.WorkspaceID),
		zap.String("name", campaign.Name))

	created, err := h.campaign.CreateCampaign(e.Request().Context(), actorID(e), campaign)
	if err != nil {
		l.Error("failed to create campaign", zap.String("workspace_id", campaign.WorkspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) ListCampaigns(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")

	var clientID *string
	if id := e.QueryParam("client_id"); id != "" {
		clientID = &id
	}

	campaigns, err := h.campaign.ListCampaigns(e.Request().Context(), actorID(e), workspaceID, clientID)
	if err != nil {
		l.Error("failed to list campaigns", zap.String("workspace_id", workspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, campaigns)
}

func (h *Handler) GetCampaign(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	campaignID := e.Param("campaign_id")

	campaign, err := h.campaign.GetCampaign(e.Request().Context(), actorID(e), workspaceID, campaignID)
	if err != nil {
		l.Error("failed to get campaign", zap.String("campaign_id", campaignID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, campaign)
}

func (h *Handler) UpdateCampaign(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Name     *string               `json:"name"`
		ClientID **string              `json:"client_id"`
		Status   *model.CampaignStatus `json:"status" validate:"omitempty,oneof=planned active archived"`
		StartsAt **time.Time           `json:"starts_at"`
		EndsAt   **time.Time           `json:"ends_at"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	patch := &repository.CampaignPatch{
		ID:          e.Param("campaign_id"),
		WorkspaceID: e.Param("workspace_id"),
		Name:        req.Name,
		ClientID:    req.ClientID,
		Status:      req.Status,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}

	updated, err := h.campaign.UpdateCampaign(e.Request().Context(), actorID(e), patch)
	if err != nil {
		l.Error("failed to update campaign", zap.String("campaign_id", patch.ID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, updated)
}

func (h *Handler) ArchiveCampaign(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	campaignID := e.Param("campaign_id")

	l.Info("archiving campaign", zap.String("campaign_id", campaignID))

	campaign, err := h.campaign.ArchiveCampaign(e.Request().Context(), actorID(e), workspaceID, campaignID)
	if err != nil {
		l.Error("failed to archive campaign", zap.String("campaign_id", campaignID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, campaign)
}

func (h *Handler) DeleteCampaign(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	campaignID := e.Param("campaign_id")

	if err := h.campaign.DeleteCampaign(e.Request().Context(), actorID(e), workspaceID, campaignID); err != nil {
		l.Error("failed to delete campaign", zap.String("campaign_id", campaignID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}
