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

type CampaignService struct {
	tx db.Transactor

	campaigns  repository.CampaignRepository
	workspaces repository.WorkspaceRepository
}

func NewCampaignService(tx db.Transactor) *CampaignService {
	return &CampaignService{tx: tx}
}

func clientToModel(c *repository.Client) *model.Client {
	return &model.Client{
		ID:           c.ID,
		WorkspaceID:  c.WorkspaceID,
		Name:         c.Name,
		ContactEmail: c.ContactEmail,
		Notes:        c.Notes,
	}
}

func campaignToModel(c *repository.Campaign) *model.Campaign {
	return &model.Campaign{
		ID:          c.ID,
		WorkspaceID: c.WorkspaceID,
		ClientID:    c.ClientID,
		Name:        c.Name,
		Status:      c.Status,
		StartsAt:    c.StartsAt,
		EndsAt:      c.EndsAt,
	}
}

func (s *CampaignService) CreateClient(ctx context.Context, actorID string, client *model.Client) (*model.Client, *Error) {
	if sErr := requireRole(ctx, s.workspaces, client.WorkspaceID, actorID, rolesEditor...); sErr != nil {
		return nil, sErr
	}

	repoClient := &repository.Client{
		ID:           uuid.NewString(),
		WorkspaceID:  client.WorkspaceID,
		Name:         client.Name,
		ContactEmail: client.ContactEmail,
		Notes:        client.Notes,
	}

	if err := s.campaigns.CreateClient(ctx, repoClient); err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to create client")
	}

	return clientToModel(repoClient), nil
}

func (s *CampaignService) ListClients(ctx context.Context, actorID, workspaceID string) ([]*model.Client, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	repoClients, err := s.campaigns.ListClients(ctx, workspaceID)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list clients")
	}

	out := make([]*model.Client, 0, len(repoClients))
	for _, c := range repoClients {
		out = append(out, clientToModel(c))
	}
	return out, nil
}

func (s *CampaignService) UpdateClient(ctx context.Context, actorID string, client *model.Client) (*model.Client, *Error) {
	if sErr := requireRole(ctx, s.workspaces, client.WorkspaceID, actorID, rolesEditor...); sErr != nil {
		return nil, sErr
	}

	repoClient := &repository.Client{
		ID:           client.ID,
		WorkspaceID:  client.WorkspaceID,
		Name:         client.Name,
		ContactEmail: client.ContactEmail,
		Notes:        client.Notes,
	}

	err := s.campaigns.UpdateClient(ctx, repoClient)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "client not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to update client")
	}

	return clientToModel(repoClient), nil
}

// DeleteClient detaches the client's campaigns instead of deleting them.
func (s *CampaignService) DeleteClient(ctx context.Context, actorID, workspaceID, clientID string) *Error {
	l := logger.FromContext(ctx)

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		if err := s.campaigns.DetachClient(txCtx, workspaceID, clientID); err != nil {
			l.Error("failed to detach campaigns", zap.String("client_id", clientID), zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to detach campaigns")
		}

		err := s.campaigns.DeleteClient(txCtx, workspaceID, clientID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "client not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to delete client")
		}
		return nil
	})

	return txError(err)
}

func (s *CampaignService) CreateCampaign(ctx context.Context, actorID string, c *model.Campaign) (*model.Campaign, *Error) {
	if sErr := requireRole(ctx, s.workspaces, c.WorkspaceID, actorID, rolesEditor...); sErr != nil {
		return nil, sErr
	}

	// The foreign key alone does not scope the client to this workspace.
	if c.ClientID != nil {
		_, err := s.campaigns.GetClient(ctx, c.WorkspaceID, *c.ClientID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, NewServiceError(ErrorCodeNotFound, "client not found")
		case err != nil:
			return nil, NewServiceError(ErrorCodeUnspecified, "failed to get client")
		}
	}

	repoCampaign := &repository.Campaign{
		ID:          uuid.NewString(),
		WorkspaceID: c.WorkspaceID,
		ClientID:    c.ClientID,
		Name:        c.Name,
		Status:      model.CampaignStatusPlanned,
		StartsAt:    c.StartsAt,
		EndsAt:      c.EndsAt,
	}

	err := s.campaigns.Create(ctx, repoCampaign)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "client not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to create campaign")
	}

	return campaignToModel(repoCampaign), nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, actorID, workspaceID, campaignID string) (*model.Campaign, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	repoCampaign, err := s.campaigns.Get(ctx, workspaceID, campaignID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "campaign not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get campaign")
	}

	return campaignToModel(repoCampaign), nil
}

func (s *CampaignService) ListCampaigns(ctx context.Context, actorID, workspaceID string, clientID *string) ([]*model.Campaign, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	repoCampaigns, err := s.campaigns.List(ctx, workspaceID, clientID)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list campaigns")
	}

	out := make([]*model.Campaign, 0, len(repoCampaigns))
	for _, c := range repoCampaigns {
		out = append(out, campaignToModel(c))
	}
	return out, nil
}

func (s *CampaignService) UpdateCampaign(ctx context.Context, actorID string, patch *repository.CampaignPatch) (*model.Campaign, *Error) {
	if sErr := requireRole(ctx, s.workspaces, patch.WorkspaceID, actorID, rolesEditor...); sErr != nil {
		return nil, sErr
	}

	repoCampaign, err := s.campaigns.Patch(ctx, patch)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "campaign not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to update campaign")
	}

	return campaignToModel(repoCampaign), nil
}

func (s *CampaignService) ArchiveCampaign(ctx context.Context, actorID, workspaceID, campaignID string) (*model.Campaign, *Error) {
	status := model.CampaignStatusArchived
	return s.UpdateCampaign(ctx, actorID, &repository.CampaignPatch{
		ID:          campaignID,
		WorkspaceID: workspaceID,
		Status:      &status,
	})
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, actorID, workspaceID, campaignID string) *Error {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
		return sErr
	}

	err := s.campaigns.Delete(ctx, workspaceID, campaignID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewServiceError(ErrorCodeNotFound, "campaign not found")
	case err != nil:
		return NewServiceError(ErrorCodeUnspecified, "failed to delete campaign")
	}
	return nil
}

func (s *CampaignService) WithCampaignRepo(r repository.CampaignRepository) *CampaignService {
	s.campaigns = r
	return s
}

func (s *CampaignService) WithWorkspaceRepo(r repository.WorkspaceRepository) *CampaignService {
	s.workspaces = r
	return s
}
