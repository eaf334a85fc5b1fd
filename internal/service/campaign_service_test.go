package service

import (
	"context"
	"testing"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCampaignService_CreateCampaign(t *testing.T) {
	t.Parallel()

	clientID := "client-1"

	tests := []struct {
		name       string
		clientID   *string
		setupMocks func(campaigns *MockCampaignRepository)
		wantCode   ErrorCode
	}{
		{
			name:     "creates with a known client",
			clientID: &clientID,
			setupMocks: func(campaigns *MockCampaignRepository) {
				campaigns.On("GetClient", mock.Anything, "ws-1", "client-1").
					Return(&repository.Client{ID: "client-1", WorkspaceID: "ws-1"}, nil)
				campaigns.On("Create", mock.Anything, mock.MatchedBy(func(c *repository.Campaign) bool {
					return c.WorkspaceID == "ws-1" && c.Status == model.CampaignStatusPlanned
				})).Return(nil)
			},
		},
		{
			name:     "rejects a client outside the workspace",
			clientID: &clientID,
			setupMocks: func(campaigns *MockCampaignRepository) {
				campaigns.On("GetClient", mock.Anything, "ws-1", "client-1").
					Return(nil, repository.ErrNotFound)
			},
			wantCode: ErrorCodeNotFound,
		},
		{
			name: "creates without a client",
			setupMocks: func(campaigns *MockCampaignRepository) {
				campaigns.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			workspaces := new(MockWorkspaceRepository)
			workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
				Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "editor"}, nil)

			campaigns := new(MockCampaignRepository)
			tt.setupMocks(campaigns)

			svc := NewCampaignService(new(MockTransactor)).
				WithCampaignRepo(campaigns).
				WithWorkspaceRepo(workspaces)

			got, sErr := svc.CreateCampaign(context.Background(), "user-1", &model.Campaign{
				WorkspaceID: "ws-1",
				ClientID:    tt.clientID,
				Name:        "Spring launch",
			})

			if tt.wantCode != "" {
				require.NotNil(t, sErr)
				assert.Equal(t, tt.wantCode, sErr.Code)
				campaigns.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			require.Nil(t, sErr)
			assert.NotEmpty(t, got.ID)
			campaigns.AssertExpectations(t)
		})
	}
}
