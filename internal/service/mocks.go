package service

import (
	"context"
	"time"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
)

type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// FailingTransactor runs the callback, then reports a commit failure.
type FailingTransactor struct{}

func (FailingTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return errors.New("commit failed")
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *repository.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, userID string) (*repository.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.User), args.Error(1)
}

func (m *MockUserRepository) Patch(ctx context.Context, patch *repository.UserPatch) (*repository.User, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*repository.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.User), args.Error(1)
}

type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, ws *repository.Workspace) error {
	args := m.Called(ctx, ws)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetBySlug(ctx context.Context, slug string) (*repository.Workspace, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Get(ctx context.Context, id string) (*repository.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListForUser(ctx context.Context, userID string) ([]*repository.Workspace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) AddMember(ctx context.Context, workspaceID, userID, role string) error {
	args := m.Called(ctx, workspaceID, userID, role)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	args := m.Called(ctx, workspaceID, userID)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) SetMemberRole(ctx context.Context, workspaceID, userID, role string) error {
	args := m.Called(ctx, workspaceID, userID, role)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID string) (*repository.Member, error) {
	args := m.Called(ctx, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Member), args.Error(1)
}

func (m *MockWorkspaceRepository) GetMembers(ctx context.Context, workspaceID string) ([]*repository.Member, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Member), args.Error(1)
}

func (m *MockWorkspaceRepository) CountOwners(ctx context.Context, workspaceID string) (int, error) {
	args := m.Called(ctx, workspaceID)
	return args.Int(0), args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *repository.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Get(ctx context.Context, workspaceID, postID string) (*repository.Post, error) {
	args := m.Called(ctx, workspaceID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, workspaceID string, status model.PostStatus) ([]*repository.Post, error) {
	args := m.Called(ctx, workspaceID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Post), args.Error(1)
}

func (m *MockPostRepository) Patch(ctx context.Context, patch *repository.PostPatch) (*repository.Post, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, workspaceID, postID string) error {
	args := m.Called(ctx, workspaceID, postID)
	return args.Error(0)
}

func (m *MockPostRepository) GetDue(ctx context.Context, now time.Time, limit int) ([]*repository.Post, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Post), args.Error(1)
}

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, tpl *repository.Template) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *MockTemplateRepository) Get(ctx context.Context, workspaceID, templateID string) (*repository.Template, error) {
	args := m.Called(ctx, workspaceID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Template), args.Error(1)
}

func (m *MockTemplateRepository) List(ctx context.Context, workspaceID string) ([]*repository.Template, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Template), args.Error(1)
}

func (m *MockTemplateRepository) Update(ctx context.Context, tpl *repository.Template) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, workspaceID, templateID string) error {
	args := m.Called(ctx, workspaceID, templateID)
	return args.Error(0)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, t *repository.Ticket) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTicketRepository) Get(ctx context.Context, workspaceID, ticketID string) (*repository.Ticket, error) {
	args := m.Called(ctx, workspaceID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Ticket), args.Error(1)
}

func (m *MockTicketRepository) List(ctx context.Context, workspaceID string, status model.TicketStatus) ([]*repository.Ticket, error) {
	args := m.Called(ctx, workspaceID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Patch(ctx context.Context, patch *repository.TicketPatch) (*repository.Ticket, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Ticket), args.Error(1)
}

func (m *MockTicketRepository) AddComment(ctx context.Context, c *repository.TicketComment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockTicketRepository) GetComments(ctx context.Context, ticketID string) ([]*repository.TicketComment, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.TicketComment), args.Error(1)
}

type MockExperimentRepository struct {
	mock.Mock
}

func (m *MockExperimentRepository) Create(ctx context.Context, exp *repository.Experiment) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExperimentRepository) Get(ctx context.Context, workspaceID, experimentID string) (*repository.Experiment, error) {
	args := m.Called(ctx, workspaceID, experimentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) List(ctx context.Context, workspaceID string) ([]*repository.Experiment, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) Patch(ctx context.Context, patch *repository.ExperimentPatch) (*repository.Experiment, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) CreateVariant(ctx context.Context, v *repository.Variant) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockExperimentRepository) GetVariants(ctx context.Context, experimentID string) ([]*repository.Variant, error) {
	args := m.Called(ctx, experimentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Variant), args.Error(1)
}

func (m *MockExperimentRepository) AddVariantResult(ctx context.Context, experimentID, variantID string, impressions, conversions int64) (*repository.Variant, error) {
	args := m.Called(ctx, experimentID, variantID, impressions, conversions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Variant), args.Error(1)
}

type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) CreateClient(ctx context.Context, client *repository.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockCampaignRepository) GetClient(ctx context.Context, workspaceID, clientID string) (*repository.Client, error) {
	args := m.Called(ctx, workspaceID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Client), args.Error(1)
}

func (m *MockCampaignRepository) ListClients(ctx context.Context, workspaceID string) ([]*repository.Client, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Client), args.Error(1)
}

func (m *MockCampaignRepository) UpdateClient(ctx context.Context, client *repository.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockCampaignRepository) DeleteClient(ctx context.Context, workspaceID, clientID string) error {
	args := m.Called(ctx, workspaceID, clientID)
	return args.Error(0)
}

func (m *MockCampaignRepository) DetachClient(ctx context.Context, workspaceID, clientID string) error {
	args := m.Called(ctx, workspaceID, clientID)
	return args.Error(0)
}

func (m *MockCampaignRepository) Create(ctx context.Context, c *repository.Campaign) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCampaignRepository) Get(ctx context.Context, workspaceID, campaignID string) (*repository.Campaign, error) {
	args := m.Called(ctx, workspaceID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) List(ctx context.Context, workspaceID string, clientID *string) ([]*repository.Campaign, error) {
	args := m.Called(ctx, workspaceID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) Patch(ctx context.Context, patch *repository.CampaignPatch) (*repository.Campaign, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, workspaceID, campaignID string) error {
	args := m.Called(ctx, workspaceID, campaignID)
	return args.Error(0)
}

type MockMetricsRepository struct {
	mock.Mock
}

func (m *MockMetricsRepository) Insert(ctx context.Context, sample *repository.MetricSample) error {
	args := m.Called(ctx, sample)
	return args.Error(0)
}

func (m *MockMetricsRepository) WorkspaceTotals(ctx context.Context, workspaceID string) (*repository.Totals, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Totals), args.Error(1)
}

func (m *MockMetricsRepository) CampaignTotals(ctx context.Context, workspaceID, campaignID string) (*repository.Totals, error) {
	args := m.Called(ctx, workspaceID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Totals), args.Error(1)
}

func (m *MockMetricsRepository) TopPosts(ctx context.Context, workspaceID string, limit int) ([]*repository.TopPost, error) {
	args := m.Called(ctx, workspaceID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.TopPost), args.Error(1)
}

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, a *repository.Article) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*repository.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Article), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context, category string, publishedOnly bool) ([]*repository.Article, error) {
	args := m.Called(ctx, category, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.Article), args.Error(1)
}

func (m *MockArticleRepository) Update(ctx context.Context, a *repository.Article) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockArticleRepository) SetPublished(ctx context.Context, slug string, published bool) error {
	args := m.Called(ctx, slug, published)
	return args.Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}
