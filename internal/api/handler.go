package api

import (
	"net/http"

	"github.com/h-shvedko/sociallyhub-sub010/internal/auth"
	"github.com/h-shvedko/sociallyhub-sub010/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	auth       *service.AuthService
	workspace  *service.WorkspaceService
	post       *service.PostService
	template   *service.TemplateService
	campaign   *service.CampaignService
	analytics  *service.AnalyticsService
	abtest     *service.ABTestService
	ticket     *service.TicketService
	admin      *service.AdminService
	helpcenter *service.HelpCenterService

	tokens        *auth.TokenManager
	healthChecker HealthChecker

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger, tokens *auth.TokenManager) *Handler {
	return &Handler{
		logger: logger,
		tokens: tokens,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithAuthService(s *service.AuthService) *Handler {
	h.auth = s
	return h
}

func (h *Handler) WithWorkspaceService(s *service.WorkspaceService) *Handler {
	h.workspace = s
	return h
}

func (h *Handler) WithPostService(s *service.PostService) *Handler {
	h.post = s
	return h
}

func (h *Handler) WithTemplateService(s *service.TemplateService) *Handler {
	h.template = s
	return h
}

func (h *Handler) WithCampaignService(s *service.CampaignService) *Handler {
	h.campaign = s
	return h
}

func (h *Handler) WithAnalyticsService(s *service.AnalyticsService) *Handler {
	h.analytics = s
	return h
}

func (h *Handler) WithABTestService(s *service.ABTestService) *Handler {
	h.abtest = s
	return h
}

func (h *Handler) WithTicketService(s *service.TicketService) *Handler {
	h.ticket = s
	return h
}

func (h *Handler) WithAdminService(s *service.AdminService) *Handler {
	h.admin = s
	return h
}

func (h *Handler) WithHelpCenterService(s *service.HelpCenterService) *Handler {
	h.helpcenter = s
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/health", h.healthChecker.HealthCheck())

	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)

	e.GET("/help/articles", h.ListArticles)
	e.GET("/help/articles/:slug", h.GetArticle)

	memberSecurity := e.Group("", AuthMiddleware(h.tokens, auth.TokenRoleMember, auth.TokenRoleAdmin))

	memberSecurity.POST("/workspaces", h.CreateWorkspace)
	memberSecurity.GET("/workspaces", h.ListWorkspaces)
	memberSecurity.GET("/workspaces/:slug", h.GetWorkspace)
	memberSecurity.POST("/workspaces/:workspace_id/members", h.AddMember)
	memberSecurity.DELETE("/workspaces/:workspace_id/members/:user_id", h.RemoveMember)
	memberSecurity.PUT("/workspaces/:workspace_id/members/:user_id/role", h.SetMemberRole)

	memberSecurity.POST("/workspaces/:workspace_id/posts", h.CreateDraft)
	memberSecurity.GET("/workspaces/:workspace_id/posts", h.ListPosts)
	memberSecurity.GET("/workspaces/:workspace_id/posts/:post_id", h.GetPost)
	memberSecurity.PUT("/workspaces/:workspace_id/posts/:post_id/body", h.UpdatePostBody)
	memberSecurity.POST("/workspaces/:workspace_id/posts/:post_id/schedule", h.SchedulePost)
	memberSecurity.POST("/workspaces/:workspace_id/posts/:post_id/publish", h.PublishPost)
	memberSecurity.POST("/workspaces/:workspace_id/posts/:post_id/cancel", h.CancelSchedule)
	memberSecurity.DELETE("/workspaces/:workspace_id/posts/:post_id", h.DeletePost)

	memberSecurity.POST("/workspaces/:workspace_id/templates", h.CreateTemplate)
	memberSecurity.GET("/workspaces/:workspace_id/templates", h.ListTemplates)
	memberSecurity.GET("/workspaces/:workspace_id/templates/:template_id", h.GetTemplate)
	memberSecurity.PUT("/workspaces/:workspace_id/templates/:template_id", h.UpdateTemplate)
	memberSecurity.DELETE("/workspaces/:workspace_id/templates/:template_id", h.DeleteTemplate)
	memberSecurity.POST("/workspaces/:workspace_id/templates/:template_id/materialize", h.MaterializeTemplate)

	memberSecurity.POST("/workspaces/:workspace_id/clients", h.CreateClient)
	memberSecurity.GET("/workspaces/:workspace_id/clients", h.ListClients)
	memberSecurity.PUT("/workspaces/:workspace_id/clients/:client_id", h.UpdateClient)
	memberSecurity.DELETE("/workspaces/:workspace_id/clients/:client_id", h.DeleteClient)

	memberSecurity.POST("/workspaces/:workspace_id/campaigns", h.CreateCampaign)
	memberSecurity.GET("/workspaces/:workspace_id/campaigns", h.ListCampaigns)
	memberSecurity.GET("/workspaces/:workspace_id/campaigns/:campaign_id", h.GetCampaign)
	memberSecurity.PUT("/workspaces/:workspace_id/campaigns/:campaign_id", h.UpdateCampaign)
	memberSecurity.POST("/workspaces/:workspace_id/campaigns/:campaign_id/archive", h.ArchiveCampaign)
	memberSecurity.DELETE("/workspaces/:workspace_id/campaigns/:campaign_id", h.DeleteCampaign)

	memberSecurity.POST("/workspaces/:workspace_id/metrics", h.IngestMetrics)
	memberSecurity.GET("/workspaces/:workspace_id/analytics/summary", h.WorkspaceSummary)
	memberSecurity.GET("/workspaces/:workspace_id/analytics/campaigns/:campaign_id", h.CampaignSummary)
	memberSecurity.GET("/workspaces/:workspace_id/analytics/top-posts", h.TopPosts)

	memberSecurity.POST("/workspaces/:workspace_id/tickets", h.OpenTicket)
	memberSecurity.GET("/workspaces/:workspace_id/tickets", h.ListTickets)
	memberSecurity.GET("/workspaces/:workspace_id/tickets/:ticket_id", h.GetTicket)
	memberSecurity.POST("/workspaces/:workspace_id/tickets/:ticket_id/assign", h.AssignTicket)
	memberSecurity.POST("/workspaces/:workspace_id/tickets/:ticket_id/status", h.ChangeTicketStatus)
	memberSecurity.POST("/workspaces/:workspace_id/tickets/:ticket_id/comments", h.CommentTicket)

	memberSecurity.POST("/workspaces/:workspace_id/experiments", h.CreateExperiment)
	memberSecurity.GET("/workspaces/:workspace_id/experiments", h.ListExperiments)
	memberSecurity.GET("/workspaces/:workspace_id/experiments/:experiment_id", h.GetExperiment)
	memberSecurity.POST("/workspaces/:workspace_id/experiments/:experiment_id/start", h.StartExperiment)
	memberSecurity.POST("/workspaces/:workspace_id/experiments/:experiment_id/results", h.RecordExperimentResult)
	memberSecurity.POST("/workspaces/:workspace_id/experiments/:experiment_id/complete", h.CompleteExperiment)
	memberSecurity.GET("/experiments/sample-size", h.SampleSize)

	adminSecurity := e.Group("", AuthMiddleware(h.tokens, auth.TokenRoleAdmin))

	adminSecurity.GET("/admin/users", h.ListUsers)
	adminSecurity.POST("/admin/users/setActive", h.SetUserActive)
	adminSecurity.POST("/admin/users/setAdmin", h.SetUserAdmin)
	adminSecurity.POST("/admin/users/bulk", h.BulkOperate)

	adminSecurity.GET("/admin/articles", h.AdminListArticles)
	adminSecurity.GET("/admin/articles/:slug", h.AdminGetArticle)
	adminSecurity.POST("/admin/articles", h.CreateArticle)
	adminSecurity.PUT("/admin/articles/:slug", h.UpdateArticle)
	adminSecurity.POST("/admin/articles/:slug/publish", h.SetArticlePublished)
	adminSecurity.DELETE("/admin/articles/:slug", h.DeleteArticle)
}

func (h *Handler) decodeRequest(e echo.Context, req any) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewServiceError(service.ErrorCodeInvalidBody, "invalid request body")
	}

	if err := e.Validate(req); err != nil {
		return service.NewServiceError(service.ErrorCodeInvalidBody, errors.Wrap(err, "request validation failed").Error())
	}
	return nil
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	response := struct {
		Error *service.Error `json:"error"`
	}{Error: err}

	switch err.Code {
	case service.ErrorCodeNotFound:
		return e.JSON(http.StatusNotFound, response)
	case service.ErrorCodeInvalidBody,
		service.ErrorCodeEmailExists,
		service.ErrorCodeSlugExists,
		service.ErrorCodeMemberExists:
		return e.JSON(http.StatusBadRequest, response)
	case service.ErrorCodeUnauthorized:
		return e.JSON(http.StatusUnauthorized, response)
	case service.ErrorCodeForbidden:
		return e.JSON(http.StatusForbidden, response)
	case service.ErrorCodeUserInactive,
		service.ErrorCodeLastOwner,
		service.ErrorCodeSelfForbidden,
		service.ErrorCodePostPublished,
		service.ErrorCodePostNotDraft,
		service.ErrorCodeScheduleInPast,
		service.ErrorCodeTicketClosed,
		service.ErrorCodeExperimentNotDraft,
		service.ErrorCodeExperimentNotRunning,
		service.ErrorCodeTemplateInactive:
		return e.JSON(http.StatusConflict, response)
	default:
		return e.JSON(http.StatusInternalServerError, response)
	}
}
