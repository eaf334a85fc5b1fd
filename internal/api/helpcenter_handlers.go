package api

import (
	"net/http"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) ListArticles(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	category := e.QueryParam("category")

	articles, err := h.helpcenter.ListArticles(e.Request().Context(), category, false)
	if err != nil {
		l.Error("failed to list articles", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, articles)
}

func (h *Handler) GetArticle(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	slug := e.Param("slug")

	article, err := h.helpcenter.GetArticle(e.Request().Context(), slug, false)
	if err != nil {
		l.Warn("article lookup failed", zap.String("slug", slug), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, article)
}

func (h *Handler) AdminListArticles(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	category := e.QueryParam("category")

	articles, err := h.helpcenter.ListArticles(e.Request().Context(), category, true)
	if err != nil {
		l.Error("failed to list articles", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, articles)
}

func (h *Handler) AdminGetArticle(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	slug := e.Param("slug")

	article, err := h.helpcenter.GetArticle(e.Request().Context(), slug, true)
	if err != nil {
		l.Warn("article lookup failed", zap.String("slug", slug), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, article)
}

func (h *Handler) CreateArticle(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	article := &model.Article{}
	if err := h.decodeRequest(e, article); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("creating article", zap.String("slug", article.Slug))

	created, err := h.helpcenter.CreateArticle(e.Request().Context(), article)
	if err != nil {
		l.Error("failed to create article", zap.String("slug", article.Slug), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateArticle(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Category     string `json:"category" validate:"required"`
		Title        string `json:"title" validate:"required"`
		BodyMarkdown string `json:"body_markdown" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	article := &model.Article{
		Slug:         e.Param("slug"),
		Category:     req.Category,
		Title:        req.Title,
		BodyMarkdown: req.BodyMarkdown,
	}

	updated, err := h.helpcenter.UpdateArticle(e.Request().Context(), article)
	if err != nil {
		l.Error("failed to update article", zap.String("slug", article.Slug), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, updated)
}

func (h *Handler) SetArticlePublished(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	slug := e.Param("slug")

	var req struct {
		Published bool `json:"published"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("setting article published flag",
		zap.String("slug", slug),
		zap.Bool("published", req.Published))

	if err := h.helpcenter.SetPublished(e.Request().Context(), slug, req.Published); err != nil {
		l.Error("failed to set published flag", zap.String("slug", slug), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteArticle(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	slug := e.Param("slug")

	if err := h.helpcenter.DeleteArticle(e.Request().Context(), slug); err != nil {
		l.Error("failed to delete article", zap.String("slug", slug), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}
