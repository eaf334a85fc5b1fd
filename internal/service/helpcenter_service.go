package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/pkg/errors"
)

type HelpCenterService struct {
	articles repository.ArticleRepository
}

func NewHelpCenterService() *HelpCenterService {
	return &HelpCenterService{}
}

func articleToModel(a *repository.Article) *model.Article {
	return &model.Article{
		ID:           a.ID,
		Slug:         a.Slug,
		Category:     a.Category,
		Title:        a.Title,
		BodyMarkdown: a.BodyMarkdown,
		Published:    a.Published,
		UpdatedAt:    a.UpdatedAt,
	}
}

// ListArticles returns published articles; admins see everything.
func (s *HelpCenterService) ListArticles(ctx context.Context, category string, includeUnpublished bool) ([]*model.Article, *Error) {
	repoArticles, err := s.articles.List(ctx, category, !includeUnpublished)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list articles")
	}

	out := make([]*model.Article, 0, len(repoArticles))
	for _, a := range repoArticles {
		out = append(out, articleToModel(a))
	}
	return out, nil
}

// GetArticle hides unpublished articles from non-admin readers.
func (s *HelpCenterService) GetArticle(ctx context.Context, slug string, includeUnpublished bool) (*model.Article, *Error) {
	a, err := s.articles.GetBySlug(ctx, slug)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "article not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get article")
	}

	if !a.Published && !includeUnpublished {
		return nil, NewServiceError(ErrorCodeNotFound, "article not found")
	}

	return articleToModel(a), nil
}

func (s *HelpCenterService) CreateArticle(ctx context.Context, article *model.Article) (*model.Article, *Error) {
	repoArticle := &repository.Article{
		ID:           uuid.NewString(),
		Slug:         article.Slug,
		Category:     article.Category,
		Title:        article.Title,
		BodyMarkdown: article.BodyMarkdown,
		Published:    article.Published,
	}

	err := s.articles.Create(ctx, repoArticle)
	switch {
	case errors.Is(err, repository.ErrAlreadyExists):
		return nil, NewServiceError(ErrorCodeSlugExists, "article slug already exists")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to create article")
	}

	return articleToModel(repoArticle), nil
}

func (s *HelpCenterService) UpdateArticle(ctx context.Context, article *model.Article) (*model.Article, *Error) {
	repoArticle := &repository.Article{
		Slug:         article.Slug,
		Category:     article.Category,
		Title:        article.Title,
		BodyMarkdown: article.BodyMarkdown,
	}

	err := s.articles.Update(ctx, repoArticle)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "article not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to update article")
	}

	updated, err := s.articles.GetBySlug(ctx, article.Slug)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to reload article")
	}
	return articleToModel(updated), nil
}

func (s *HelpCenterService) SetPublished(ctx context.Context, slug string, published bool) *Error {
	err := s.articles.SetPublished(ctx, slug, published)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewServiceError(ErrorCodeNotFound, "article not found")
	case err != nil:
		return NewServiceError(ErrorCodeUnspecified, "failed to update article")
	}
	return nil
}

func (s *HelpCenterService) DeleteArticle(ctx context.Context, slug string) *Error {
	err := s.articles.Delete(ctx, slug)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewServiceError(ErrorCodeNotFound, "article not found")
	case err != nil:
		return NewServiceError(ErrorCodeUnspecified, "failed to delete article")
	}
	return nil
}

func (s *HelpCenterService) WithArticleRepo(r repository.ArticleRepository) *HelpCenterService {
	s.articles = r
	return s
}
