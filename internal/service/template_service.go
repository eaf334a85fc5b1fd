package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/h-shvedko/sociallyhub-sub010/internal/db"
	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/recurrence"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type TemplateService struct {
	tx db.Transactor

	templates  repository.TemplateRepository
	posts      repository.PostRepository
	workspaces repository.WorkspaceRepository

	now func() time.Time
}

func NewTemplateService(tx db.Transactor) *TemplateService {
	return &TemplateService{
		tx:  tx,
		now: time.Now,
	}
}

func templateToModel(t *repository.Template) *model.Template {
	weekdays := make([]time.Weekday, 0, len(t.Weekdays))
	for _, wd := range t.Weekdays {
		weekdays = append(weekdays, time.Weekday(wd))
	}

	return &model.Template{
		ID:          t.ID,
		WorkspaceID: t.WorkspaceID,
		Name:        t.Name,
		Body:        t.Body,
		Platforms:   t.Platforms,
		Frequency:   t.Frequency,
		Interval:    t.Interval,
		Weekdays:    weekdays,
		DayOfMonth:  t.DayOfMonth,
		AtHour:      t.AtHour,
		AtMinute:    t.AtMinute,
		Active:      t.Active,
	}
}

func templateToRepo(t *model.Template) *repository.Template {
	weekdays := make([]int, 0, len(t.Weekdays))
	for _, wd := range t.Weekdays {
		weekdays = append(weekdays, int(wd))
	}

	return &repository.Template{
		ID:          t.ID,
		WorkspaceID: t.WorkspaceID,
		Name:        t.Name,
		Body:        t.Body,
		Platforms:   t.Platforms,
		Frequency:   t.Frequency,
		Interval:    t.Interval,
		Weekdays:    weekdays,
		DayOfMonth:  t.DayOfMonth,
		AtHour:      t.AtHour,
		AtMinute:    t.AtMinute,
		Active:      t.Active,
	}
}

func templateRule(t *repository.Template) recurrence.Rule {
	weekdays := make([]time.Weekday, 0, len(t.Weekdays))
	for _, wd := range t.Weekdays {
		weekdays = append(weekdays, time.Weekday(wd))
	}

	return recurrence.Rule{
		Frequency:  string(t.Frequency),
		Interval:   t.Interval,
		Weekdays:   weekdays,
		DayOfMonth: t.DayOfMonth,
		AtHour:     t.AtHour,
		AtMinute:   t.AtMinute,
	}
}

func (s *TemplateService) CreateTemplate(ctx context.Context, actorID string, tpl *model.Template) (*model.Template, *Error) {
	l := logger.FromContext(ctx)

	if sErr := requireRole(ctx, s.workspaces, tpl.WorkspaceID, actorID, rolesEditor...); sErr != nil {
		return nil, sErr
	}

	repoTpl := templateToRepo(tpl)
	repoTpl.ID = uuid.NewString()
	repoTpl.Active = true

	// Reject rules the generator cannot walk before persisting them.
	if _, err := recurrence.Next(templateRule(repoTpl), s.now(), 1); err != nil {
		return nil, NewServiceError(ErrorCodeInvalidBody, "invalid recurrence rule")
	}

	err := s.templates.Create(ctx, repoTpl)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "workspace not found")
	case err != nil:
		l.Error("failed to create template", zap.String("workspace_id", tpl.WorkspaceID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to create template")
	}

	return templateToModel(repoTpl), nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, actorID, workspaceID, templateID string) (*model.Template, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	repoTpl, err := s.templates.Get(ctx, workspaceID, templateID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "template not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get template")
	}

	return templateToModel(repoTpl), nil
}

func (s *TemplateService) ListTemplates(ctx context.Context, actorID, workspaceID string) ([]*model.Template, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	repoTpls, err := s.templates.List(ctx, workspaceID)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list templates")
	}

	out := make([]*model.Template, 0, len(repoTpls))
	for _, t := range repoTpls {
		out = append(out, templateToModel(t))
	}
	return out, nil
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, actorID string, tpl *model.Template) (*model.Template, *Error) {
	if sErr := requireRole(ctx, s.workspaces, tpl.WorkspaceID, actorID, rolesEditor...); sErr != nil {
		return nil, sErr
	}

	repoTpl := templateToRepo(tpl)

	if _, err := recurrence.Next(templateRule(repoTpl), s.now(), 1); err != nil {
		return nil, NewServiceError(ErrorCodeInvalidBody, "invalid recurrence rule")
	}

	err := s.templates.Update(ctx, repoTpl)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "template not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to update template")
	}

	return templateToModel(repoTpl), nil
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, actorID, workspaceID, templateID string) *Error {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
		return sErr
	}

	err := s.templates.Delete(ctx, workspaceID, templateID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewServiceError(ErrorCodeNotFound, "template not found")
	case err != nil:
		return NewServiceError(ErrorCodeUnspecified, "failed to delete template")
	}
	return nil
}

// Materialize generates the next count occurrences of the template and
// creates a scheduled post for each.
func (s *TemplateService) Materialize(ctx context.Context, actorID, workspaceID, templateID string, count int) ([]*model.Post, *Error) {
	l := logger.FromContext(ctx)
	posts := make([]*model.Post, 0, count)

	if count < 1 || count > 100 {
		return nil, NewServiceError(ErrorCodeInvalidBody, "count must be between 1 and 100")
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		repoTpl, err := s.templates.Get(txCtx, workspaceID, templateID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "template not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get template")
		}

		if !repoTpl.Active {
			return NewServiceError(ErrorCodeTemplateInactive, "template is inactive")
		}

		occurrences, err := recurrence.Next(templateRule(repoTpl), s.now(), count)
		if err != nil {
			return NewServiceError(ErrorCodeInvalidBody, "invalid recurrence rule")
		}

		for _, occ := range occurrences {
			at := occ
			repoPost := &repository.Post{
				ID:          uuid.NewString(),
				WorkspaceID: workspaceID,
				AuthorID:    actorID,
				Body:        repoTpl.Body,
				Platforms:   repoTpl.Platforms,
				Status:      model.PostStatusScheduled,
				ScheduledAt: &at,
			}
			if err = s.posts.Create(txCtx, repoPost); err != nil {
				l.Error("failed to materialize occurrence",
					zap.String("template_id", templateID),
					zap.Time("occurrence", occ),
					zap.Error(err))
				return NewServiceError(ErrorCodeUnspecified, "failed to create scheduled post")
			}
			posts = append(posts, postToModel(repoPost))
		}

		l.Info("template materialized",
			zap.String("template_id", templateID),
			zap.Int("posts", len(posts)))

		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return posts, nil
}

func (s *TemplateService) WithTemplateRepo(r repository.TemplateRepository) *TemplateService {
	s.templates = r
	return s
}

func (s *TemplateService) WithPostRepo(r repository.PostRepository) *TemplateService {
	s.posts = r
	return s
}

func (s *TemplateService) WithWorkspaceRepo(r repository.WorkspaceRepository) *TemplateService {
	s.workspaces = r
	return s
}

func (s *TemplateService) WithNow(now func() time.Time) *TemplateService {
	s.now = now
	return s
}
