package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/h-shvedko/sociallyhub-sub010/internal/abtest"
	"github.com/h-shvedko/sociallyhub-sub010/internal/db"
	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type ABTestService struct {
	tx db.Transactor

	experiments repository.ExperimentRepository
	workspaces  repository.WorkspaceRepository

	now func() time.Time
}

func NewABTestService(tx db.Transactor) *ABTestService {
	return &ABTestService{
		tx:  tx,
		now: time.Now,
	}
}

func experimentToModel(e *repository.Experiment, variants []*repository.Variant) *model.Experiment {
	exp := &model.Experiment{
		ID:          e.ID,
		WorkspaceID: e.WorkspaceID,
		Name:        e.Name,
		Metric:      e.Metric,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		CompletedAt: e.CompletedAt,
	}

	for _, v := range variants {
		exp.Variants = append(exp.Variants, &model.Variant{
			ID:          v.ID,
			Name:        v.Name,
			Body:        v.Body,
			Impressions: v.Impressions,
			Conversions: v.Conversions,
		})
	}

	if e.Status == model.ExperimentStatusCompleted && e.LeaderID != nil && e.RunnerUpID != nil {
		exp.Evaluation = &model.Evaluation{
			WinnerVariantID: e.WinnerVariantID,
			LeaderID:        *e.LeaderID,
			RunnerUpID:      *e.RunnerUpID,
		}
		if e.PValue != nil {
			exp.Evaluation.PValue = *e.PValue
		}
		if e.Significant != nil {
			exp.Evaluation.Significant = *e.Significant
		}
	}

	return exp
}

// CreateExperiment creates a draft experiment with 2..5 variants.
func (s *ABTestService) CreateExperiment(ctx context.Context, actorID string, exp *model.Experiment) (*model.Experiment, *Error) {
	l := logger.FromContext(ctx)
	out := &model.Experiment{}

	if len(exp.Variants) < 2 || len(exp.Variants) > 5 {
		return nil, NewServiceError(ErrorCodeInvalidBody, "an experiment needs 2 to 5 variants")
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, exp.WorkspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		repoExp := &repository.Experiment{
			ID:          uuid.NewString(),
			WorkspaceID: exp.WorkspaceID,
			Name:        exp.Name,
			Metric:      exp.Metric,
			Status:      model.ExperimentStatusDraft,
		}
		if err := s.experiments.Create(txCtx, repoExp); err != nil {
			l.Error("failed to create experiment", zap.String("workspace_id", exp.WorkspaceID), zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to create experiment")
		}

		variants := make([]*repository.Variant, 0, len(exp.Variants))
		for _, v := range exp.Variants {
			repoVariant := &repository.Variant{
				ID:           uuid.NewString(),
				ExperimentID: repoExp.ID,
				Name:         v.Name,
				Body:         v.Body,
			}
			if err := s.experiments.CreateVariant(txCtx, repoVariant); err != nil {
				return NewServiceError(ErrorCodeUnspecified, "failed to create variant")
			}
			variants = append(variants, repoVariant)
		}

		out = experimentToModel(repoExp, variants)
		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return out, nil
}

func (s *ABTestService) StartExperiment(ctx context.Context, actorID, workspaceID, experimentID string) (*model.Experiment, *Error) {
	out := &model.Experiment{}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		repoExp, err := s.experiments.Get(txCtx, workspaceID, experimentID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "experiment not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get experiment")
		}

		if repoExp.Status != model.ExperimentStatusDraft {
			return NewServiceError(ErrorCodeExperimentNotDraft, "experiment has already started")
		}

		status := model.ExperimentStatusRunning
		patched, err := s.experiments.Patch(txCtx, &repository.ExperimentPatch{
			ID:          experimentID,
			WorkspaceID: workspaceID,
			Status:      &status,
		})
		if err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to start experiment")
		}

		variants, err := s.experiments.GetVariants(txCtx, experimentID)
		if err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to get variants")
		}

		out = experimentToModel(patched, variants)
		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return out, nil
}

// RecordResult adds impressions and conversions to a variant of a running
// experiment.
func (s *ABTestService) RecordResult(ctx context.Context, actorID, workspaceID, experimentID, variantID string, impressions, conversions int64) (*model.Variant, *Error) {
	out := &model.Variant{}

	if impressions < 0 || conversions < 0 || conversions > impressions {
		return nil, NewServiceError(ErrorCodeInvalidBody, "conversions cannot exceed impressions")
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		repoExp, err := s.experiments.Get(txCtx, workspaceID, experimentID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "experiment not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get experiment")
		}

		if repoExp.Status != model.ExperimentStatusRunning {
			return NewServiceError(ErrorCodeExperimentNotRunning, "experiment is not running")
		}

		v, err := s.experiments.AddVariantResult(txCtx, experimentID, variantID, impressions, conversions)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "variant not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to record result")
		}

		out = &model.Variant{
			ID:          v.ID,
			Name:        v.Name,
			Body:        v.Body,
			Impressions: v.Impressions,
			Conversions: v.Conversions,
		}
		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return out, nil
}

// CompleteExperiment evaluates the leading variant against the runner-up with
// a two-proportion z-test. Without significance there is no winner.
func (s *ABTestService) CompleteExperiment(ctx context.Context, actorID, workspaceID, experimentID string) (*model.Experiment, *Error) {
	l := logger.FromContext(ctx)
	out := &model.Experiment{}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		repoExp, err := s.experiments.Get(txCtx, workspaceID, experimentID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "experiment not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get experiment")
		}

		if repoExp.Status != model.ExperimentStatusRunning {
			return NewServiceError(ErrorCodeExperimentNotRunning, "experiment is not running")
		}

		variants, err := s.experiments.GetVariants(txCtx, experimentID)
		if err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to get variants")
		}

		leader, runnerUp := rankVariants(variants)

		p, significant := abtest.Significant(
			leader.Conversions, leader.Impressions,
			runnerUp.Conversions, runnerUp.Impressions,
			abtest.DefaultAlpha,
		)

		var winner *string
		if significant {
			winner = &leader.ID
		}

		now := s.now()
		completedAt := &now
		status := model.ExperimentStatusCompleted
		patched, err := s.experiments.Patch(txCtx, &repository.ExperimentPatch{
			ID:              experimentID,
			WorkspaceID:     workspaceID,
			Status:          &status,
			CompletedAt:     &completedAt,
			WinnerVariantID: &winner,
			LeaderID:        &leader.ID,
			RunnerUpID:      &runnerUp.ID,
			PValue:          &p,
			Significant:     &significant,
		})
		if err != nil {
			l.Error("failed to complete experiment", zap.String("experiment_id", experimentID), zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to complete experiment")
		}

		l.Info("experiment completed",
			zap.String("experiment_id", experimentID),
			zap.Float64("p_value", p),
			zap.Bool("significant", significant))

		out = experimentToModel(patched, variants)
		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return out, nil
}

// rankVariants returns the variant with the best conversion rate and the best
// of the rest. Ties go to the variant with more impressions.
func rankVariants(variants []*repository.Variant) (leader, runnerUp *repository.Variant) {
	better := func(a, b *repository.Variant) bool {
		ra := abtest.Rate(a.Conversions, a.Impressions)
		rb := abtest.Rate(b.Conversions, b.Impressions)
		if ra != rb {
			return ra > rb
		}
		return a.Impressions > b.Impressions
	}

	for _, v := range variants {
		switch {
		case leader == nil || better(v, leader):
			leader, runnerUp = v, leader
		case runnerUp == nil || better(v, runnerUp):
			runnerUp = v
		}
	}
	return leader, runnerUp
}

func (s *ABTestService) GetExperiment(ctx context.Context, actorID, workspaceID, experimentID string) (*model.Experiment, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	repoExp, err := s.experiments.Get(ctx, workspaceID, experimentID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "experiment not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get experiment")
	}

	variants, err := s.experiments.GetVariants(ctx, experimentID)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get variants")
	}

	return experimentToModel(repoExp, variants), nil
}

func (s *ABTestService) ListExperiments(ctx context.Context, actorID, workspaceID string) ([]*model.Experiment, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	repoExps, err := s.experiments.List(ctx, workspaceID)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list experiments")
	}

	out := make([]*model.Experiment, 0, len(repoExps))
	for _, e := range repoExps {
		out = append(out, experimentToModel(e, nil))
	}
	return out, nil
}

// SampleSize estimates the impressions needed per variant to detect the lift
// from baseline to target at 95% confidence and 80% power.
func (s *ABTestService) SampleSize(baseline, target float64) (int64, *Error) {
	if baseline <= 0 || baseline >= 1 || target <= 0 || target >= 1 {
		return 0, NewServiceError(ErrorCodeInvalidBody, "rates must be between 0 and 1")
	}
	if baseline == target {
		return 0, NewServiceError(ErrorCodeInvalidBody, "baseline and target must differ")
	}
	return abtest.SampleSize(baseline, target), nil
}

func (s *ABTestService) WithExperimentRepo(r repository.ExperimentRepository) *ABTestService {
	s.experiments = r
	return s
}

func (s *ABTestService) WithWorkspaceRepo(r repository.WorkspaceRepository) *ABTestService {
	s.workspaces = r
	return s
}

func (s *ABTestService) WithNow(now func() time.Time) *ABTestService {
	s.now = now
	return s
}
