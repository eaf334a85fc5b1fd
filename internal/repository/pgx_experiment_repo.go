package repository

import (
	"context"
	"time"

	"github.com/h-shvedko/sociallyhub-sub010/internal/db"
	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

type Experiment struct {
	ID          string                 `db:"id"`
	WorkspaceID string                 `db:"workspace_id"`
	Name        string                 `db:"name"`
	Metric      model.ExperimentMetric `db:"metric"`
	Status      model.ExperimentStatus `db:"status"`
	CreatedAt   *time.Time             `db:"created_at"`
	CompletedAt *time.Time             `db:"completed_at"`

	WinnerVariantID *string  `db:"winner_variant_id"`
	LeaderID        *string  `db:"leader_id"`
	RunnerUpID      *string  `db:"runner_up_id"`
	PValue          *float64 `db:"p_value"`
	Significant     *bool    `db:"significant"`
}

type ExperimentPatch struct {
	ID          string                  `db:"id"`
	WorkspaceID string                  `db:"workspace_id"`
	Status      *model.ExperimentStatus `db:"status"`
	CompletedAt **time.Time             `db:"completed_at"`

	WinnerVariantID **string `db:"winner_variant_id"`
	LeaderID        *string  `db:"leader_id"`
	RunnerUpID      *string  `db:"runner_up_id"`
	PValue          *float64 `db:"p_value"`
	Significant     *bool    `db:"significant"`
}

type Variant struct {
	ID           string `db:"id"`
	ExperimentID string `db:"experiment_id"`
	Name         string `db:"name"`
	Body         string `db:"body"`
	Impressions  int64  `db:"impressions"`
	Conversions  int64  `db:"conversions"`
}

type ExperimentRepository interface {
	Create(ctx context.Context, exp *Experiment) error
	Get(ctx context.Context, workspaceID, experimentID string) (*Experiment, error)
	List(ctx context.Context, workspaceID string) ([]*Experiment, error)
	Patch(ctx context.Context, patch *ExperimentPatch) (*Experiment, error)

	CreateVariant(ctx context.Context, v *Variant) error
	GetVariants(ctx context.Context, experimentID string) ([]*Variant, error)
	AddVariantResult(ctx context.Context, experimentID, variantID string, impressions, conversions int64) (*Variant, error)
}

type pgxExperimentRepository struct {
	pool *pgxpool.Pool
}

func NewPgxExperimentRepository(pool *pgxpool.Pool) ExperimentRepository {
	return &pgxExperimentRepository{pool: pool}
}

const experimentColumns = "id, workspace_id, name, metric, status, created_at, completed_at, winner_variant_id, leader_id, runner_up_id, p_value, significant"

func scanExperiment(row pgx.Row) (*Experiment, error) {
	exp := &Experiment{}
	if err := row.Scan(
		&exp.ID,
		&exp.WorkspaceID,
		&exp.Name,
		&exp.Metric,
		&exp.Status,
		&exp.CreatedAt,
		&exp.CompletedAt,
		&exp.WinnerVariantID,
		&exp.LeaderID,
		&exp.RunnerUpID,
		&exp.PValue,
		&exp.Significant,
	); err != nil {
		return nil, err
	}
	return exp, nil
}

func (p *pgxExperimentRepository) Create(ctx context.Context, exp *Experiment) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("experiment", "id", "workspace_id", "name", "metric", "status"),
		im.Values(psql.Arg(exp.ID), psql.Arg(exp.WorkspaceID), psql.Arg(exp.Name),
			psql.Arg(exp.Metric), psql.Arg(exp.Status)),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&exp.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrAlreadyExists
		case "23503":
			return ErrNotFound
		}
	}
	return err
}

func (p *pgxExperimentRepository) Get(ctx context.Context, workspaceID, experimentID string) (*Experiment, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw(experimentColumns)),
		sm.From("experiment"),
		sm.Where(
			psql.Quote("id").EQ(psql.Arg(experimentID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		),
		sm.ForShare("experiment"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	exp, err := scanExperiment(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return exp, err
}

func (p *pgxExperimentRepository) List(ctx context.Context, workspaceID string) ([]*Experiment, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw(experimentColumns)),
		sm.From("experiment"),
		sm.Where(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		sm.OrderBy("created_at").Desc(),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Experiment, error) {
		return scanExperiment(row)
	})
}

func (p *pgxExperimentRepository) Patch(ctx context.Context, patch *ExperimentPatch) (*Experiment, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 7)
	if patch.Status != nil {
		sets = append(sets, um.SetCol("status").ToArg(*patch.Status))
	}
	if patch.CompletedAt != nil {
		sets = append(sets, um.SetCol("completed_at").ToArg(*patch.CompletedAt))
	}
	if patch.WinnerVariantID != nil {
		sets = append(sets, um.SetCol("winner_variant_id").ToArg(*patch.WinnerVariantID))
	}
	if patch.LeaderID != nil {
		sets = append(sets, um.SetCol("leader_id").ToArg(*patch.LeaderID))
	}
	if patch.RunnerUpID != nil {
		sets = append(sets, um.SetCol("runner_up_id").ToArg(*patch.RunnerUpID))
	}
	if patch.PValue != nil {
		sets = append(sets, um.SetCol("p_value").ToArg(*patch.PValue))
	}
	if patch.Significant != nil {
		sets = append(sets, um.SetCol("significant").ToArg(*patch.Significant))
	}

	q := psql.Update(
		um.Table("experiment"),
		um.Where(
			psql.Quote("id").EQ(psql.Arg(patch.ID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(patch.WorkspaceID))),
		),
		um.Returning(experimentColumns),
	)

	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	exp, err := scanExperiment(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return exp, err
}

func (p *pgxExperimentRepository) CreateVariant(ctx context.Context, v *Variant) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("variant", "id", "experiment_id", "name", "body"),
		im.Values(psql.Arg(v.ID), psql.Arg(v.ExperimentID), psql.Arg(v.Name), psql.Arg(v.Body)),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrAlreadyExists
		case "23503":
			return ErrNotFound
		}
	}
	return err
}

func (p *pgxExperimentRepository) GetVariants(ctx context.Context, experimentID string) ([]*Variant, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "experiment_id", "name", "body", "impressions", "conversions"),
		sm.From("variant"),
		sm.Where(psql.Quote("experiment_id").EQ(psql.Arg(experimentID))),
		sm.OrderBy("name"),
		sm.ForShare("variant"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Variant, error) {
		v := &Variant{}
		if err = row.Scan(&v.ID, &v.ExperimentID, &v.Name, &v.Body, &v.Impressions, &v.Conversions); err != nil {
			return nil, err
		}
		return v, nil
	})
}

// AddVariantResult increments counters atomically in a single update.
func (p *pgxExperimentRepository) AddVariantResult(ctx context.Context, experimentID, variantID string, impressions, conversions int64) (*Variant, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("variant"),
		um.SetCol("impressions").To(psql.Raw("impressions + ?", impressions)),
		um.SetCol("conversions").To(psql.Raw("conversions + ?", conversions)),
		um.Where(
			psql.Quote("id").EQ(psql.Arg(variantID)).
				And(psql.Quote("experiment_id").EQ(psql.Arg(experimentID))),
		),
		um.Returning("id", "experiment_id", "name", "body", "impressions", "conversions"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	v := &Variant{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&v.ID, &v.ExperimentID, &v.Name, &v.Body, &v.Impressions, &v.Conversions); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}
