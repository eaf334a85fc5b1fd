package repository

import (
	"context"

	"github.com/h-shvedko/sociallyhub-sub010/internal/db"
	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

type Template struct {
	ID          string          `db:"id"`
	WorkspaceID string          `db:"workspace_id"`
	Name        string          `db:"name"`
	Body        string          `db:"body"`
	Platforms   []string        `db:"platforms"`
	Frequency   model.Frequency `db:"frequency"`
	Interval    int             `db:"interval"`
	Weekdays    []int           `db:"weekdays"`
	DayOfMonth  int             `db:"day_of_month"`
	AtHour      int             `db:"at_hour"`
	AtMinute    int             `db:"at_minute"`
	Active      bool            `db:"active"`
}

type TemplateRepository interface {
	Create(ctx context.Context, tpl *Template) error
	Get(ctx context.Context, workspaceID, templateID string) (*Template, error)
	List(ctx context.Context, workspaceID string) ([]*Template, error)
	Update(ctx context.Context, tpl *Template) error
	Delete(ctx context.Context, workspaceID, templateID string) error
}

type pgxTemplateRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTemplateRepository(pool *pgxpool.Pool) TemplateRepository {
	return &pgxTemplateRepository{pool: pool}
}

const templateColumns = "id, workspace_id, name, body, platforms, frequency, interval, weekdays, day_of_month, at_hour, at_minute, active"

func scanTemplate(row pgx.Row) (*Template, error) {
	tpl := &Template{}
	if err := row.Scan(
		&tpl.ID,
		&tpl.WorkspaceID,
		&tpl.Name,
		&tpl.Body,
		&tpl.Platforms,
		&tpl.Frequency,
		&tpl.Interval,
		&tpl.Weekdays,
		&tpl.DayOfMonth,
		&tpl.AtHour,
		&tpl.AtMinute,
		&tpl.Active,
	); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (p *pgxTemplateRepository) Create(ctx context.Context, tpl *Template) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("template", "id", "workspace_id", "name", "body", "platforms", "frequency",
			"interval", "weekdays", "day_of_month", "at_hour", "at_minute", "active"),
		im.Values(
			psql.Arg(tpl.ID), psql.Arg(tpl.WorkspaceID), psql.Arg(tpl.Name), psql.Arg(tpl.Body),
			psql.Arg(tpl.Platforms), psql.Arg(tpl.Frequency), psql.Arg(tpl.Interval), psql.Arg(tpl.Weekdays),
			psql.Arg(tpl.DayOfMonth), psql.Arg(tpl.AtHour), psql.Arg(tpl.AtMinute), psql.Arg(tpl.Active),
		),
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

func (p *pgxTemplateRepository) Get(ctx context.Context, workspaceID, templateID string) (*Template, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw(templateColumns)),
		sm.From("template"),
		sm.Where(
			psql.Quote("id").EQ(psql.Arg(templateID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	tpl, err := scanTemplate(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return tpl, err
}

func (p *pgxTemplateRepository) List(ctx context.Context, workspaceID string) ([]*Template, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw(templateColumns)),
		sm.From("template"),
		sm.Where(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		sm.OrderBy("name"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Template, error) {
		return scanTemplate(row)
	})
}

func (p *pgxTemplateRepository) Update(ctx context.Context, tpl *Template) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("template"),
		um.SetCol("name").ToArg(tpl.Name),
		um.SetCol("body").ToArg(tpl.Body),
		um.SetCol("platforms").ToArg(tpl.Platforms),
		um.SetCol("frequency").ToArg(tpl.Frequency),
		um.SetCol("interval").ToArg(tpl.Interval),
		um.SetCol("weekdays").ToArg(tpl.Weekdays),
		um.SetCol("day_of_month").ToArg(tpl.DayOfMonth),
		um.SetCol("at_hour").ToArg(tpl.AtHour),
		um.SetCol("at_minute").ToArg(tpl.AtMinute),
		um.SetCol("active").ToArg(tpl.Active),
		um.Where(
			psql.Quote("id").EQ(psql.Arg(tpl.ID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(tpl.WorkspaceID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	commandTag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *pgxTemplateRepository) Delete(ctx context.Context, workspaceID, templateID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("template"),
		dm.Where(
			psql.Quote("id").EQ(psql.Arg(templateID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		))

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	commandTag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
