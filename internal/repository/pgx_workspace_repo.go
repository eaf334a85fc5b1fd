package repository

import (
	"context"
	"time"

	"github.com/h-shvedko/sociallyhub-sub010/internal/db"
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

type Workspace struct {
	ID        string     `db:"id"`
	Name      string     `db:"name"`
	Slug      string     `db:"slug"`
	Plan      string     `db:"plan"`
	CreatedAt *time.Time `db:"created_at"`
}

type Member struct {
	WorkspaceID string `db:"workspace_id"`
	UserID      string `db:"user_id"`
	Name        string `db:"name"`
	Email       string `db:"email"`
	Role        string `db:"role"`
}

type WorkspaceRepository interface {
	Create(ctx context.Context, ws *Workspace) error
	GetBySlug(ctx context.Context, slug string) (*Workspace, error)
	Get(ctx context.Context, id string) (*Workspace, error)
	ListForUser(ctx context.Context, userID string) ([]*Workspace, error)

	AddMember(ctx context.Context, workspaceID, userID, role string) error
	RemoveMember(ctx context.Context, workspaceID, userID string) error
	SetMemberRole(ctx context.Context, workspaceID, userID, role string) error
	GetMember(ctx context.Context, workspaceID, userID string) (*Member, error)
	GetMembers(ctx context.Context, workspaceID string) ([]*Member, error)
	CountOwners(ctx context.Context, workspaceID string) (int, error)
}

type pgxWorkspaceRepository struct {
	pool *pgxpool.Pool
}

func NewPgxWorkspaceRepository(pool *pgxpool.Pool) WorkspaceRepository {
	return &pgxWorkspaceRepository{pool: pool}
}

func (p *pgxWorkspaceRepository) Create(ctx context.Context, ws *Workspace) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("workspace", "id", "name", "slug", "plan"),
		im.Values(psql.Arg(ws.ID), psql.Arg(ws.Name), psql.Arg(ws.Slug), psql.Arg(ws.Plan)),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&ws.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}

	return err
}

func (p *pgxWorkspaceRepository) scanOne(ctx context.Context, e db.Executor, sql string, args []any) (*Workspace, error) {
	ws := &Workspace{}
	if err := e.QueryRow(ctx, sql, args...).Scan(&ws.ID, &ws.Name, &ws.Slug, &ws.Plan, &ws.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ws, nil
}

func (p *pgxWorkspaceRepository) GetBySlug(ctx context.Context, slug string) (*Workspace, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "slug", "plan", "created_at"),
		sm.From("workspace"),
		sm.Where(psql.Quote("slug").EQ(psql.Arg(slug))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	return p.scanOne(ctx, e, sql, args)
}

func (p *pgxWorkspaceRepository) Get(ctx context.Context, id string) (*Workspace, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "name", "slug", "plan", "created_at"),
		sm.From("workspace"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	return p.scanOne(ctx, e, sql, args)
}

func (p *pgxWorkspaceRepository) ListForUser(ctx context.Context, userID string) ([]*Workspace, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("workspace.id", "workspace.name", "workspace.slug", "workspace.plan", "workspace.created_at"),
		sm.From("workspace"),
		sm.InnerJoin("membership").On(psql.Quote("membership", "workspace_id").EQ(psql.Quote("workspace", "id"))),
		sm.Where(psql.Quote("membership", "user_id").EQ(psql.Arg(userID))),
		sm.OrderBy("workspace.name"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Workspace, error) {
		ws := &Workspace{}
		if err = row.Scan(&ws.ID, &ws.Name, &ws.Slug, &ws.Plan, &ws.CreatedAt); err != nil {
			return nil, err
		}
		return ws, nil
	})
}

func (p *pgxWorkspaceRepository) AddMember(ctx context.Context, workspaceID, userID, role string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("membership", "workspace_id", "user_id", "role"),
		im.Values(psql.Arg(workspaceID), psql.Arg(userID), psql.Arg(role)),
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
		case "23503": // user or workspace does not exist
			return ErrNotFound
		}
	}

	return err
}

func (p *pgxWorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("membership"),
		dm.Where(
			psql.Quote("workspace_id").EQ(psql.Arg(workspaceID)).
				And(psql.Quote("user_id").EQ(psql.Arg(userID))),
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

func (p *pgxWorkspaceRepository) SetMemberRole(ctx context.Context, workspaceID, userID, role string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("membership"),
		um.SetCol("role").ToArg(role),
		um.Where(
			psql.Quote("workspace_id").EQ(psql.Arg(workspaceID)).
				And(psql.Quote("user_id").EQ(psql.Arg(userID))),
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

func (p *pgxWorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID string) (*Member, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("membership.workspace_id", "membership.user_id", "users.name", "users.email", "membership.role"),
		sm.From("membership"),
		sm.InnerJoin("users").On(psql.Quote("users", "id").EQ(psql.Quote("membership", "user_id"))),
		sm.Where(
			psql.Quote("membership", "workspace_id").EQ(psql.Arg(workspaceID)).
				And(psql.Quote("membership", "user_id").EQ(psql.Arg(userID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	m := &Member{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&m.WorkspaceID, &m.UserID, &m.Name, &m.Email, &m.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (p *pgxWorkspaceRepository) GetMembers(ctx context.Context, workspaceID string) ([]*Member, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("membership.workspace_id", "membership.user_id", "users.name", "users.email", "membership.role"),
		sm.From("membership"),
		sm.InnerJoin("users").On(psql.Quote("users", "id").EQ(psql.Quote("membership", "user_id"))),
		sm.Where(psql.Quote("membership", "workspace_id").EQ(psql.Arg(workspaceID))),
		sm.OrderBy("users.email"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Member, error) {
		m := &Member{}
		if err = row.Scan(&m.WorkspaceID, &m.UserID, &m.Name, &m.Email, &m.Role); err != nil {
			return nil, err
		}
		return m, nil
	})
}

func (p *pgxWorkspaceRepository) CountOwners(ctx context.Context, workspaceID string) (int, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw("COUNT(*)")),
		sm.From("membership"),
		sm.Where(
			psql.Quote("workspace_id").EQ(psql.Arg(workspaceID)).
				And(psql.Quote("role").EQ(psql.Arg("owner"))),
		),
		sm.ForShare("membership"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return 0, err
	}

	var count int
	if err = e.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
