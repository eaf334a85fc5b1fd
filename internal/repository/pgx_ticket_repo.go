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

type Ticket struct {
	ID          string               `db:"id"`
	WorkspaceID string               `db:"workspace_id"`
	OpenedBy    string               `db:"opened_by"`
	AssigneeID  *string              `db:"assignee_id"`
	Subject     string               `db:"subject"`
	Body        string               `db:"body"`
	Priority    model.TicketPriority `db:"priority"`
	Status      model.TicketStatus   `db:"status"`
	CreatedAt   *time.Time           `db:"created_at"`
	ResolvedAt  *time.Time           `db:"resolved_at"`
}

type TicketPatch struct {
	ID          string              `db:"id"`
	WorkspaceID string              `db:"workspace_id"`
	AssigneeID  **string            `db:"assignee_id"`
	Status      *model.TicketStatus `db:"status"`
	ResolvedAt  **time.Time         `db:"resolved_at"`
}

type TicketComment struct {
	ID        string     `db:"id"`
	TicketID  string     `db:"ticket_id"`
	AuthorID  string     `db:"author_id"`
	Body      string     `db:"body"`
	CreatedAt *time.Time `db:"created_at"`
}

type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	Get(ctx context.Context, workspaceID, ticketID string) (*Ticket, error)
	List(ctx context.Context, workspaceID string, status model.TicketStatus) ([]*Ticket, error)
	Patch(ctx context.Context, patch *TicketPatch) (*Ticket, error)
	AddComment(ctx context.Context, c *TicketComment) error
	GetComments(ctx context.Context, ticketID string) ([]*TicketComment, error)
}

type pgxTicketRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &pgxTicketRepository{pool: pool}
}

const ticketColumns = "id, workspace_id, opened_by, assignee_id, subject, body, priority, status, created_at, resolved_at"

func scanTicket(row pgx.Row) (*Ticket, error) {
	t := &Ticket{}
	if err := row.Scan(
		&t.ID,
		&t.WorkspaceID,
		&t.OpenedBy,
		&t.AssigneeID,
		&t.Subject,
		&t.Body,
		&t.Priority,
		&t.Status,
		&t.CreatedAt,
		&t.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *pgxTicketRepository) Create(ctx context.Context, t *Ticket) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("ticket", "id", "workspace_id", "opened_by", "subject", "body", "priority", "status"),
		im.Values(psql.Arg(t.ID), psql.Arg(t.WorkspaceID), psql.Arg(t.OpenedBy), psql.Arg(t.Subject),
			psql.Arg(t.Body), psql.Arg(t.Priority), psql.Arg(t.Status)),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&t.CreatedAt)

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

func (p *pgxTicketRepository) Get(ctx context.Context, workspaceID, ticketID string) (*Ticket, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw(ticketColumns)),
		sm.From("ticket"),
		sm.Where(
			psql.Quote("id").EQ(psql.Arg(ticketID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	t, err := scanTicket(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (p *pgxTicketRepository) List(ctx context.Context, workspaceID string, status model.TicketStatus) ([]*Ticket, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(psql.Raw(ticketColumns)),
		sm.From("ticket"),
		sm.Where(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		sm.OrderBy("created_at").Desc(),
	}
	if status != "" {
		mods = append(mods, sm.Where(psql.Quote("status").EQ(psql.Arg(status))))
	}

	q := psql.Select(mods...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Ticket, error) {
		return scanTicket(row)
	})
}

func (p *pgxTicketRepository) Patch(ctx context.Context, patch *TicketPatch) (*Ticket, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 3)
	if patch.AssigneeID != nil {
		sets = append(sets, um.SetCol("assignee_id").ToArg(*patch.AssigneeID))
	}
	if patch.Status != nil {
		sets = append(sets, um.SetCol("status").ToArg(*patch.Status))
	}
	if patch.ResolvedAt != nil {
		sets = append(sets, um.SetCol("resolved_at").ToArg(*patch.ResolvedAt))
	}

	q := psql.Update(
		um.Table("ticket"),
		um.Where(
			psql.Quote("id").EQ(psql.Arg(patch.ID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(patch.WorkspaceID))),
		),
		um.Returning(ticketColumns),
	)

	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	t, err := scanTicket(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (p *pgxTicketRepository) AddComment(ctx context.Context, c *TicketComment) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("ticket_comment", "id", "ticket_id", "author_id", "body"),
		im.Values(psql.Arg(c.ID), psql.Arg(c.TicketID), psql.Arg(c.AuthorID), psql.Arg(c.Body)),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&c.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrNotFound
	}
	return err
}

func (p *pgxTicketRepository) GetComments(ctx context.Context, ticketID string) ([]*TicketComment, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "ticket_id", "author_id", "body", "created_at"),
		sm.From("ticket_comment"),
		sm.Where(psql.Quote("ticket_id").EQ(psql.Arg(ticketID))),
		sm.OrderBy("created_at"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*TicketComment, error) {
		c := &TicketComment{}
		if err = row.Scan(&c.ID, &c.TicketID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		return c, nil
	})
}
