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
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

type Post struct {
	ID          string           `db:"id"`
	WorkspaceID string           `db:"workspace_id"`
	CampaignID  *string          `db:"campaign_id"`
	AuthorID    string           `db:"author_id"`
	Body        string           `db:"body"`
	Platforms   []string         `db:"platforms"`
	Status      model.PostStatus `db:"status"`
	ScheduledAt *time.Time       `db:"scheduled_at"`
	PublishedAt *time.Time       `db:"published_at"`
	CreatedAt   *time.Time       `db:"created_at"`
}

type PostPatch struct {
	ID          string            `db:"id"`
	WorkspaceID string            `db:"workspace_id"`
	Body        *string           `db:"body"`
	CampaignID  **string          `db:"campaign_id"`
	Status      *model.PostStatus `db:"status"`
	ScheduledAt **time.Time       `db:"scheduled_at"`
	PublishedAt **time.Time       `db:"published_at"`
}

type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	Get(ctx context.Context, workspaceID, postID string) (*Post, error)
	List(ctx context.Context, workspaceID string, status model.PostStatus) ([]*Post, error)
	Patch(ctx context.Context, patch *PostPatch) (*Post, error)
	Delete(ctx context.Context, workspaceID, postID string) error
	GetDue(ctx context.Context, now time.Time, limit int) ([]*Post, error)
}

type pgxPostRepository struct {
	pool *pgxpool.Pool
}

func NewPgxPostRepository(pool *pgxpool.Pool) PostRepository {
	return &pgxPostRepository{pool: pool}
}

const postColumns = "id, workspace_id, campaign_id, author_id, body, platforms, status, scheduled_at, published_at, created_at"

func scanPost(row pgx.Row) (*Post, error) {
	post := &Post{}
	if err := row.Scan(
		&post.ID,
		&post.WorkspaceID,
		&post.CampaignID,
		&post.AuthorID,
		&post.Body,
		&post.Platforms,
		&post.Status,
		&post.ScheduledAt,
		&post.PublishedAt,
		&post.CreatedAt,
	); err != nil {
		return nil, err
	}
	return post, nil
}

func (p *pgxPostRepository) Create(ctx context.Context, post *Post) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("post", "id", "workspace_id", "campaign_id", "author_id", "body", "platforms", "status", "scheduled_at"),
		im.Values(
			psql.Arg(post.ID), psql.Arg(post.WorkspaceID), psql.Arg(post.CampaignID), psql.Arg(post.AuthorID),
			psql.Arg(post.Body), psql.Arg(post.Platforms), psql.Arg(post.Status), psql.Arg(post.ScheduledAt),
		),
		im.Returning("created_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&post.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrAlreadyExists
		case "23503": // workspace, campaign or author does not exist
			return ErrNotFound
		}
	}
	return err
}

func (p *pgxPostRepository) Get(ctx context.Context, workspaceID, postID string) (*Post, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw(postColumns)),
		sm.From("post"),
		sm.Where(
			psql.Quote("id").EQ(psql.Arg(postID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	post, err := scanPost(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return post, err
}

func (p *pgxPostRepository) List(ctx context.Context, workspaceID string, status model.PostStatus) ([]*Post, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(psql.Raw(postColumns)),
		sm.From("post"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Post, error) {
		return scanPost(row)
	})
}

func (p *pgxPostRepository) Patch(ctx context.Context, patch *PostPatch) (*Post, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 5)
	if patch.Body != nil {
		sets = append(sets, um.SetCol("body").ToArg(*patch.Body))
	}
	if patch.CampaignID != nil {
		sets = append(sets, um.SetCol("campaign_id").ToArg(*patch.CampaignID))
	}
	if patch.Status != nil {
		sets = append(sets, um.SetCol("status").ToArg(*patch.Status))
	}
	if patch.ScheduledAt != nil {
		sets = append(sets, um.SetCol("scheduled_at").ToArg(*patch.ScheduledAt))
	}
	if patch.PublishedAt != nil {
		sets = append(sets, um.SetCol("published_at").ToArg(*patch.PublishedAt))
	}

	q := psql.Update(
		um.Table("post"),
		um.Where(
			psql.Quote("id").EQ(psql.Arg(patch.ID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(patch.WorkspaceID))),
		),
		um.Returning(postColumns),
	)

	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	post, err := scanPost(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return post, err
}

func (p *pgxPostRepository) Delete(ctx context.Context, workspaceID, postID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("post"),
		dm.Where(
			psql.Quote("id").EQ(psql.Arg(postID)).
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

// GetDue claims scheduled posts that are due; SKIP LOCKED keeps concurrent
// publisher sweeps from claiming the same rows.
func (p *pgxPostRepository) GetDue(ctx context.Context, now time.Time, limit int) ([]*Post, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw(postColumns)),
		sm.From("post"),
		sm.Where(
			psql.Quote("status").EQ(psql.Arg(model.PostStatusScheduled)).
				And(psql.Quote("scheduled_at").LTE(psql.Arg(now))),
		),
		sm.OrderBy("scheduled_at"),
		sm.Limit(limit),
		sm.ForUpdate("post").SkipLocked(),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Post, error) {
		return scanPost(row)
	})
}
