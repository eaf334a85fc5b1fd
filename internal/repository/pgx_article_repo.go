package repository

import (
	"context"
	"time"

	"github.com/h-shvedko/sociallyhub-sub010/internal/db"
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

type Article struct {
	ID           string     `db:"id"`
	Slug         string     `db:"slug"`
	Category     string     `db:"category"`
	Title        string     `db:"title"`
	BodyMarkdown string     `db:"body_markdown"`
	Published    bool       `db:"published"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

type ArticleRepository interface {
	Create(ctx context.Context, a *Article) error
	GetBySlug(ctx context.Context, slug string) (*Article, error)
	List(ctx context.Context, category string, publishedOnly bool) ([]*Article, error)
	Update(ctx context.Context, a *Article) error
	SetPublished(ctx context.Context, slug string, published bool) error
	Delete(ctx context.Context, slug string) error
}

type pgxArticleRepository struct {
	pool *pgxpool.Pool
}

func NewPgxArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &pgxArticleRepository{pool: pool}
}

const articleColumns = "id, slug, category, title, body_markdown, published, updated_at"

func scanArticle(row pgx.Row) (*Article, error) {
	a := &Article{}
	if err := row.Scan(&a.ID, &a.Slug, &a.Category, &a.Title, &a.BodyMarkdown, &a.Published, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (p *pgxArticleRepository) Create(ctx context.Context, a *Article) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("article", "id", "slug", "category", "title", "body_markdown", "published"),
		im.Values(psql.Arg(a.ID), psql.Arg(a.Slug), psql.Arg(a.Category), psql.Arg(a.Title),
			psql.Arg(a.BodyMarkdown), psql.Arg(a.Published)),
		im.Returning("updated_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&a.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	return err
}

func (p *pgxArticleRepository) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw(articleColumns)),
		sm.From("article"),
		sm.Where(psql.Quote("slug").EQ(psql.Arg(slug))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	a, err := scanArticle(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (p *pgxArticleRepository) List(ctx context.Context, category string, publishedOnly bool) ([]*Article, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(psql.Raw(articleColumns)),
		sm.From("article"),
		sm.OrderBy("category"),
		sm.OrderBy("title"),
	}
	if category != "" {
		mods = append(mods, sm.Where(psql.Quote("category").EQ(psql.Arg(category))))
	}
	if publishedOnly {
		mods = append(mods, sm.Where(psql.Quote("published").EQ(psql.Arg(true))))
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Article, error) {
		return scanArticle(row)
	})
}

func (p *pgxArticleRepository) Update(ctx context.Context, a *Article) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("article"),
		um.SetCol("category").ToArg(a.Category),
		um.SetCol("title").ToArg(a.Title),
		um.SetCol("body_markdown").ToArg(a.BodyMarkdown),
		um.SetCol("updated_at").To(psql.Raw("NOW()")),
		um.Where(psql.Quote("slug").EQ(psql.Arg(a.Slug))),
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

func (p *pgxArticleRepository) SetPublished(ctx context.Context, slug string, published bool) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("article"),
		um.SetCol("published").ToArg(published),
		um.SetCol("updated_at").To(psql.Raw("NOW()")),
		um.Where(psql.Quote("slug").EQ(psql.Arg(slug))),
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

func (p *pgxArticleRepository) Delete(ctx context.Context, slug string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("article"),
		dm.Where(psql.Quote("slug").EQ(psql.Arg(slug))),
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
