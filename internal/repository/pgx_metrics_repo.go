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
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
)

type MetricSample struct {
	ID          string     `db:"id"`
	PostID      string     `db:"post_id"`
	Impressions int64      `db:"impressions"`
	Clicks      int64      `db:"clicks"`
	Likes       int64      `db:"likes"`
	Shares      int64      `db:"shares"`
	Comments    int64      `db:"comments"`
	CollectedAt *time.Time `db:"collected_at"`
}

type Totals struct {
	Impressions int64 `db:"impressions"`
	Clicks      int64 `db:"clicks"`
	Likes       int64 `db:"likes"`
	Shares      int64 `db:"shares"`
	Comments    int64 `db:"comments"`
}

type TopPost struct {
	PostID      string `db:"post_id"`
	Body        string `db:"body"`
	Impressions int64  `db:"impressions"`
}

type MetricsRepository interface {
	Insert(ctx context.Context, sample *MetricSample) error
	WorkspaceTotals(ctx context.Context, workspaceID string) (*Totals, error)
	CampaignTotals(ctx context.Context, workspaceID, campaignID string) (*Totals, error)
	TopPosts(ctx context.Context, workspaceID string, limit int) ([]*TopPost, error)
}

type pgxMetricsRepository struct {
	pool *pgxpool.Pool
}

func NewPgxMetricsRepository(pool *pgxpool.Pool) MetricsRepository {
	return &pgxMetricsRepository{pool: pool}
}

func (p *pgxMetricsRepository) Insert(ctx context.Context, sample *MetricSample) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("metric_sample", "id", "post_id", "impressions", "clicks", "likes", "shares", "comments"),
		im.Values(psql.Arg(sample.ID), psql.Arg(sample.PostID), psql.Arg(sample.Impressions),
			psql.Arg(sample.Clicks), psql.Arg(sample.Likes), psql.Arg(sample.Shares), psql.Arg(sample.Comments)),
		im.Returning("collected_at"),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	err = e.QueryRow(ctx, sql, args...).Scan(&sample.CollectedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrNotFound
	}
	return err
}

const totalColumns = "COALESCE(SUM(metric_sample.impressions), 0), COALESCE(SUM(metric_sample.clicks), 0), COALESCE(SUM(metric_sample.likes), 0), COALESCE(SUM(metric_sample.shares), 0), COALESCE(SUM(metric_sample.comments), 0)"

func (p *pgxMetricsRepository) scanTotals(ctx context.Context, e db.Executor, sql string, args []any) (*Totals, error) {
	t := &Totals{}
	if err := e.QueryRow(ctx, sql, args...).Scan(&t.Impressions, &t.Clicks, &t.Likes, &t.Shares, &t.Comments); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *pgxMetricsRepository) WorkspaceTotals(ctx context.Context, workspaceID string) (*Totals, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw(totalColumns)),
		sm.From("metric_sample"),
		sm.InnerJoin("post").On(psql.Quote("post", "id").EQ(psql.Quote("metric_sample", "post_id"))),
		sm.Where(psql.Quote("post", "workspace_id").EQ(psql.Arg(workspaceID))),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	return p.scanTotals(ctx, e, sql, args)
}

func (p *pgxMetricsRepository) CampaignTotals(ctx context.Context, workspaceID, campaignID string) (*Totals, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw(totalColumns)),
		sm.From("metric_sample"),
		sm.InnerJoin("post").On(psql.Quote("post", "id").EQ(psql.Quote("metric_sample", "post_id"))),
		sm.Where(
			psql.Quote("post", "workspace_id").EQ(psql.Arg(workspaceID)).
				And(psql.Quote("post", "campaign_id").EQ(psql.Arg(campaignID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	return p.scanTotals(ctx, e, sql, args)
}

func (p *pgxMetricsRepository) TopPosts(ctx context.Context, workspaceID string, limit int) ([]*TopPost, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw("post.id, post.body, COALESCE(SUM(metric_sample.impressions), 0) AS impressions")),
		sm.From("metric_sample"),
		sm.InnerJoin("post").On(psql.Quote("post", "id").EQ(psql.Quote("metric_sample", "post_id"))),
		sm.Where(psql.Quote("post", "workspace_id").EQ(psql.Arg(workspaceID))),
		sm.GroupBy("post.id"),
		sm.OrderBy("impressions").Desc(),
		sm.Limit(limit),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*TopPost, error) {
		tp := &TopPost{}
		if err = row.Scan(&tp.PostID, &tp.Body, &tp.Impressions); err != nil {
			return nil, err
		}
		return tp, nil
	})
}
