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

type Client struct {
	ID           string `db:"id"`
	WorkspaceID  string `db:"workspace_id"`
	Name         string `db:"name"`
	ContactEmail string `db:"contact_email"`
	Notes        string `db:"notes"`
}

type Campaign struct {
	ID          string               `db:"id"`
	WorkspaceID string               `db:"workspace_id"`
	ClientID    *string              `db:"client_id"`
	Name        string               `db:"name"`
	Status      model.CampaignStatus `db:"status"`
	StartsAt    *time.Time           `db:"starts_at"`
	EndsAt      *time.Time           `db:"ends_at"`
}

type CampaignPatch struct {
	ID          string                `db:"id"`
	WorkspaceID string                `db:"workspace_id"`
	Name        *string               `db:"name"`
	ClientID    **string              `db:"client_id"`
	Status      *model.CampaignStatus `db:"status"`
	StartsAt    **time.Time           `db:"starts_at"`
	EndsAt      **time.Time           `db:"ends_at"`
}

type CampaignRepository interface {
	CreateClient(ctx context.Context, client *Client) error
	GetClient(ctx context.Context, workspaceID, clientID string) (*Client, error)
	ListClients(ctx context.Context, workspaceID string) ([]*Client, error)
	UpdateClient(ctx context.Context, client *Client) error
	DeleteClient(ctx context.Context, workspaceID, clientID string) error
	DetachClient(ctx context.Context, workspaceID, clientID string) error

	Create(ctx context.Context, c *Campaign) error
	Get(ctx context.Context, workspaceID, campaignID string) (*Campaign, error)
	List(ctx context.Context, workspaceID string, clientID *string) ([]*Campaign, error)
	Patch(ctx context.Context, patch *CampaignPatch) (*Campaign, error)
	Delete(ctx context.Context, workspaceID, campaignID string) error
}

type pgxCampaignRepository struct {
	pool *pgxpool.Pool
}

func NewPgxCampaignRepository(pool *pgxpool.Pool) CampaignRepository {
	return &pgxCampaignRepository{pool: pool}
}

func (p *pgxCampaignRepository) CreateClient(ctx context.Context, client *Client) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("client", "id", "workspace_id", "name", "contact_email", "notes"),
		im.Values(psql.Arg(client.ID), psql.Arg(client.WorkspaceID), psql.Arg(client.Name),
			psql.Arg(client.ContactEmail), psql.Arg(client.Notes)),
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

func (p *pgxCampaignRepository) GetClient(ctx context.Context, workspaceID, clientID string) (*Client, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "workspace_id", "name", "contact_email", "notes"),
		sm.From("client"),
		sm.Where(
			psql.Quote("id").EQ(psql.Arg(clientID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	c := &Client{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.WorkspaceID, &c.Name, &c.ContactEmail, &c.Notes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (p *pgxCampaignRepository) ListClients(ctx context.Context, workspaceID string) ([]*Client, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns("id", "workspace_id", "name", "contact_email", "notes"),
		sm.From("client"),
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Client, error) {
		c := &Client{}
		if err = row.Scan(&c.ID, &c.WorkspaceID, &c.Name, &c.ContactEmail, &c.Notes); err != nil {
			return nil, err
		}
		return c, nil
	})
}

func (p *pgxCampaignRepository) UpdateClient(ctx context.Context, client *Client) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("client"),
		um.SetCol("name").ToArg(client.Name),
		um.SetCol("contact_email").ToArg(client.ContactEmail),
		um.SetCol("notes").ToArg(client.Notes),
		um.Where(
			psql.Quote("id").EQ(psql.Arg(client.ID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(client.WorkspaceID))),
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

func (p *pgxCampaignRepository) DeleteClient(ctx context.Context, workspaceID, clientID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("client"),
		dm.Where(
			psql.Quote("id").EQ(psql.Arg(clientID)).
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

// DetachClient nulls campaign.client_id before the client row goes away.
func (p *pgxCampaignRepository) DetachClient(ctx context.Context, workspaceID, clientID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Update(
		um.Table("campaign"),
		um.SetCol("client_id").ToArg(nil),
		um.Where(
			psql.Quote("client_id").EQ(psql.Arg(clientID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return err
	}

	_, err = e.Exec(ctx, sql, args...)
	return err
}

const campaignColumns = "id, workspace_id, client_id, name, status, starts_at, ends_at"

func scanCampaign(row pgx.Row) (*Campaign, error) {
	c := &Campaign{}
	if err := row.Scan(&c.ID, &c.WorkspaceID, &c.ClientID, &c.Name, &c.Status, &c.StartsAt, &c.EndsAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *pgxCampaignRepository) Create(ctx context.Context, c *Campaign) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Insert(
		im.Into("campaign", "id", "workspace_id", "client_id", "name", "status", "starts_at", "ends_at"),
		im.Values(psql.Arg(c.ID), psql.Arg(c.WorkspaceID), psql.Arg(c.ClientID), psql.Arg(c.Name),
			psql.Arg(c.Status), psql.Arg(c.StartsAt), psql.Arg(c.EndsAt)),
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
		case "23503": // workspace or client does not exist
			return ErrNotFound
		}
	}
	return err
}

func (p *pgxCampaignRepository) Get(ctx context.Context, workspaceID, campaignID string) (*Campaign, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Select(
		sm.Columns(psql.Raw(campaignColumns)),
		sm.From("campaign"),
		sm.Where(
			psql.Quote("id").EQ(psql.Arg(campaignID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		),
	)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	c, err := scanCampaign(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (p *pgxCampaignRepository) List(ctx context.Context, workspaceID string, clientID *string) ([]*Campaign, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(psql.Raw(campaignColumns)),
		sm.From("campaign"),
		sm.Where(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		sm.OrderBy("name"),
	}
	if clientID != nil {
		mods = append(mods, sm.Where(psql.Quote("client_id").EQ(psql.Arg(*clientID))))
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

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Campaign, error) {
		return scanCampaign(row)
	})
}

func (p *pgxCampaignRepository) Patch(ctx context.Context, patch *CampaignPatch) (*Campaign, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sets := make([]bob.Mod[*dialect.UpdateQuery], 0, 5)
	if patch.Name != nil {
		sets = append(sets, um.SetCol("name").ToArg(*patch.Name))
	}
	if patch.ClientID != nil {
		sets = append(sets, um.SetCol("client_id").ToArg(*patch.ClientID))
	}
	if patch.Status != nil {
		sets = append(sets, um.SetCol("status").ToArg(*patch.Status))
	}
	if patch.StartsAt != nil {
		sets = append(sets, um.SetCol("starts_at").ToArg(*patch.StartsAt))
	}
	if patch.EndsAt != nil {
		sets = append(sets, um.SetCol("ends_at").ToArg(*patch.EndsAt))
	}

	q := psql.Update(
		um.Table("campaign"),
		um.Where(
			psql.Quote("id").EQ(psql.Arg(patch.ID)).
				And(psql.Quote("workspace_id").EQ(psql.Arg(patch.WorkspaceID))),
		),
		um.Returning(campaignColumns),
	)

	q.Apply(sets...)

	sql, args, err := q.Build(ctx)
	if err != nil {
		return nil, err
	}

	c, err := scanCampaign(e.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (p *pgxCampaignRepository) Delete(ctx context.Context, workspaceID, campaignID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	q := psql.Delete(
		dm.From("campaign"),
		dm.Where(
			psql.Quote("id").EQ(psql.Arg(campaignID)).
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
