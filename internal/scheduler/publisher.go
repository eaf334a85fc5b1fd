package scheduler

import (
	"context"
	"time"

	"github.com/h-shvedko/sociallyhub-sub010/internal/db"
	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"go.uber.org/zap"
)

// Publisher periodically claims due scheduled posts and flips them to
// published. Claiming happens inside a transaction with row locks, so
// several instances can run side by side without double-publishing.
type Publisher struct {
	tx    db.Transactor
	posts repository.PostRepository
	log   *zap.Logger

	interval time.Duration
	batch    int

	now func() time.Time
}

func NewPublisher(tx db.Transactor, posts repository.PostRepository, log *zap.Logger, interval time.Duration, batch int) *Publisher {
	return &Publisher{
		tx:       tx,
		posts:    posts,
		log:      log,
		interval: interval,
		batch:    batch,
		now:      time.Now,
	}
}

// Run blocks until the context is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Info("publisher started",
		zap.Duration("interval", p.interval),
		zap.Int("batch", p.batch))

	for {
		select {
		case <-ctx.Done():
			p.log.Info("publisher stopped")
			return
		case <-ticker.C:
			published, err := p.Sweep(ctx)
			if err != nil {
				p.log.Error("publish sweep failed", zap.Error(err))
				continue
			}
			if published > 0 {
				p.log.Info("published due posts", zap.Int("count", published))
			}
		}
	}
}

// Sweep publishes one batch of due posts and reports how many went out.
func (p *Publisher) Sweep(ctx context.Context) (int, error) {
	published := 0

	err := p.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		due, err := p.posts.GetDue(txCtx, p.now(), p.batch)
		if err != nil {
			return err
		}

		for _, post := range due {
			if err := p.publish(txCtx, post); err != nil {
				p.log.Error("failed to publish post",
					zap.String("post_id", post.ID),
					zap.Error(err))
				if err := p.fail(txCtx, post); err != nil {
					p.log.Error("failed to mark post failed",
						zap.String("post_id", post.ID),
						zap.Error(err))
				}
				continue
			}
			published++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return published, nil
}

func (p *Publisher) publish(ctx context.Context, post *repository.Post) error {
	now := p.now()
	status := model.PostStatusPublished
	publishedAt := &now

	_, err := p.posts.Patch(ctx, &repository.PostPatch{
		ID:          post.ID,
		WorkspaceID: post.WorkspaceID,
		Status:      &status,
		PublishedAt: &publishedAt,
	})
	return err
}

// fail takes the post out of the scheduled state so later sweeps do not
// claim it again.
func (p *Publisher) fail(ctx context.Context, post *repository.Post) error {
	status := model.PostStatusFailed

	_, err := p.posts.Patch(ctx, &repository.PostPatch{
		ID:          post.ID,
		WorkspaceID: post.WorkspaceID,
		Status:      &status,
	})
	return err
}

// WithNow overrides the clock, used in tests.
func (p *Publisher) WithNow(now func() time.Time) *Publisher {
	p.now = now
	return p
}
