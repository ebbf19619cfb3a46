// Package bot serves the cleaning pipeline over Telegram. Users paste text or
// send a document and get the cleaned list back as a message or a file.
package bot

import (
	"context"
	"emailcleaner/internal/cleaner"
	"emailcleaner/internal/config"
	"emailcleaner/internal/worker"
	"emailcleaner/pkg/logger"
	"emailcleaner/pkg/metrics"
	"emailcleaner/pkg/serrors"
	"emailcleaner/pkg/telegram"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// pollBackoff is the pause after a failed getUpdates call.
const pollBackoff = 3 * time.Second

// Options configures the bot.
type Options struct {
	// PollTimeout is the long polling timeout of getUpdates
	PollTimeout time.Duration
	// InlineLimit is the largest number of addresses replied inline
	InlineLimit int
	// MaxFileBytes limits the size of downloaded documents
	MaxFileBytes int64
}

// NewOptions constructs bot Options from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		PollTimeout:  cfg.Bot.PollTimeout,
		InlineLimit:  cfg.Bot.InlineLimit,
		MaxFileBytes: cfg.Bot.MaxFileBytes,
	}
}

// Deps are the collaborators of the bot.
type Deps struct {
	Client  telegram.Client
	Cleaner cleaner.Cleaner
	Metrics *metrics.Recorder
}

// Bot polls Telegram for updates and replies with cleaned lists.
type Bot struct {
	deps Deps
	opts Options
}

// New creates a Bot.
func New(deps Deps, opts Options) *Bot {
	return &Bot{deps: deps, opts: opts}
}

// Run polls for updates until ctx is done, handling them on pool. It waits for
// in-flight updates before returning.
func (b *Bot) Run(ctx context.Context, pool *worker.Pool) error {
	var offset int64
	for ctx.Err() == nil {
		updates, err := b.deps.Client.Updates(ctx, offset, b.opts.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}

			wait := pollBackoff
			var retry worker.RetryAfterError
			if errors.As(err, &retry) && retry.RetryAfter() > 0 {
				wait = retry.RetryAfter()
			}
			if errors.Is(err, serrors.ErrUnauthorized) {
				_ = pool.Wait()

				return fmt.Errorf("could not poll updates: %w", err)
			}
			logger.Warn(ctx, "could not poll updates", zap.Error(err), zap.Duration("retry_in", wait))

			select {
			case <-ctx.Done():
			case <-time.After(wait):
			}

			continue
		}

		for _, u := range updates {
			offset = max(offset, u.ID+1)
			pool.Go("update "+strconv.FormatInt(u.ID, 10), func(ctx context.Context) error {
				return b.HandleUpdate(ctx, u)
			})
		}
	}

	logger.Info(ctx, "Stopped polling, waiting for in-flight updates")
	if err := pool.Wait(); err != nil {
		logger.Warn(ctx, "some updates failed", zap.Int("failed", pool.Failed()), zap.Error(err))
	}

	return nil
}
