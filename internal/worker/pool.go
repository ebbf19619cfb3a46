// Package worker runs tasks with bounded concurrency. Tasks rejected by a
// rate limited upstream are snoozed for the requested duration and retried.
package worker

import (
	"context"
	"emailcleaner/internal/config"
	"emailcleaner/pkg/logger"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSnooze is used when a rate limited task does not say how long to wait.
	DefaultSnooze = time.Second
	// MaxKeptErrors bounds the task errors a Pool keeps for Wait. Later failures are
	// only counted; each one is still logged when it happens.
	MaxKeptErrors = 16
)

// Task is a unit of work.
type Task func(ctx context.Context) error

// RetryAfterError is implemented by errors that ask the caller to retry later.
type RetryAfterError interface {
	error
	RetryAfter() time.Duration
}

// Options configures a Pool.
type Options struct {
	// Workers is the maximum number of tasks running at once
	Workers int
	// MaxRetries is how often a snoozed task is retried before it fails
	MaxRetries int
}

// NewOptions constructs pool Options from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Workers:    cfg.Bot.Workers,
		MaxRetries: cfg.Bot.MaxRetries,
	}
}

// Pool runs tasks on at most Options.Workers goroutines. A failing task does
// not cancel the others; failures are logged and returned from Wait.
type Pool struct {
	ctx  context.Context
	opts Options
	g    errgroup.Group

	mu     sync.Mutex
	errs   []error
	failed int
}

// New creates a Pool whose tasks run with ctx.
func New(ctx context.Context, opts Options) *Pool {
	p := &Pool{ctx: ctx, opts: opts}
	p.g.SetLimit(max(1, opts.Workers))

	return p
}

// Go schedules task, blocking while all workers are busy.
func (p *Pool) Go(name string, task Task) {
	p.g.Go(func() error {
		if err := p.run(name, task); err != nil {
			logger.Error(p.ctx, "task failed", zap.String("task", name), zap.Error(err))

			p.mu.Lock()
			p.failed++
			if len(p.errs) < MaxKeptErrors {
				p.errs = append(p.errs, err)
			}
			p.mu.Unlock()
		}

		return nil
	})
}

// Wait blocks until all scheduled tasks are done and returns the first
// MaxKeptErrors task errors joined, plus a count of the ones left out.
func (p *Pool) Wait() error {
	_ = p.g.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	errs := p.errs
	if dropped := p.failed - len(p.errs); dropped > 0 {
		errs = append(slices.Clip(errs), fmt.Errorf("%d more task failures", dropped))
	}

	return errors.Join(errs...)
}

// Failed returns how many tasks have failed so far.
func (p *Pool) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.failed
}

func (p *Pool) run(name string, task Task) error {
	for attempt := 0; ; attempt++ {
		err := task(p.ctx)
		if err == nil {
			return nil
		}

		var retry RetryAfterError
		if !errors.As(err, &retry) || attempt >= p.opts.MaxRetries {
			return err
		}

		wait := retry.RetryAfter()
		if wait <= 0 {
			wait = DefaultSnooze
		}
		logger.Warn(p.ctx, "task snoozed",
			zap.String("task", name),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-p.ctx.Done():
			timer.Stop()

			return errors.Join(err, p.ctx.Err())
		case <-timer.C:
		}
	}
}
