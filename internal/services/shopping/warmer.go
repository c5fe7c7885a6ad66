package shopping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/HammerMeetNail/giftmatch/internal/logging"
)

// WarmerOptions controls one warming cycle.
type WarmerOptions struct {
	Spec    string // cron spec, e.g. "@every 30m"
	Top     int
	Limit   int
	Tries   int
	Backoff time.Duration
}

// Warmer periodically refreshes cached results for the most requested
// queries. Retries live here, never on the request path.
type Warmer struct {
	cache *CachedSearcher
	cron  *cron.Cron
	opts  WarmerOptions
	sleep func(ctx context.Context, d time.Duration) error
}

func NewWarmer(cache *CachedSearcher, opts WarmerOptions) *Warmer {
	if opts.Tries < 1 {
		opts.Tries = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 20
	}
	return &Warmer{
		cache: cache,
		cron:  cron.New(),
		opts:  opts,
		sleep: sleepContext,
	}
}

// Start registers the job and starts the scheduler.
func (w *Warmer) Start(ctx context.Context) error {
	if w.opts.Spec == "" {
		return nil
	}
	if _, err := w.cron.AddFunc(w.opts.Spec, func() {
		if _, err := w.RunOnce(ctx); err != nil {
			logging.Warn("Shopping cache warm cycle failed", logging.Fields{"error": err.Error()})
		}
	}); err != nil {
		return fmt.Errorf("scheduling cache warmer: %w", err)
	}
	w.cron.Start()
	logging.Info("Shopping cache warmer started", logging.Fields{"spec": w.opts.Spec})
	return nil
}

// Stop halts the scheduler and waits for a running cycle.
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
}

// RunOnce refreshes the top queries and returns how many succeeded. Quota and
// configuration errors end the cycle early.
func (w *Warmer) RunOnce(ctx context.Context) (int, error) {
	queries, err := w.cache.PopularQueries(ctx, w.opts.Top)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, q := range queries {
		err := w.refreshWithRetry(ctx, q)
		switch {
		case err == nil:
			refreshed++
		case errors.Is(err, ErrQuotaExceeded), errors.Is(err, ErrNotConfigured), ctx.Err() != nil:
			return refreshed, err
		default:
			logging.Warn("Failed to warm query", logging.Fields{"query": q, "error": err.Error()})
		}
	}
	logging.Info("Shopping cache warm cycle complete", logging.Fields{
		"queries":   len(queries),
		"refreshed": refreshed,
	})
	return refreshed, nil
}

func (w *Warmer) refreshWithRetry(ctx context.Context, query string) error {
	delay := w.opts.Backoff
	var lastErr error
	for attempt := 1; attempt <= w.opts.Tries; attempt++ {
		lastErr = w.cache.Refresh(ctx, query, w.opts.Limit)
		if lastErr == nil || errors.Is(lastErr, ErrQuotaExceeded) || errors.Is(lastErr, ErrNotConfigured) {
			return lastErr
		}
		if attempt == w.opts.Tries {
			break
		}
		if err := w.sleep(ctx, delay); err != nil {
			return err
		}
		delay *= 2
	}
	return fmt.Errorf("warming %q after %d attempts: %w", query, w.opts.Tries, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
