package emergency

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultRescanInterval is how often the rescanner sweeps and re-matches
// when no interval is configured.
const DefaultRescanInterval = 5 * time.Minute

// Rescanner periodically expires overdue requests and re-runs the matcher
// over everything still pending. Start and Stop bound its lifecycle.
type Rescanner struct {
	repo     Repository
	matcher  *Matcher
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

func NewRescanner(repo Repository, matcher *Matcher, interval time.Duration, logger zerolog.Logger) *Rescanner {
	if interval <= 0 {
		interval = DefaultRescanInterval
	}
	return &Rescanner{
		repo:     repo,
		matcher:  matcher,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the rescanner clock.
func (r *Rescanner) SetClock(now func() time.Time) {
	r.now = now
}

// Start launches the rescan loop. Calling Start on a running rescanner is
// a no-op.
func (r *Rescanner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				if _, err := r.Tick(context.Background()); err != nil {
					r.logger.Error().Err(err).Msg("rescan tick aborted")
				}
			}
		}
	}()
	r.logger.Info().Dur("interval", r.interval).Msg("emergency rescanner started")
}

// Stop halts the loop and waits for the in-flight tick to finish.
func (r *Rescanner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stop)
	done := r.done
	r.mu.Unlock()

	<-done
	r.logger.Info().Msg("emergency rescanner stopped")
}

// Tick runs one sweep: expire overdue requests, then re-match everything
// still pending. A store failure aborts the tick; per-request matching
// failures are logged and the sweep continues. It returns the number of
// requests processed.
func (r *Rescanner) Tick(ctx context.Context) (int, error) {
	now := r.now()

	expired, err := r.repo.ExpireOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		r.logger.Info().Int("expired", expired).Msg("overdue emergency requests declined")
	}

	reqs, err := r.repo.ListMatchable(ctx, now)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, req := range reqs {
		if _, err := r.matcher.ProcessRequest(ctx, req); err != nil {
			r.logger.Error().Err(err).Str("request_id", req.ID.String()).Msg("rescan matching failed")
			continue
		}
		processed++
	}
	if processed > 0 {
		r.logger.Info().Int("processed", processed).Msg("rescan sweep finished")
	}
	return processed, nil
}
