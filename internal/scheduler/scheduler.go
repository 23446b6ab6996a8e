// Package scheduler drives periodic batch scraping for every configured
// user.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"jobscout/internal/model"
	"jobscout/internal/scraper"
)

// Target is one user plus their search queries.
type Target struct {
	User   scraper.User
	Search model.SearchConfig
}

// Scheduler wraps robfig/cron and runs the batch on a fixed interval. Users
// are processed strictly sequentially with a politeness delay in between so
// a batch never hammers the sources; one user's failure never aborts the
// batch.
type Scheduler struct {
	cron           *cron.Cron
	runner         *scraper.Runner
	targets        []Target
	interUserDelay time.Duration
	userTimeout    time.Duration
	spec           string
	logger         *slog.Logger
}

// New creates a Scheduler firing every interval.
func New(runner *scraper.Runner, targets []Target, interval, interUserDelay, userTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		runner:         runner,
		targets:        targets,
		interUserDelay: interUserDelay,
		userTimeout:    userTimeout,
		spec:           fmt.Sprintf("@every %s", interval),
		logger:         logger,
	}
}

// Start registers the batch job and starts the cron. One batch runs
// immediately so a fresh deployment does not wait a full interval.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunBatch(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec, "users", len(s.targets))

	go s.RunBatch(ctx)
	return nil
}

// Stop shuts the cron down. Running batches finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

// RunBatch scrapes every target once, sequentially. Each user gets an
// independent deadline; a failed or timed-out user is recorded and the batch
// moves on.
func (s *Scheduler) RunBatch(ctx context.Context) {
	s.logger.Info("batch scrape started", "users", len(s.targets))

	var succeeded, failed int
	for i, t := range s.targets {
		if ctx.Err() != nil {
			s.logger.Info("batch scrape cancelled", "done", i, "total", len(s.targets))
			return
		}
		if i > 0 && !s.pause(ctx, s.interUserDelay) {
			return
		}

		userCtx := ctx
		cancel := context.CancelFunc(func() {})
		if s.userTimeout > 0 {
			userCtx, cancel = context.WithTimeout(ctx, s.userTimeout)
		}
		res := s.runner.Run(userCtx, t.User, t.Search)
		cancel()

		if res.Success {
			succeeded++
		} else {
			failed++
			s.logger.Error("user scrape failed", "user", t.User.ID, "error", res.Error)
		}
	}

	s.logger.Info("batch scrape complete", "succeeded", succeeded, "failed", failed)
}

func (s *Scheduler) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
