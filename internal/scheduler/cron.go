package scheduler

import (
	"context"
	"fmt"

	"github.com/outracoisa/filmoteca/internal/models"
	"github.com/outracoisa/filmoteca/internal/state"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler periodically refreshes the popular listing so the cache does
// not go stale while the daemon is running.
type Scheduler struct {
	cron        *cron.Cron
	movieState  *state.MovieState
	refreshSpec string
	logger      *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(movieState *state.MovieState, refreshSpec string, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		movieState:  movieState,
		refreshSpec: refreshSpec,
		logger:      logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.WithField("spec", s.refreshSpec).Info("Starting scheduler")

	_, err := s.cron.AddFunc(s.refreshSpec, func() {
		s.runRefresh()
	})
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runRefresh executes the periodic popular refresh
func (s *Scheduler) runRefresh() {
	s.logger.Info("Running scheduled refresh")
	s.movieState.Refresh(context.Background(), models.CategoryPopular)

	if snap := s.movieState.Snapshot(); snap.Err != "" {
		s.logger.WithField("error", snap.Err).Error("Scheduled refresh failed")
	} else {
		s.logger.Info("Scheduled refresh completed")
	}
}
