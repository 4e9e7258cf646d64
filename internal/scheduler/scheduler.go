package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/reflaxess123/cardflow/internal/logger"
	"github.com/reflaxess123/cardflow/internal/repository"
)

const jobTimeout = 30 * time.Second

// Scheduler runs periodic maintenance: an hourly due-backlog gauge and a
// daily prune of old review history.
type Scheduler struct {
	scheduler *gocron.Scheduler
	progress  repository.ProgressRepository
	retention time.Duration
	log       *logger.Logger
}

// New creates a Scheduler. A non-positive retention disables history pruning.
func New(progress repository.ProgressRepository, historyRetentionDays int) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		progress:  progress,
		retention: time.Duration(historyRetentionDays) * 24 * time.Hour,
		log:       logger.Default().WithPrefix("scheduler"),
	}
}

// Start registers the jobs and runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.logDueBacklog)
	if s.retention > 0 {
		s.scheduler.Every(1).Day().At("03:30").Do(s.pruneHistory)
	}
	s.scheduler.StartAsync()
	s.log.Info("maintenance scheduler started")
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("maintenance scheduler stopped")
}

func (s *Scheduler) logDueBacklog() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	count, err := s.progress.CountDue(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error("failed to count due cards: %v", err)
		return
	}
	s.log.Info("due-card backlog: %d", count)
}

func (s *Scheduler) pruneHistory() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cutoff := time.Now().UTC().Add(-s.retention)
	pruned, err := s.progress.PruneHistory(ctx, cutoff)
	if err != nil {
		s.log.Error("failed to prune review history: %v", err)
		return
	}
	if pruned > 0 {
		s.log.Info("pruned %d review history rows older than %s", pruned, cutoff.Format("2006-01-02"))
	}
}
