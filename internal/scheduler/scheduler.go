package scheduler

import (
	"context"
	"time"

	"engsite/internal/metrics"
	"engsite/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// VisitorCleaner forgets idle rate limiter entries.
type VisitorCleaner interface {
	Cleanup(maxIdle time.Duration) int
}

// Scheduler runs the housekeeping jobs of the site.
type Scheduler struct {
	cron          *cron.Cron
	pruneSchedule string
	logs          service.LogService
	visitors      VisitorCleaner
	metrics       *metrics.Metrics
	log           logrus.FieldLogger
	now           func() time.Time
}

func New(pruneSchedule string, logs service.LogService, visitors VisitorCleaner, m *metrics.Metrics, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		pruneSchedule: pruneSchedule,
		logs:          logs,
		visitors:      visitors,
		metrics:       m,
		log:           log.WithField("component", "scheduler"),
		now:           time.Now,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.pruneSchedule, s.PrunePageViews); err != nil {
		return err
	}

	if s.visitors != nil {
		if _, err := s.cron.AddFunc("@every 10m", s.CleanupVisitors); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.log.WithField("jobs", len(s.cron.Entries())).Info("scheduler started")
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) PrunePageViews() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := s.logs.Prune(ctx, s.now())
	if err != nil {
		s.log.WithError(err).Error("page view pruning failed")
		return
	}

	s.metrics.PrunedPageViews(removed)
	if removed > 0 {
		s.log.WithField("removed", removed).Info("pruned old page views")
	}
}

func (s *Scheduler) CleanupVisitors() {
	if removed := s.visitors.Cleanup(30 * time.Minute); removed > 0 {
		s.log.WithField("removed", removed).Debug("forgot idle visitors")
	}
}
