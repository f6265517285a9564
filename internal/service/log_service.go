package service

import (
	"context"
	"fmt"
	"time"

	"engsite/internal/models"
	"engsite/internal/repository"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"
	"github.com/sirupsen/logrus"
)

type LogService interface {
	// SendPageView records a page view. Failures are logged and swallowed.
	SendPageView(ctx context.Context, view models.PageView)
	Prune(ctx context.Context, now time.Time) (int, error)
}

type logService struct {
	pageLogRepo repository.PageLogRepository
	retention   time.Duration
	log         logrus.FieldLogger
}

func NewLogService(pageLogRepo repository.PageLogRepository, retentionDays int, log logrus.FieldLogger) LogService {
	return &logService{
		pageLogRepo: pageLogRepo,
		retention:   time.Duration(retentionDays) * 24 * time.Hour,
		log:         log,
	}
}

func (s *logService) SendPageView(ctx context.Context, view models.PageView) {
	if view.ID == "" {
		view.ID = models.ID(uuid.New().String())
	}
	if view.TimeStamp.IsZero() {
		view.TimeStamp = models.Now()
	}
	if view.UserAgent != "" {
		enrich(&view)
	}

	if err := s.pageLogRepo.Create(ctx, &view); err != nil {
		s.log.WithError(err).WithField("path", view.PathName).Debug("page view not recorded")
	}
}

// Prune removes page views older than the retention window. A zero
// retention keeps everything.
func (s *logService) Prune(ctx context.Context, now time.Time) (int, error) {
	if s.retention <= 0 {
		return 0, nil
	}

	removed, err := s.pageLogRepo.PruneBefore(ctx, now.Add(-s.retention))
	if err != nil {
		return 0, fmt.Errorf("error pruning page logs: %w", err)
	}
	return removed, nil
}

func enrich(view *models.PageView) {
	ua := useragent.Parse(view.UserAgent)

	view.Browser = ua.Name
	view.OS = ua.OS
	if view.Browser == "" {
		view.Browser = "Unknown"
	}
	if view.OS == "" {
		view.OS = "Unknown"
	}

	switch {
	case ua.Mobile:
		view.DeviceType = "mobile"
	case ua.Tablet:
		view.DeviceType = "tablet"
	case ua.Bot:
		view.DeviceType = "bot"
	default:
		view.DeviceType = "desktop"
	}
}
