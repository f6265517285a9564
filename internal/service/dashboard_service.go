package service

import (
	"context"
	"fmt"
	"time"

	"engsite/internal/models"
	"engsite/internal/repository"

	"github.com/dustin/go-humanize"
)

type DashboardService interface {
	GetDashboardData(ctx context.Context) (models.Result[*models.Dashboard], error)
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	now           func() time.Time
}

func NewDashboardService(dashboardRepo repository.DashboardRepository) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *dashboardService) GetDashboardData(ctx context.Context) (models.Result[*models.Dashboard], error) {
	now := s.now()

	dashboard, err := s.dashboardRepo.Summary(ctx, now)
	if err != nil {
		return models.Fail[*models.Dashboard]("Could not load dashboard"), fmt.Errorf("error loading dashboard: %w", err)
	}

	for i := range dashboard.RecentActivity {
		activity := &dashboard.RecentActivity[i]
		if activity.Ago == "" && !activity.At.IsZero() {
			activity.Ago = humanize.RelTime(activity.At.Time, now, "ago", "from now")
		}
	}

	return models.OK("Dashboard loaded", dashboard), nil
}
