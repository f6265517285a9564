package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"engsite/internal/apiclient"
	"engsite/internal/models"
)

const recentActivityLimit = 5

// LocalDashboardRepository aggregates the local collections.
type LocalDashboardRepository struct {
	posts       *LocalPostRepository
	subscribers *LocalSubscriberRepository
	contacts    *LocalSiteContactRepository
	pageLogs    *LocalPageLogRepository
}

func (r *LocalDashboardRepository) Summary(ctx context.Context, now time.Time) (*models.Dashboard, error) {
	posts, err := r.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	subscribers, err := r.subscribers.List(ctx)
	if err != nil {
		return nil, err
	}
	contacts, err := r.contacts.List(ctx)
	if err != nil {
		return nil, err
	}
	views, err := r.pageLogs.List(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{
		TotalPosts:     len(posts),
		Subscribers:    len(subscribers),
		SiteContacts:   len(contacts),
		RecentActivity: []models.Activity{},
	}

	var activity []models.Activity

	for _, post := range posts {
		if post.Published {
			dashboard.PublishedPosts++
		}
		activity = append(activity, models.Activity{
			Kind:        "post",
			Description: fmt.Sprintf("Post %q saved", post.Title),
			At:          lastChange(post.CreatedAt, post.UpdatedAt),
		})
	}
	dashboard.DraftPosts = dashboard.TotalPosts - dashboard.PublishedPosts

	for _, s := range subscribers {
		activity = append(activity, models.Activity{
			Kind:        "subscriber",
			Description: fmt.Sprintf("%s subscribed to the newsletter", s.Email),
			At:          s.CreatedAt,
		})
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, c := range contacts {
		if !c.CreatedAt.Before(monthStart) {
			dashboard.ContactsThisMonth++
		}
		activity = append(activity, models.Activity{
			Kind:        "contact",
			Description: fmt.Sprintf("New message from %s", c.Name),
			At:          c.CreatedAt,
		})
	}

	since := now.AddDate(0, 0, -30)
	for _, v := range views {
		if !v.TimeStamp.Before(since) {
			dashboard.PageViews30d++
		}
	}

	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].At.After(activity[j].At.Time)
	})
	if len(activity) > recentActivityLimit {
		activity = activity[:recentActivityLimit]
	}
	dashboard.RecentActivity = append(dashboard.RecentActivity, activity...)

	return dashboard, nil
}

func lastChange(created, updated models.Timestamp) models.Timestamp {
	if updated.After(created.Time) {
		return updated
	}
	return created
}

type RemoteDashboardRepository struct {
	api API
}

func (r *RemoteDashboardRepository) Summary(ctx context.Context, _ time.Time) (*models.Dashboard, error) {
	env, err := r.api.Get(ctx, "/dashboard")
	if err != nil {
		return nil, remoteError(err)
	}

	dashboard := &models.Dashboard{RecentActivity: []models.Activity{}}
	if err := env.Decode(dashboard, "dashboard"); err != nil && !errors.Is(err, apiclient.ErrNoPayload) {
		return nil, err
	}
	if dashboard.RecentActivity == nil {
		dashboard.RecentActivity = []models.Activity{}
	}
	return dashboard, nil
}
