package repository

import (
	"context"
	"time"

	"engsite/internal/models"
)

type LocalPageLogRepository struct {
	items *collection[models.PageView]
}

func (r *LocalPageLogRepository) Create(ctx context.Context, view *models.PageView) error {
	r.items.mu.Lock()
	defer r.items.mu.Unlock()

	views, err := r.items.load(ctx)
	if err != nil {
		return err
	}

	return r.items.store(ctx, append(views, *view))
}

// List returns every stored view. The local dashboard counts from it.
func (r *LocalPageLogRepository) List(ctx context.Context) ([]models.PageView, error) {
	return r.items.load(ctx)
}

// PruneBefore drops views recorded before cutoff and reports how many went.
func (r *LocalPageLogRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.items.mu.Lock()
	defer r.items.mu.Unlock()

	views, err := r.items.load(ctx)
	if err != nil {
		return 0, err
	}

	kept := views[:0]
	for _, view := range views {
		if view.TimeStamp.IsZero() || !view.TimeStamp.Before(cutoff) {
			kept = append(kept, view)
		}
	}

	removed := len(views) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	return removed, r.items.store(ctx, kept)
}

type RemotePageLogRepository struct {
	api API
}

func (r *RemotePageLogRepository) Create(ctx context.Context, view *models.PageView) error {
	_, err := r.api.Post(ctx, "/pagelog", view)
	return remoteError(err)
}

// PruneBefore is a no-op: the upstream owns retention of its page logs.
func (r *RemotePageLogRepository) PruneBefore(context.Context, time.Time) (int, error) {
	return 0, nil
}
