package repository

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"engsite/internal/apiclient"
	"engsite/internal/models"
)

type LocalSubscriberRepository struct {
	items *collection[models.Subscriber]
}

func (r *LocalSubscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) (*models.Subscriber, error) {
	r.items.mu.Lock()
	defer r.items.mu.Unlock()

	subscribers, err := r.items.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range subscribers {
		if strings.EqualFold(strings.TrimSpace(subscribers[i].Email), subscriber.Email) {
			return &subscribers[i], nil
		}
	}

	subscribers = append(subscribers, *subscriber)
	if err := r.items.store(ctx, subscribers); err != nil {
		return nil, err
	}

	created := *subscriber
	return &created, nil
}

func (r *LocalSubscriberRepository) List(ctx context.Context) ([]models.Subscriber, error) {
	return r.items.load(ctx)
}

func (r *LocalSubscriberRepository) DeleteByEmail(ctx context.Context, email string) error {
	r.items.mu.Lock()
	defer r.items.mu.Unlock()

	subscribers, err := r.items.load(ctx)
	if err != nil {
		return err
	}

	kept := subscribers[:0]
	for _, s := range subscribers {
		if !strings.EqualFold(strings.TrimSpace(s.Email), email) {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(subscribers) {
		return nil
	}

	return r.items.store(ctx, kept)
}

type RemoteSubscriberRepository struct {
	api API
}

func (r *RemoteSubscriberRepository) Create(ctx context.Context, subscriber *models.Subscriber) (*models.Subscriber, error) {
	env, err := r.api.Post(ctx, "/subscribe", map[string]string{"email": subscriber.Email})
	if err != nil {
		return nil, remoteError(err)
	}

	var created models.Subscriber
	err = env.Decode(&created, "subscriber")
	if errors.Is(err, apiclient.ErrNoPayload) {
		copied := *subscriber
		return &copied, nil
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *RemoteSubscriberRepository) List(ctx context.Context) ([]models.Subscriber, error) {
	env, err := r.api.Get(ctx, "/subscribers")
	if err != nil {
		return nil, remoteError(err)
	}

	subscribers := []models.Subscriber{}
	if err := env.Decode(&subscribers, "subscribers"); err != nil && !errors.Is(err, apiclient.ErrNoPayload) {
		return nil, err
	}
	return subscribers, nil
}

func (r *RemoteSubscriberRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.api.Delete(ctx, "/subscribe/"+url.PathEscape(email))
	if err = remoteError(err); errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
