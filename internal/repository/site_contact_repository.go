package repository

import (
	"context"
	"errors"

	"engsite/internal/apiclient"
	"engsite/internal/models"
)

type LocalSiteContactRepository struct {
	items *collection[models.SiteContact]
}

func (r *LocalSiteContactRepository) Create(ctx context.Context, contact *models.SiteContact) (*models.SiteContact, error) {
	r.items.mu.Lock()
	defer r.items.mu.Unlock()

	contacts, err := r.items.load(ctx)
	if err != nil {
		return nil, err
	}

	contacts = append(contacts, *contact)
	if err := r.items.store(ctx, contacts); err != nil {
		return nil, err
	}

	created := *contact
	return &created, nil
}

func (r *LocalSiteContactRepository) List(ctx context.Context) ([]models.SiteContact, error) {
	return r.items.load(ctx)
}

type RemoteSiteContactRepository struct {
	api API
}

func (r *RemoteSiteContactRepository) Create(ctx context.Context, contact *models.SiteContact) (*models.SiteContact, error) {
	env, err := r.api.Post(ctx, "/site-contact", contact)
	if err != nil {
		return nil, remoteError(err)
	}

	var created models.SiteContact
	err = env.Decode(&created, "siteContact", "siteContacts")
	if errors.Is(err, apiclient.ErrNoPayload) {
		copied := *contact
		return &copied, nil
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *RemoteSiteContactRepository) List(ctx context.Context) ([]models.SiteContact, error) {
	env, err := r.api.Get(ctx, "/site-contact")
	if err != nil {
		return nil, remoteError(err)
	}

	contacts := []models.SiteContact{}
	if err := env.Decode(&contacts, "siteContacts", "contacts"); err != nil && !errors.Is(err, apiclient.ErrNoPayload) {
		return nil, err
	}
	return contacts, nil
}
