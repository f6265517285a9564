package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"engsite/internal/apiclient"
	"engsite/internal/models"
	"engsite/internal/storage"
)

var ErrNotFound = errors.New("not found")

type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	ListPublished(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	// Update changes only the fields set in patch.
	Update(ctx context.Context, postID string, patch models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, postID string) error
}

type SubscriberRepository interface {
	// Create returns the already stored subscriber when the email exists.
	Create(ctx context.Context, subscriber *models.Subscriber) (*models.Subscriber, error)
	List(ctx context.Context) ([]models.Subscriber, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type SiteContactRepository interface {
	Create(ctx context.Context, contact *models.SiteContact) (*models.SiteContact, error)
	List(ctx context.Context) ([]models.SiteContact, error)
}

type PageLogRepository interface {
	Create(ctx context.Context, view *models.PageView) error
	PruneBefore(ctx context.Context, cutoff time.Time) (int, error)
}

type DashboardRepository interface {
	Summary(ctx context.Context, now time.Time) (*models.Dashboard, error)
}

// API is the part of apiclient.Client the remote repositories need.
type API interface {
	Get(ctx context.Context, path string) (*apiclient.Envelope, error)
	Post(ctx context.Context, path string, body any) (*apiclient.Envelope, error)
	Put(ctx context.Context, path string, body any) (*apiclient.Envelope, error)
	Delete(ctx context.Context, path string) (*apiclient.Envelope, error)
}

type Repository struct {
	Posts        PostRepository
	Subscribers  SubscriberRepository
	SiteContacts SiteContactRepository
	PageLogs     PageLogRepository
	Dashboard    DashboardRepository
}

// NewLocalRepository backs every entity with the local key-value store.
func NewLocalRepository(kv storage.KeyValue) *Repository {
	posts := &LocalPostRepository{items: newCollection[models.Post](kv, storage.KeyPosts)}
	subscribers := &LocalSubscriberRepository{items: newCollection[models.Subscriber](kv, storage.KeySubscribers)}
	contacts := &LocalSiteContactRepository{items: newCollection[models.SiteContact](kv, storage.KeySiteContacts)}
	pageLogs := &LocalPageLogRepository{items: newCollection[models.PageView](kv, storage.KeyPageLogs)}

	return &Repository{
		Posts:        posts,
		Subscribers:  subscribers,
		SiteContacts: contacts,
		PageLogs:     pageLogs,
		Dashboard: &LocalDashboardRepository{
			posts:       posts,
			subscribers: subscribers,
			contacts:    contacts,
			pageLogs:    pageLogs,
		},
	}
}

// NewRemoteRepository backs every entity with the upstream API.
func NewRemoteRepository(api API) *Repository {
	return &Repository{
		Posts:        &RemotePostRepository{api: api},
		Subscribers:  &RemoteSubscriberRepository{api: api},
		SiteContacts: &RemoteSiteContactRepository{api: api},
		PageLogs:     &RemotePageLogRepository{api: api},
		Dashboard:    &RemoteDashboardRepository{api: api},
	}
}

// collection is one JSON array slot of the local store. The mutex covers
// read-modify-write cycles inside this process only.
type collection[T any] struct {
	mu  sync.Mutex
	kv  storage.KeyValue
	key string
}

func newCollection[T any](kv storage.KeyValue, key string) *collection[T] {
	return &collection[T]{kv: kv, key: key}
}

func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	return loadSlice[T](ctx, c.kv, c.key)
}

func (c *collection[T]) store(ctx context.Context, items []T) error {
	if err := c.kv.Save(ctx, c.key, items); err != nil {
		return fmt.Errorf("error writing %s: %w", c.key, err)
	}
	return nil
}

func loadSlice[T any](ctx context.Context, kv storage.KeyValue, key string) ([]T, error) {
	var items []T
	if _, err := kv.Get(ctx, key, &items); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func remoteError(err error) error {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Error())
	}
	return err
}
