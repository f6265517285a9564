package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"engsite/internal/models"
	"engsite/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Save(context.Context, string, any) error { return errors.New("write failed") }
func (failingStore) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("read failed")
}
func (failingStore) Remove(context.Context, string) error { return nil }

func at(s string) models.Timestamp {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return models.NewTimestamp(t)
}

func TestLocalPostRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalRepository(storage.NewMemoryStore()).Posts

	t.Run("empty store lists nothing", func(t *testing.T) {
		posts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	_, err := repo.Create(ctx, &models.Post{ID: "1", Title: "Draft"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Post{ID: "2", Title: "Live", Published: true})
	require.NoError(t, err)

	t.Run("create appends", func(t *testing.T) {
		posts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("published only", func(t *testing.T) {
		posts, err := repo.ListPublished(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "Live", posts[0].Title)
	})

	t.Run("get by id", func(t *testing.T) {
		post, err := repo.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Draft", post.Title)

		_, err = repo.GetByID(ctx, "404")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update applies patch", func(t *testing.T) {
		published := true
		post, err := repo.Update(ctx, "1", models.PostPatch{Published: &published})
		require.NoError(t, err)
		assert.True(t, post.Published)
		assert.Equal(t, "Draft", post.Title)
		assert.False(t, post.UpdatedAt.IsZero())

		publishedPosts, err := repo.ListPublished(ctx)
		require.NoError(t, err)
		assert.Len(t, publishedPosts, 2)
	})

	t.Run("update of unknown id leaves collection unchanged", func(t *testing.T) {
		before, err := repo.List(ctx)
		require.NoError(t, err)

		title := "X"
		_, err = repo.Update(ctx, "nope", models.PostPatch{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)

		after, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "1"))
		require.NoError(t, repo.Delete(ctx, "1"))

		posts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, models.ID("2"), posts[0].ID)
	})
}

func TestLocalPostRepository_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalRepository(storage.NewMemoryStore()).Posts

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, &models.Post{ID: models.ID(rune('a' + i))})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 20)
}

func TestLocalSubscriberRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalRepository(storage.NewMemoryStore()).Subscribers

	first, err := repo.Create(ctx, &models.Subscriber{ID: "s1", Email: "a@b.com"})
	require.NoError(t, err)
	assert.Equal(t, models.ID("s1"), first.ID)

	t.Run("existing email returns the stored record", func(t *testing.T) {
		again, err := repo.Create(ctx, &models.Subscriber{ID: "s2", Email: "A@B.com"})
		require.NoError(t, err)
		assert.Equal(t, models.ID("s1"), again.ID)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("delete by email is idempotent", func(t *testing.T) {
		require.NoError(t, repo.DeleteByEmail(ctx, "a@b.com"))
		require.NoError(t, repo.DeleteByEmail(ctx, "a@b.com"))

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestLocalSiteContactRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalRepository(storage.NewMemoryStore()).SiteContacts

	created, err := repo.Create(ctx, &models.SiteContact{ID: "c1", Name: "Ana", Email: "ana@x.com", Message: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", created.Name)

	contacts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Hi", contacts[0].Message)
}

func TestLocalPageLogRepository_PruneBefore(t *testing.T) {
	ctx := context.Background()
	repo := NewLocalRepository(storage.NewMemoryStore()).PageLogs.(*LocalPageLogRepository)

	require.NoError(t, repo.Create(ctx, &models.PageView{ID: "old", PathName: "/", TimeStamp: at("2024-01-01T00:00:00Z")}))
	require.NoError(t, repo.Create(ctx, &models.PageView{ID: "new", PathName: "/blog", TimeStamp: at("2024-06-01T00:00:00Z")}))
	require.NoError(t, repo.Create(ctx, &models.PageView{ID: "undated", PathName: "/about"}))

	removed, err := repo.PruneBefore(ctx, at("2024-03-01T00:00:00Z").Time)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	views, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, models.ID("new"), views[0].ID)

	removed, err = repo.PruneBefore(ctx, at("2024-03-01T00:00:00Z").Time)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestLocalDashboardRepository_Summary(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	repos := NewLocalRepository(kv)
	now := at("2024-06-15T12:00:00Z").Time

	_, err := repos.Posts.Create(ctx, &models.Post{ID: "p1", Title: "One", Published: true, CreatedAt: at("2024-06-10T00:00:00Z")})
	require.NoError(t, err)
	_, err = repos.Posts.Create(ctx, &models.Post{ID: "p2", Title: "Two", CreatedAt: at("2024-05-01T00:00:00Z"), UpdatedAt: at("2024-06-14T00:00:00Z")})
	require.NoError(t, err)
	_, err = repos.Subscribers.Create(ctx, &models.Subscriber{ID: "s1", Email: "a@b.com", CreatedAt: at("2024-06-01T00:00:00Z")})
	require.NoError(t, err)
	_, err = repos.SiteContacts.Create(ctx, &models.SiteContact{ID: "c1", Name: "Ana", CreatedAt: at("2024-06-02T00:00:00Z")})
	require.NoError(t, err)
	_, err = repos.SiteContacts.Create(ctx, &models.SiteContact{ID: "c2", Name: "Bia", CreatedAt: at("2024-05-20T00:00:00Z")})
	require.NoError(t, err)
	require.NoError(t, repos.PageLogs.Create(ctx, &models.PageView{ID: "v1", TimeStamp: at("2024-06-14T00:00:00Z")}))
	require.NoError(t, repos.PageLogs.Create(ctx, &models.PageView{ID: "v2", TimeStamp: at("2024-04-01T00:00:00Z")}))

	dashboard, err := repos.Dashboard.Summary(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 2, dashboard.TotalPosts)
	assert.Equal(t, 1, dashboard.PublishedPosts)
	assert.Equal(t, 1, dashboard.DraftPosts)
	assert.Equal(t, 1, dashboard.Subscribers)
	assert.Equal(t, 2, dashboard.SiteContacts)
	assert.Equal(t, 1, dashboard.ContactsThisMonth)
	assert.Equal(t, 1, dashboard.PageViews30d)

	require.Len(t, dashboard.RecentActivity, 5)
	assert.Equal(t, "post", dashboard.RecentActivity[0].Kind)
	assert.Contains(t, dashboard.RecentActivity[0].Description, "Two")
	assert.Equal(t, "contact", dashboard.RecentActivity[4].Kind)
}

func TestLocalRepository_StoreErrors(t *testing.T) {
	ctx := context.Background()
	repos := NewLocalRepository(failingStore{})

	_, err := repos.Posts.List(ctx)
	assert.ErrorContains(t, err, "read failed")

	_, err = repos.Subscribers.Create(ctx, &models.Subscriber{Email: "a@b.com"})
	assert.ErrorContains(t, err, "read failed")

	_, err = repos.Dashboard.Summary(ctx, time.Now())
	assert.Error(t, err)
}

func TestLocalPostRepository_LegacyDatesSurviveWrites(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Save(ctx, storage.KeyPosts, json.RawMessage(
		`[{"id":1,"title":"Old","created_at":"15/03/2024"},{"id":2,"title":"Older","created_at":1717168117171}]`,
	)))
	repo := NewLocalRepository(kv).Posts

	before, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, before, 2)

	_, err = repo.Create(ctx, &models.Post{ID: "3", Title: "New", CreatedAt: models.Now()})
	require.NoError(t, err)

	var stored []map[string]any
	found, err := kv.Get(ctx, storage.KeyPosts, &stored)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, stored, 3)
	assert.Equal(t, "15/03/2024", stored[0]["created_at"])
	assert.Equal(t, "2024-05-31T15:08:37.171Z", stored[1]["created_at"])
}
