package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"engsite/internal/apiclient"
	"engsite/internal/models"
)

type LocalPostRepository struct {
	items *collection[models.Post]
}

func (r *LocalPostRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.items.load(ctx)
}

func (r *LocalPostRepository) ListPublished(ctx context.Context) ([]models.Post, error) {
	posts, err := r.items.load(ctx)
	if err != nil {
		return nil, err
	}

	published := make([]models.Post, 0, len(posts))
	for _, post := range posts {
		if post.Published {
			published = append(published, post)
		}
	}
	return published, nil
}

func (r *LocalPostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	posts, err := r.items.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].ID.String() == postID {
			return &posts[i], nil
		}
	}
	return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
}

func (r *LocalPostRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	r.items.mu.Lock()
	defer r.items.mu.Unlock()

	posts, err := r.items.load(ctx)
	if err != nil {
		return nil, err
	}

	posts = append(posts, *post)
	if err := r.items.store(ctx, posts); err != nil {
		return nil, err
	}

	created := *post
	return &created, nil
}

func (r *LocalPostRepository) Update(ctx context.Context, postID string, patch models.PostPatch) (*models.Post, error) {
	r.items.mu.Lock()
	defer r.items.mu.Unlock()

	posts, err := r.items.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].ID.String() != postID {
			continue
		}

		patch.Apply(&posts[i])
		posts[i].UpdatedAt = models.Now()
		if err := r.items.store(ctx, posts); err != nil {
			return nil, err
		}
		updated := posts[i]
		return &updated, nil
	}

	return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
}

func (r *LocalPostRepository) Delete(ctx context.Context, postID string) error {
	r.items.mu.Lock()
	defer r.items.mu.Unlock()

	posts, err := r.items.load(ctx)
	if err != nil {
		return err
	}

	kept := posts[:0]
	for _, post := range posts {
		if post.ID.String() != postID {
			kept = append(kept, post)
		}
	}
	if len(kept) == len(posts) {
		return nil
	}

	return r.items.store(ctx, kept)
}

type RemotePostRepository struct {
	api API
}

func (r *RemotePostRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.list(ctx, "/posts")
}

func (r *RemotePostRepository) ListPublished(ctx context.Context) ([]models.Post, error) {
	return r.list(ctx, "/posts/published")
}

func (r *RemotePostRepository) list(ctx context.Context, path string) ([]models.Post, error) {
	env, err := r.api.Get(ctx, path)
	if err != nil {
		return nil, remoteError(err)
	}

	posts := []models.Post{}
	if err := env.Decode(&posts, "posts"); err != nil && !errors.Is(err, apiclient.ErrNoPayload) {
		return nil, err
	}
	return posts, nil
}

func (r *RemotePostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	env, err := r.api.Get(ctx, "/posts/"+url.PathEscape(postID))
	if err != nil {
		return nil, remoteError(err)
	}

	var post models.Post
	if err := env.Decode(&post, "post"); err != nil {
		if errors.Is(err, apiclient.ErrNoPayload) {
			return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
		}
		return nil, err
	}
	return &post, nil
}

func (r *RemotePostRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	env, err := r.api.Post(ctx, "/posts", post)
	if err != nil {
		return nil, remoteError(err)
	}
	return decodePostOr(env, post)
}

// Update sends the patch in a single PUT. Fields the upstream owns, such as
// timestamps and the author, are never sent.
func (r *RemotePostRepository) Update(ctx context.Context, postID string, patch models.PostPatch) (*models.Post, error) {
	env, err := r.api.Put(ctx, "/posts/"+url.PathEscape(postID), patch.Fields())
	if err != nil {
		return nil, remoteError(err)
	}

	sent := &models.Post{ID: models.ID(postID)}
	patch.Apply(sent)
	return decodePostOr(env, sent)
}

func (r *RemotePostRepository) Delete(ctx context.Context, postID string) error {
	_, err := r.api.Delete(ctx, "/posts/"+url.PathEscape(postID))
	if err = remoteError(err); errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// decodePostOr prefers the post echoed by the upstream and falls back to sent.
func decodePostOr(env *apiclient.Envelope, sent *models.Post) (*models.Post, error) {
	var post models.Post
	err := env.Decode(&post, "post")
	if errors.Is(err, apiclient.ErrNoPayload) {
		copied := *sent
		return &copied, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}
