package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"engsite/internal/models"
	"engsite/internal/render"
	"engsite/internal/repository"
	"engsite/internal/search"
	"engsite/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const sniffLength = 3072

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// PostInput carries the fields a caller provided.
type PostInput = models.PostPatch

type PostService interface {
	GetAllPosts(ctx context.Context, query string) (models.Result[[]models.Post], error)
	GetPublishedPosts(ctx context.Context, query string) (models.Result[[]models.Post], error)
	GetPostByID(ctx context.Context, postID string) (models.Result[*models.Post], error)
	CreatePost(ctx context.Context, input PostInput) (models.Result[*models.Post], error)
	UpdatePost(ctx context.Context, postID string, input PostInput) (models.Result[*models.Post], error)
	DeletePost(ctx context.Context, postID string) (models.Result[any], error)
	UploadImage(ctx context.Context, postID, fileName string, file io.Reader, size int64) (models.Result[*models.Post], error)
}

type postService struct {
	postRepo repository.PostRepository
	images   storage.ImageStorage
	renderer *render.Renderer
	log      logrus.FieldLogger
}

// NewPostService accepts a nil images when object storage is not configured.
func NewPostService(postRepo repository.PostRepository, images storage.ImageStorage, renderer *render.Renderer, log logrus.FieldLogger) PostService {
	return &postService{
		postRepo: postRepo,
		images:   images,
		renderer: renderer,
		log:      log,
	}
}

func postSearchFields(p models.Post) []string {
	return []string{p.Title, p.Summary, p.Content}
}

func (p *postService) GetAllPosts(ctx context.Context, query string) (models.Result[[]models.Post], error) {
	posts, err := p.postRepo.List(ctx)
	if err != nil {
		return models.Fail[[]models.Post]("Could not load posts"), fmt.Errorf("error listing posts: %w", err)
	}

	// the admin table searches by title only
	posts = search.Filter(posts, query, func(p models.Post) []string { return []string{p.Title} })
	return models.OK("Post list generated", posts), nil
}

func (p *postService) GetPublishedPosts(ctx context.Context, query string) (models.Result[[]models.Post], error) {
	posts, err := p.postRepo.ListPublished(ctx)
	if err != nil {
		return models.Fail[[]models.Post]("Could not load posts"), fmt.Errorf("error listing published posts: %w", err)
	}

	return models.OK("Post list generated", search.Filter(posts, query, postSearchFields)), nil
}

func (p *postService) GetPostByID(ctx context.Context, postID string) (models.Result[*models.Post], error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Fail[*models.Post]("Post not found"), err
		}
		return models.Fail[*models.Post]("Could not load post"), fmt.Errorf("error getting post: %w", err)
	}

	if p.renderer != nil && post.Content != "" {
		contentHTML, err := p.renderer.HTML(post.Content)
		if err != nil {
			p.log.WithError(err).WithField("post_id", postID).Warn("error rendering post content")
		} else {
			post.ContentHTML = contentHTML
		}
	}

	return models.OK("Post loaded", post), nil
}

func (p *postService) CreatePost(ctx context.Context, input PostInput) (models.Result[*models.Post], error) {
	now := models.Now()
	post := &models.Post{
		ID:        models.ID(uuid.New().String()),
		Tags:      input.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.Apply(post)

	if session, ok := SessionFromContext(ctx); ok {
		author := session.User
		post.User = &author
	}

	created, err := p.postRepo.Create(ctx, post)
	if err != nil {
		return models.Fail[*models.Post]("Could not create post"), fmt.Errorf("error creating post: %w", err)
	}

	return models.OK("Post created", created), nil
}

func (p *postService) UpdatePost(ctx context.Context, postID string, input PostInput) (models.Result[*models.Post], error) {
	updated, err := p.postRepo.Update(ctx, postID, input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Fail[*models.Post]("Post not found"), err
		}
		return models.Fail[*models.Post]("Could not update post"), fmt.Errorf("error updating post: %w", err)
	}

	return models.OK("Post updated successfully!", updated), nil
}

func (p *postService) DeletePost(ctx context.Context, postID string) (models.Result[any], error) {
	if err := p.postRepo.Delete(ctx, postID); err != nil {
		return models.Fail[any]("Could not delete post"), fmt.Errorf("error deleting post: %w", err)
	}

	return models.OK[any]("Post deleted successfully!", nil), nil
}

func (p *postService) UploadImage(ctx context.Context, postID, fileName string, file io.Reader, size int64) (models.Result[*models.Post], error) {
	if p.images == nil {
		return models.Fail[*models.Post]("Image uploads are disabled"), ErrStorageDisabled
	}

	if _, err := p.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Fail[*models.Post]("Post not found"), err
		}
		return models.Fail[*models.Post]("Could not load post"), fmt.Errorf("error getting post: %w", err)
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return models.Fail[*models.Post]("Could not read image"), fmt.Errorf("error reading upload: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return models.Fail[*models.Post]("Only JPEG, PNG, GIF and WebP images are accepted"),
			fmt.Errorf("%w: %s", ErrUnsupportedImage, mtype.String())
	}

	if ext := strings.ToLower(filepath.Ext(fileName)); ext == "" {
		fileName += mtype.Extension()
	}

	objectName, imageURL, err := p.images.UploadImage(ctx, postID, fileName, mtype.String(), io.MultiReader(bytes.NewReader(head), file), size)
	if err != nil {
		return models.Fail[*models.Post]("Could not upload image"), fmt.Errorf("error uploading image: %w", err)
	}

	updated, err := p.postRepo.Update(ctx, postID, models.PostPatch{Image: &imageURL})
	if err != nil {
		if delErr := p.images.DeleteImage(ctx, objectName); delErr != nil {
			p.log.WithError(delErr).WithField("object", objectName).Warn("error removing orphaned image")
		}
		return models.Fail[*models.Post]("Could not update post"), fmt.Errorf("error saving image url: %w", err)
	}

	return models.OK("Image uploaded", updated), nil
}
