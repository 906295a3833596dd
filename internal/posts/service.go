package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-cms/inkwell/internal/shared"
)

// RepositoryPort defines data access methods for posts.
type RepositoryPort interface {
	CreatePost(ctx context.Context, post *Post) error
	ListPosts(ctx context.Context) ([]Post, error)
	GetPost(ctx context.Context, id string) (*Post, error)
	PostOwner(ctx context.Context, id string) (string, error)
	UpdatePost(ctx context.Context, id string, input UpdateInput) (*Post, error)
	DeletePost(ctx context.Context, id string) error
}

// CachePort is the read cache consulted on the public endpoints.
type CachePort interface {
	GetList(ctx context.Context) ([]Post, bool)
	SetList(ctx context.Context, posts []Post)
	GetPost(ctx context.Context, id string) (*Post, bool)
	SetPost(ctx context.Context, post *Post)
	Invalidate(ctx context.Context, id string)
}

// Service handles post business logic and doubles as the resource lookup
// consumed by the ownership guard.
type Service struct {
	repo   RepositoryPort
	cache  CachePort
	logger *slog.Logger
}

// NewService builds a Service instance. cache may be nil.
func NewService(repo RepositoryPort, cache CachePort, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// CreateInput carries the already-validated creation fields.
type CreateInput struct {
	Title       string
	Description string
	Content     string
	ImageURL    string
}

// CreatePost stores a new post owned by the caller.
func (s *Service) CreatePost(ctx context.Context, ownerID string, input CreateInput) (*Post, error) {
	if ownerID == "" {
		return nil, shared.ErrUnauthenticated
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", shared.ErrInvalidInput)
	}

	now := time.Now().UTC()
	post := &Post{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Content:     input.Content,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, "")
	}
	return post, nil
}

// ListPosts returns all posts, serving from cache when possible.
func (s *Service) ListPosts(ctx context.Context) ([]Post, error) {
	if s.cache != nil {
		if posts, ok := s.cache.GetList(ctx); ok {
			return posts, nil
		}
	}
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetList(ctx, posts)
	}
	return posts, nil
}

// GetPost returns one post by id.
func (s *Service) GetPost(ctx context.Context, id string) (*Post, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if post, ok := s.cache.GetPost(ctx, id); ok {
			return post, nil
		}
	}
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetPost(ctx, post)
	}
	return post, nil
}

// UpdatePost applies a partial update. Ownership has already been enforced
// by the guard pipeline before this runs.
func (s *Service) UpdatePost(ctx context.Context, id string, input UpdateInput) (*Post, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	post, err := s.repo.UpdatePost(ctx, id, input)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	return post, nil
}

// DeletePost removes a post.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	return nil
}

// Owner resolves a post id to its owning principal id for the ownership
// guard. The post's own id plays no part in the answer.
func (s *Service) Owner(ctx context.Context, resourceID string) (string, error) {
	if err := validateID(resourceID); err != nil {
		// A malformed id can never address an existing post.
		return "", shared.ErrNotFound
	}
	return s.repo.PostOwner(ctx, resourceID)
}

// WarmCache repopulates the post listing cache. Called by the background
// worker on a schedule.
func (s *Service) WarmCache(ctx context.Context) error {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.SetList(ctx, posts)
	}
	if s.logger != nil {
		s.logger.Debug("post cache warmed", slog.Int("count", len(posts)))
	}
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed post id", shared.ErrInvalidInput)
	}
	return nil
}
