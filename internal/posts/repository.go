package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-cms/inkwell/internal/shared"
)

const postColumns = `id, title, description, content, image_url, owner_id, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreatePost inserts a new post. A title conflict surfaces as ErrDuplicate.
func (r *Repository) CreatePost(ctx context.Context, post *Post) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO posts (id, title, description, content, image_url, owner_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		post.ID, post.Title, post.Description, post.Content, post.ImageURL, post.OwnerID, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: title already exists", shared.ErrDuplicate)
		}
		return fmt.Errorf("posts: create: %w", err)
	}
	return nil
}

// ListPosts returns all posts, newest first.
func (r *Repository) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("posts: list: %w", err)
	}
	defer rows.Close()
	var posts []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("posts: scan: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("posts: list: %w", err)
	}
	return posts, nil
}

// GetPost fetches one post by id.
func (r *Repository) GetPost(ctx context.Context, id string) (*Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("posts: get: %w", err)
	}
	return &post, nil
}

// PostOwner returns the owning principal id of a post. This backs the
// ownership guard; only the owner_id column is consulted.
func (r *Repository) PostOwner(ctx context.Context, id string) (string, error) {
	var ownerID string
	err := r.pool.QueryRow(ctx, `SELECT owner_id FROM posts WHERE id = $1`, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", fmt.Errorf("posts: owner: %w", err)
	}
	return ownerID, nil
}

// UpdatePost applies a partial update and returns the stored row.
func (r *Repository) UpdatePost(ctx context.Context, id string, input UpdateInput) (*Post, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE posts SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			content = COALESCE($4, content),
			image_url = COALESCE($5, image_url),
			updated_at = $6
		WHERE id = $1
		RETURNING `+postColumns,
		id, input.Title, input.Description, input.Content, input.ImageURL, time.Now().UTC())
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: title already exists", shared.ErrDuplicate)
		}
		return nil, fmt.Errorf("posts: update: %w", err)
	}
	return &post, nil
}

// DeletePost removes a post by id.
func (r *Repository) DeletePost(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("posts: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (Post, error) {
	var post Post
	err := row.Scan(&post.ID, &post.Title, &post.Description, &post.Content, &post.ImageURL, &post.OwnerID, &post.CreatedAt, &post.UpdatedAt)
	return post, err
}
