package posts

import "time"

// Post is a published content entry. OwnerID is set at creation time and is
// immutable afterwards; there is no transfer-of-ownership operation.
type Post struct {
	ID          string
	Title       string
	Description string
	Content     string
	ImageURL    string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
// OwnerID is deliberately not updatable.
type UpdateInput struct {
	Title       *string
	Description *string
	Content     *string
	ImageURL    *string
}
