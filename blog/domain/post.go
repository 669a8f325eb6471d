package domain

import (
	"context"
	"time"
)

// Link is a labeled external URL attached to a post. Order is meaningful
// and preserved exactly as authored.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Post represents a blog post.
// Each post is persisted as a single JSON document named <id>.json under the
// store's collection path. The description holds serialized HTML produced by
// the rich-text editor; it is stored verbatim and only transformed by the
// normalizer when the post is rendered.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Links       []Link    `json:"links"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ContentStore persists posts as JSON documents. Implementations exist for
// the local filesystem and for a GitHub-hosted content tree, and the rest of
// the application is agnostic to which one is configured.
type ContentStore interface {
	// List returns every post ordered by CreatedAt descending. An absent or
	// empty collection yields an empty slice, not an error.
	List(ctx context.Context) ([]*Post, error)

	// Get fetches one post by id. A missing document returns ErrNotFound;
	// a document that exists but cannot be decoded is a BackendError.
	Get(ctx context.Context, id string) (*Post, error)

	// Put creates or overwrites the document keyed by p.ID.
	Put(ctx context.Context, p *Post) error

	// Remove permanently deletes a document. A missing document returns
	// ErrNotFound.
	Remove(ctx context.Context, id string) error
}
