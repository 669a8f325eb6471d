package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/suvam/portfolio/blog/domain"
)

// Gate authorizes mutating operations. The service consults it before
// touching the store, so a denial can never leave a partial write behind.
type Gate interface {
	Authorized(ctx context.Context) bool
}

// CreatePostInput carries the author-supplied fields for a new post.
type CreatePostInput struct {
	Title       string
	Description string
	Thumbnail   string
	Links       []domain.Link
}

// UpdatePostInput carries a partial update. Nil fields are preserved
// verbatim from the stored document.
type UpdatePostInput struct {
	Title       *string
	Description *string
	Thumbnail   *string
	Links       *[]domain.Link
}

// PostService enforces the blog post business rules over a ContentStore:
// validation, identity and timestamp assignment, partial merges, and the
// authorization check on every mutation.
type PostService struct {
	store      domain.ContentStore
	gate       Gate
	normalizer HTMLNormalizer

	now func() time.Time
}

func NewPostService(store domain.ContentStore, gate Gate, normalizer HTMLNormalizer) *PostService {
	return &PostService{
		store:      store,
		gate:       gate,
		normalizer: normalizer,
		now:        time.Now,
	}
}

// ListPosts returns all posts, newest first. Public.
func (s *PostService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	return s.store.List(ctx)
}

// GetPost returns one post exactly as stored. Public.
func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.store.Get(ctx, id)
}

// GetRenderedPost returns one post with its description passed through the
// normalizer, ready for direct injection into a rendering surface. The
// stored document is never modified.
func (s *PostService) GetRenderedPost(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rendered := *post
	rendered.Description = s.normalizer.Normalize(post.Description)
	return &rendered, nil
}

// CreatePost validates input, assigns identity and timestamps, and persists
// a new post. Requires authorization.
func (s *PostService) CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	if !s.gate.Authorized(ctx) {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, &domain.ValidationError{Field: "title"}
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, &domain.ValidationError{Field: "description"}
	}

	links := input.Links
	if links == nil {
		links = []domain.Link{}
	}

	now := s.now().UTC()
	post := &domain.Post{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Thumbnail:   input.Thumbnail,
		Links:       links,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Put(ctx, post); err != nil {
		return nil, err
	}

	log.Info().Str("postID", post.ID).Str("title", post.Title).Msg("Created post")
	return post, nil
}

// UpdatePost merges the supplied fields over the stored document and
// refreshes updated_at. ID and created_at never change. Requires
// authorization.
func (s *PostService) UpdatePost(ctx context.Context, id string, input UpdatePostInput) (*domain.Post, error) {
	if !s.gate.Authorized(ctx) {
		return nil, domain.ErrUnauthorized
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, &domain.ValidationError{Field: "title"}
		}
		updated.Title = *input.Title
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, &domain.ValidationError{Field: "description"}
		}
		updated.Description = *input.Description
	}
	if input.Thumbnail != nil {
		updated.Thumbnail = *input.Thumbnail
	}
	if input.Links != nil {
		updated.Links = *input.Links
	}
	// An update inside the clock's resolution of the previous write must
	// still move updated_at strictly forward.
	now := s.now().UTC()
	if !now.After(existing.UpdatedAt) {
		now = existing.UpdatedAt.Add(time.Millisecond)
	}
	updated.UpdatedAt = now

	if err := s.store.Put(ctx, &updated); err != nil {
		return nil, err
	}

	log.Info().Str("postID", id).Msg("Updated post")
	return &updated, nil
}

// DeletePost removes a post permanently. Requires authorization.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if !s.gate.Authorized(ctx) {
		return domain.ErrUnauthorized
	}

	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}

	log.Info().Str("postID", id).Msg("Deleted post")
	return nil
}
