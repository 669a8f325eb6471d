package application

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/suvam/portfolio/blog/domain"
)

// fakeStore is an in-memory ContentStore that counts calls so tests can
// assert nothing was written.
type fakeStore struct {
	posts map[string]*domain.Post

	listCalls   int
	getCalls    int
	putCalls    int
	removeCalls int

	putErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{posts: make(map[string]*domain.Post)}
}

func (f *fakeStore) List(ctx context.Context) ([]*domain.Post, error) {
	f.listCalls++
	posts := make([]*domain.Post, 0, len(f.posts))
	for _, p := range f.posts {
		cp := *p
		posts = append(posts, &cp)
	}
	return posts, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (*domain.Post, error) {
	f.getCalls++
	p, ok := f.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) Put(ctx context.Context, p *domain.Post) error {
	f.putCalls++
	if f.putErr != nil {
		return f.putErr
	}
	cp := *p
	f.posts[p.ID] = &cp
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, id string) error {
	f.removeCalls++
	if _, ok := f.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

type fakeGate struct {
	allow bool
}

func (g fakeGate) Authorized(ctx context.Context) bool {
	return g.allow
}

func newTestService(store *fakeStore, allow bool) *PostService {
	return NewPostService(store, fakeGate{allow: allow}, NewNormalizer())
}

func TestCreatePost(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, true)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		Title:       "First Post",
		Description: "<p>hello</p>",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if post.ID == "" {
		t.Error("expected a generated id")
	}
	if !post.CreatedAt.Equal(post.UpdatedAt) {
		t.Errorf("created_at (%v) should equal updated_at (%v) on creation", post.CreatedAt, post.UpdatedAt)
	}
	if post.Links == nil || len(post.Links) != 0 {
		t.Errorf("links should default to an empty slice, got %#v", post.Links)
	}
	if store.putCalls != 1 {
		t.Errorf("expected 1 store write, got %d", store.putCalls)
	}
}

func TestCreatePostGeneratesUniqueIDs(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, true)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		post, err := svc.CreatePost(context.Background(), CreatePostInput{
			Title:       "Post",
			Description: "body",
		})
		if err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
		if seen[post.ID] {
			t.Fatalf("duplicate id generated: %s", post.ID)
		}
		seen[post.ID] = true
	}
}

func TestCreatePostValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{
			name:  "Missing title",
			input: CreatePostInput{Description: "body"},
		},
		{
			name:  "Missing description",
			input: CreatePostInput{Title: "title"},
		},
		{
			name:  "Whitespace-only title",
			input: CreatePostInput{Title: "   ", Description: "body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestService(store, true)

			_, err := svc.CreatePost(context.Background(), tt.input)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if store.putCalls != 0 {
				t.Errorf("no write should happen on validation failure, got %d", store.putCalls)
			}
		})
	}
}

func TestCreatePostDeniedWritesNothing(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, false)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		Title:       "title",
		Description: "body",
	})
	if err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.putCalls != 0 || store.getCalls != 0 || store.removeCalls != 0 {
		t.Errorf("store must not be touched on denial: put=%d get=%d remove=%d",
			store.putCalls, store.getCalls, store.removeCalls)
	}
}

func TestGetPostAfterCreateRoundTrips(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, true)

	created, err := svc.CreatePost(context.Background(), CreatePostInput{
		Title:       "Round Trip",
		Description: "<p>exact</p>",
		Thumbnail:   "https://img.example/t.png",
		Links:       []domain.Link{{Text: "Docs", URL: "https://x.io"}},
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	got, err := svc.GetPost(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if !reflect.DeepEqual(created, got) {
		t.Errorf("stored post differs from created:\n created: %#v\n got: %#v", created, got)
	}
}

func TestUpdatePostMergesPartialInput(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, true)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	created, err := svc.CreatePost(context.Background(), CreatePostInput{
		Title:       "Old Title",
		Description: "<p>body</p>",
		Thumbnail:   "https://img.example/t.png",
		Links:       []domain.Link{{Text: "Docs", URL: "https://x.io"}},
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	svc.now = func() time.Time { return base.Add(time.Hour) }

	newTitle := "New Title"
	updated, err := svc.UpdatePost(context.Background(), created.ID, UpdatePostInput{
		Title: &newTitle,
	})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	if updated.Title != newTitle {
		t.Errorf("Title = %q, want %q", updated.Title, newTitle)
	}
	if updated.Description != created.Description {
		t.Errorf("Description changed: %q -> %q", created.Description, updated.Description)
	}
	if updated.Thumbnail != created.Thumbnail {
		t.Errorf("Thumbnail changed: %q -> %q", created.Thumbnail, updated.Thumbnail)
	}
	if !reflect.DeepEqual(updated.Links, created.Links) {
		t.Errorf("Links changed: %#v -> %#v", created.Links, updated.Links)
	}
	if updated.ID != created.ID {
		t.Errorf("ID changed: %q -> %q", created.ID, updated.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt (%v) should be after the original (%v)", updated.UpdatedAt, created.UpdatedAt)
	}
}

func TestUpdatePostBumpsTimestampImmediately(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, true)

	created, err := svc.CreatePost(context.Background(), CreatePostInput{
		Title:       "Fresh",
		Description: "body",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	// No injected clock: even an update in the same wall-clock instant must
	// move updated_at strictly forward.
	desc := "revised body"
	updated, err := svc.UpdatePost(context.Background(), created.ID, UpdatePostInput{
		Description: &desc,
	})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updated_at (%v) is not strictly after the previous value (%v)",
			updated.UpdatedAt, created.UpdatedAt)
	}
}

func TestUpdatePostNotFound(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, true)

	title := "anything"
	_, err := svc.UpdatePost(context.Background(), "missing", UpdatePostInput{Title: &title})
	if err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.putCalls != 0 {
		t.Errorf("no write should happen for a missing post, got %d", store.putCalls)
	}
}

func TestDeletePostThenGetNotFound(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, true)

	created, err := svc.CreatePost(context.Background(), CreatePostInput{
		Title:       "Doomed",
		Description: "body",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if err := svc.DeletePost(context.Background(), created.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	if _, err := svc.GetPost(context.Background(), created.ID); err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeletePostDenied(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, false)

	if err := svc.DeletePost(context.Background(), "any"); err != domain.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.removeCalls != 0 {
		t.Errorf("store must not be touched on denial, got %d remove calls", store.removeCalls)
	}
}

func TestGetRenderedPostNormalizesDescription(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, true)

	created, err := svc.CreatePost(context.Background(), CreatePostInput{
		Title:       "Embed",
		Description: `<iframe src="https://www.youtube.com/watch?v=abc123"></iframe>`,
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	rendered, err := svc.GetRenderedPost(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetRenderedPost failed: %v", err)
	}
	if !strings.Contains(rendered.Description, "/embed/abc123") {
		t.Errorf("expected normalized embed URL, got %q", rendered.Description)
	}

	// The stored document must be untouched.
	stored, err := svc.GetPost(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if stored.Description != created.Description {
		t.Errorf("stored description was modified: %q", stored.Description)
	}
}
