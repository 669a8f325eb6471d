package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suvam/portfolio/blog/domain"
)

var _ domain.ContentStore = (*FilesystemStore)(nil)

// FilesystemStore keeps one JSON document per post under a local directory.
//
// The filesystem offers no per-file optimistic concurrency at this
// granularity, so two concurrent writers to the same id race with
// last-write-wins semantics. Acceptable for the expected single-admin usage.
type FilesystemStore struct {
	dir string
}

// NewFilesystemStore creates a store rooted at dir. The directory is created
// lazily on the first write.
func NewFilesystemStore(dir string) *FilesystemStore {
	return &FilesystemStore{dir: dir}
}

func (s *FilesystemStore) List(ctx context.Context) ([]*domain.Post, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*domain.Post{}, nil
		}
		return nil, &domain.BackendError{Op: "listing " + s.dir, Err: err}
	}

	posts := make([]*domain.Post, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		post, err := s.Get(ctx, strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	sortByCreatedDesc(posts)
	return posts, nil
}

func (s *FilesystemStore) Get(ctx context.Context, id string) (*domain.Post, error) {
	raw, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.BackendError{Op: "reading post " + id, Err: err}
	}

	var post domain.Post
	if err := json.Unmarshal(raw, &post); err != nil {
		return nil, &domain.BackendError{Op: "decoding post " + id, Err: err}
	}
	return &post, nil
}

func (s *FilesystemStore) Put(ctx context.Context, p *domain.Post) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return &domain.BackendError{Op: "creating " + s.dir, Err: err}
	}

	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return &domain.BackendError{Op: "encoding post " + p.ID, Err: err}
	}

	if err := os.WriteFile(s.path(p.ID), raw, 0644); err != nil {
		return &domain.BackendError{Op: "writing post " + p.ID, Err: err}
	}
	return nil
}

func (s *FilesystemStore) Remove(ctx context.Context, id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrNotFound
		}
		return &domain.BackendError{Op: "removing post " + id, Err: err}
	}
	return nil
}

func (s *FilesystemStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// sortByCreatedDesc orders posts newest first. Shared by both backends so
// the list contract is identical regardless of configuration.
func sortByCreatedDesc(posts []*domain.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
