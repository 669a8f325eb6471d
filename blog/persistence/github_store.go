package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/suvam/portfolio/blog/domain"
	gh "github.com/suvam/portfolio/shared/github"
)

var _ domain.ContentStore = (*GithubStore)(nil)

// GithubStore persists posts as JSON files in a GitHub repository, one file
// per post under a fixed directory. Every post mutation becomes a commit.
//
// Writes and deletes resolve the file's current blob SHA immediately before
// submitting, so a concurrent writer with a stale SHA receives a conflict
// instead of silently clobbering the other write.
type GithubStore struct {
	contents *gh.ContentsRepository
	dir      string
}

// NewGithubStore creates a store that keeps its documents under dir inside
// the repository, e.g. "data/blogs".
func NewGithubStore(contents *gh.ContentsRepository, dir string) *GithubStore {
	return &GithubStore{
		contents: contents,
		dir:      dir,
	}
}

func (s *GithubStore) List(ctx context.Context) ([]*domain.Post, error) {
	names, err := s.contents.ListDir(ctx, s.dir)
	if err != nil {
		return nil, &domain.BackendError{Op: "listing " + s.dir, Err: err}
	}

	posts := make([]*domain.Post, 0, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		post, err := s.Get(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	sortByCreatedDesc(posts)
	return posts, nil
}

func (s *GithubStore) Get(ctx context.Context, id string) (*domain.Post, error) {
	raw, _, err := s.contents.GetFile(ctx, s.path(id))
	if err != nil {
		if errors.Is(err, gh.ErrFileNotFound) {
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

func (s *GithubStore) Put(ctx context.Context, p *domain.Post) error {
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return &domain.BackendError{Op: "encoding post " + p.ID, Err: err}
	}

	// Resolve the current blob SHA so the write is conditioned on it. A
	// missing file means this is a pure creation.
	_, sha, err := s.contents.GetFile(ctx, s.path(p.ID))
	if err != nil && !errors.Is(err, gh.ErrFileNotFound) {
		return &domain.BackendError{Op: "resolving version of post " + p.ID, Err: err}
	}

	message := fmt.Sprintf("Update blog post: %s", p.Title)
	if sha == "" {
		message = fmt.Sprintf("Create blog post: %s", p.Title)
	}

	if err := s.contents.PutFile(ctx, s.path(p.ID), raw, sha, message); err != nil {
		if errors.Is(err, gh.ErrShaMismatch) {
			return &domain.BackendError{Op: "writing post " + p.ID, Err: domain.ErrConflict}
		}
		return &domain.BackendError{Op: "writing post " + p.ID, Err: err}
	}
	return nil
}

func (s *GithubStore) Remove(ctx context.Context, id string) error {
	raw, sha, err := s.contents.GetFile(ctx, s.path(id))
	if err != nil {
		if errors.Is(err, gh.ErrFileNotFound) {
			return domain.ErrNotFound
		}
		return &domain.BackendError{Op: "resolving version of post " + id, Err: err}
	}

	title := id
	var post domain.Post
	if err := json.Unmarshal(raw, &post); err == nil && post.Title != "" {
		title = post.Title
	}

	message := fmt.Sprintf("Delete blog post: %s", title)
	if err := s.contents.DeleteFile(ctx, s.path(id), sha, message); err != nil {
		if errors.Is(err, gh.ErrFileNotFound) {
			return domain.ErrNotFound
		}
		if errors.Is(err, gh.ErrShaMismatch) {
			return &domain.BackendError{Op: "removing post " + id, Err: domain.ErrConflict}
		}
		return &domain.BackendError{Op: "removing post " + id, Err: err}
	}
	return nil
}

func (s *GithubStore) path(id string) string {
	return path.Join(s.dir, id+".json")
}
