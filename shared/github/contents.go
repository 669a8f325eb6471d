package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v75/github"
)

// ErrFileNotFound reports that the requested path does not exist in the
// repository. Callers treat this as a valid outcome, not a failure.
var ErrFileNotFound = errors.New("github: file not found")

// ErrShaMismatch reports that a conditional write or delete lost to a
// concurrent update: the blob SHA submitted with the request no longer
// matched the file's current revision.
var ErrShaMismatch = errors.New("github: sha mismatch")

// ContentsRepository manages files in a GitHub repository through the
// contents API. One instance is scoped to a single owner/repo pair.
//
// Every write and delete is conditioned on the file's current blob SHA,
// which is how the contents API arbitrates concurrent writers. The window
// between resolving a SHA and submitting the write is narrowed, not closed.
type ContentsRepository struct {
	client  *github.Client
	owner   string
	gitRepo string
}

// NewContentsRepository creates a new ContentsRepository.
func NewContentsRepository(client *github.Client, owner string, gitRepo string) *ContentsRepository {
	return &ContentsRepository{
		client:  client,
		owner:   owner,
		gitRepo: gitRepo,
	}
}

// GetFile fetches a file's decoded content and current blob SHA.
func (g *ContentsRepository) GetFile(ctx context.Context, path string) ([]byte, string, error) {
	op := fmt.Sprintf("getting file %s", path)
	fileContent, _, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.gitRepo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, "", ErrFileNotFound
		}
		return nil, "", handleGithubError(op, err)
	}

	if fileContent == nil {
		return nil, "", fmt.Errorf("github: %s returned a directory, not a file", op)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("github: %s failed to decode content: %w", op, err)
	}

	return []byte(content), fileContent.GetSHA(), nil
}

// PutFile creates or updates a file. For updates, sha must carry the blob
// SHA resolved immediately beforehand; the API rejects the write when it has
// gone stale. An empty sha performs a pure creation.
func (g *ContentsRepository) PutFile(ctx context.Context, path string, content []byte, sha string, message string) error {
	op := fmt.Sprintf("writing file %s", path)
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: content,
	}
	if sha == "" {
		_, _, err := g.client.Repositories.CreateFile(ctx, g.owner, g.gitRepo, path, opts)
		if err != nil {
			return classifyWriteError(op, err)
		}
		return nil
	}

	opts.SHA = github.Ptr(sha)
	_, _, err := g.client.Repositories.UpdateFile(ctx, g.owner, g.gitRepo, path, opts)
	if err != nil {
		return classifyWriteError(op, err)
	}
	return nil
}

// DeleteFile removes a file, conditioned on its current blob SHA.
func (g *ContentsRepository) DeleteFile(ctx context.Context, path string, sha string, message string) error {
	op := fmt.Sprintf("deleting file %s", path)
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		SHA:     github.Ptr(sha),
	}
	_, resp, err := g.client.Repositories.DeleteFile(ctx, g.owner, g.gitRepo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return ErrFileNotFound
		}
		return classifyWriteError(op, err)
	}
	return nil
}

// ListDir returns the names of the files directly under path. A missing
// directory yields an empty listing.
func (g *ContentsRepository) ListDir(ctx context.Context, path string) ([]string, error) {
	op := fmt.Sprintf("listing directory %s", path)
	_, dirContents, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.gitRepo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, handleGithubError(op, err)
	}

	names := make([]string, 0, len(dirContents))
	for _, entry := range dirContents {
		if entry.GetType() == "file" {
			names = append(names, entry.GetName())
		}
	}
	return names, nil
}

// GetRepoFullName returns the repository's full name (e.g., "owner/repo").
func (g *ContentsRepository) GetRepoFullName() string {
	return fmt.Sprintf("%s/%s", g.owner, g.gitRepo)
}

// classifyWriteError distinguishes SHA precondition failures from other API
// errors. The contents API answers 409 for a stale SHA and 422 when the SHA
// is missing for an existing file.
func classifyWriteError(op string, err error) error {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		code := errResp.Response.StatusCode
		if code == http.StatusConflict ||
			(code == http.StatusUnprocessableEntity && strings.Contains(errResp.Message, "sha")) {
			return fmt.Errorf("github: %s: %w", op, ErrShaMismatch)
		}
	}
	return handleGithubError(op, err)
}

// handleGithubError inspects an error from the go-github client and returns a more informative, structured error.
func handleGithubError(op string, err error) error {
	if err == nil {
		return nil
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return fmt.Errorf("github: %s failed with status %d: %s", op, errResp.Response.StatusCode, errResp.Message)
	}

	return fmt.Errorf("github: %s failed: %w", op, err)
}
