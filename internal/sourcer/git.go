package sourcer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// GitFetcher reads a single file out of a remote git repository.
//
// URLs take the form git+https://host/org/repo.git//path/to/doc.md?ref=main;
// the double slash separates the repository from the path inside it and ref
// defaults to the remote HEAD.
type GitFetcher struct {
	tokens map[string]string
}

// NewGitFetcher creates a new GitFetcher. tokens maps a host to the token
// used for basic authentication against it.
func NewGitFetcher(tokens map[string]string) *GitFetcher {
	return &GitFetcher{tokens: tokens}
}

// Fetch clones the repository into memory and returns the file content along
// with the commit hash it was read at.
func (f *GitFetcher) Fetch(rawURL string) ([]byte, string, error) {
	repoURL, path, ref, err := splitGitURL(rawURL)
	if err != nil {
		return nil, "", err
	}

	opts := &git.CloneOptions{
		URL:          repoURL,
		Depth:        1,
		SingleBranch: true,
	}
	if ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref)
	}
	if auth := f.auth(repoURL); auth != nil {
		opts.Auth = auth
	}

	repo, err := git.Clone(memory.NewStorage(), nil, opts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to clone %s: %w", repoURL, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve head of %s: %w", repoURL, err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, "", fmt.Errorf("failed to read commit %s: %w", head.Hash(), err)
	}
	file, err := commit.File(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find %s in %s: %w", path, repoURL, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return []byte(contents), head.Hash().String(), nil
}

// splitGitURL turns git+https://host/repo.git//doc.md?ref=main into its
// clone URL, file path and ref.
func splitGitURL(rawURL string) (repoURL, path, ref string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to parse url %s: %w", rawURL, err)
	}
	scheme := strings.TrimPrefix(u.Scheme, "git+")
	if scheme == "git" || scheme == "" {
		scheme = "https"
	}

	repoPath, filePath, ok := strings.Cut(u.Path, "//")
	if !ok || filePath == "" {
		return "", "", "", fmt.Errorf("git url %s does not name a file: use repo//path/to/file.md", rawURL)
	}

	clone := url.URL{Scheme: scheme, User: u.User, Host: u.Host, Path: repoPath}
	return clone.String(), filePath, u.Query().Get("ref"), nil
}
