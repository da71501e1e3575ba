// Package gitsource syncs the content directory from a Git repository so the
// same tool can build from a local checkout or straight from the canonical repo.
package gitsource

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.ormside.net/rke/blogbuilder/internal/config"
	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
	"git.ormside.net/rke/blogbuilder/internal/logfields"
)

// Client handles Git operations against the content repository.
type Client struct {
	cfg config.GitSourceConfig
	dir string // local checkout path
}

// NewClient creates a Git client that syncs cfg.URL into dir.
func NewClient(cfg config.GitSourceConfig, dir string) *Client {
	return &Client{cfg: cfg, dir: dir}
}

// Sync clones the content repository, or pulls if a checkout already exists.
// It returns the checkout path.
func (c *Client) Sync() (string, error) {
	if _, err := os.Stat(filepath.Join(c.dir, ".git")); err == nil {
		return c.pull()
	}
	return c.clone()
}

func (c *Client) clone() (string, error) {
	slog.Debug("cloning content repository", logfields.URL(c.cfg.URL), logfields.Branch(c.cfg.Branch), logfields.Path(c.dir))

	if err := os.RemoveAll(c.dir); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to remove stale checkout").
			WithContext("path", c.dir).
			Build()
	}

	opts := &git.CloneOptions{URL: c.cfg.URL, Depth: 1}
	if c.cfg.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + c.cfg.Branch)
		opts.SingleBranch = true
	}
	if auth := c.auth(); auth != nil {
		opts.Auth = auth
	}

	repo, err := git.PlainClone(c.dir, false, opts)
	if err != nil {
		return "", classifySyncError("clone", c.cfg.URL, err)
	}

	if ref, herr := repo.Head(); herr == nil {
		slog.Info("content repository cloned", logfields.URL(c.cfg.URL), slog.String("commit", ref.Hash().String()[:8]))
	} else {
		slog.Info("content repository cloned", logfields.URL(c.cfg.URL))
	}
	return c.dir, nil
}

func (c *Client) pull() (string, error) {
	slog.Debug("updating content repository", logfields.URL(c.cfg.URL), logfields.Path(c.dir))

	repo, err := git.PlainOpen(c.dir)
	if err != nil {
		return "", classifySyncError("open", c.cfg.URL, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", classifySyncError("worktree", c.cfg.URL, err)
	}

	opts := &git.PullOptions{}
	if c.cfg.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + c.cfg.Branch)
		opts.SingleBranch = true
	}
	if auth := c.auth(); auth != nil {
		opts.Auth = auth
	}

	if err := wt.Pull(opts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", classifySyncError("pull", c.cfg.URL, err)
	}

	slog.Info("content repository updated", logfields.URL(c.cfg.URL))
	return c.dir, nil
}

func (c *Client) auth() *githttp.BasicAuth {
	if c.cfg.Token == "" {
		return nil
	}
	// Forge HTTP token auth: the username is ignored but must be non-empty.
	return &githttp.BasicAuth{Username: "token", Password: c.cfg.Token}
}

// classifySyncError wraps go-git failures into classified errors so the
// driver can report them without string parsing.
func classifySyncError(op, url string, err error) error {
	msg := "content sync " + op + " failed"
	l := strings.ToLower(err.Error())
	builder := ferrors.WrapError(err, ferrors.CategoryGit, msg).WithContext("url", url)
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "authorization"):
		builder = builder.WithContext("reason", "auth")
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist"):
		builder = builder.WithContext("reason", "not_found")
	case strings.Contains(l, "timeout") || strings.Contains(l, "i/o timeout"):
		builder = builder.WithContext("reason", "timeout")
	}
	return builder.Build()
}
