// Package gitops publishes the data directory to git after a
// successful snapshot write. Publication is a best-effort side
// channel: its failure never invalidates the already-persisted
// snapshot.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// HasChanges reports whether the working tree at dir has anything to
// commit.
func HasChanges(dir string) (bool, error) {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return len(strings.TrimSpace(string(out))) > 0, nil
}

// CommitAll stages all files and creates a commit. Returns the short
// commit hash.
func CommitAll(dir, message, authorName, authorEmail string) (string, error) {
	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)

	add := exec.Command("git", "add", "-A")
	add.Dir = dir
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	commit := exec.Command("git", "commit", "-m", message, "--author", author)
	commit.Dir = dir
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = dir
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// HasRemote reports whether the repository at dir has an origin remote.
func HasRemote(dir string) bool {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = dir
	return cmd.Run() == nil
}

// Push pushes the current branch to origin.
func Push(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, "git", "push", "origin", "HEAD")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git push: %s: %w", out, err)
	}
	return nil
}

// Publisher commits and pushes the data directory after sync cycles.
type Publisher struct {
	dir         string
	authorName  string
	authorEmail string
	log         zerolog.Logger
}

// NewPublisher creates a Publisher for the given repository directory.
func NewPublisher(dir, authorName, authorEmail string, log zerolog.Logger) *Publisher {
	return &Publisher{
		dir:         dir,
		authorName:  authorName,
		authorEmail: authorEmail,
		log:         log.With().Str("component", "gitops").Logger(),
	}
}

// Publish commits any changes and pushes when an origin remote exists.
// Failures are logged, never returned: the snapshot on disk remains
// authoritative regardless of publication outcome.
func (p *Publisher) Publish(ctx context.Context, message string) {
	if !IsRepo(p.dir) {
		p.log.Debug().Str("dir", p.dir).Msg("not a git repository, skipping publish")
		return
	}

	changed, err := HasChanges(p.dir)
	if err != nil {
		p.log.Warn().Err(err).Msg("could not inspect working tree")
		return
	}
	if !changed {
		p.log.Debug().Msg("no changes to publish")
		return
	}

	hash, err := CommitAll(p.dir, message, p.authorName, p.authorEmail)
	if err != nil {
		p.log.Warn().Err(err).Msg("commit failed")
		return
	}
	p.log.Info().Str("commit", hash).Msg("committed snapshot")

	if !HasRemote(p.dir) {
		return
	}
	if err := Push(ctx, p.dir); err != nil {
		p.log.Warn().Err(err).Msg("push failed")
		return
	}
	p.log.Info().Msg("pushed snapshot")
}
