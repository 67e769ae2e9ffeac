// Package gitops versions the books directory with git so every change to the
// journal is an auditable commit.
package gitops

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Author identifies who commits bookkeeping changes.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) error {
	_, err := git(ctx, dir, "init", "--quiet")
	return err
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(ctx context.Context, dir string) bool {
	out, err := git(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// HasChanges reports whether the work tree has anything to commit.
func HasChanges(ctx context.Context, dir string) (bool, error) {
	out, err := git(ctx, dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// CommitAll stages all files and creates a commit. Returns the short commit
// hash, or "" when there was nothing to commit.
func CommitAll(ctx context.Context, dir, message string, author Author) (string, error) {
	if _, err := git(ctx, dir, "add", "-A"); err != nil {
		return "", err
	}
	changed, err := HasChanges(ctx, dir)
	if err != nil || !changed {
		return "", err
	}
	// Committer identity may be unset on fresh machines; mirror the author.
	if _, err := git(ctx, dir,
		"-c", "user.name="+author.Name, "-c", "user.email="+author.Email,
		"commit", "--quiet", "-m", message, "--author", author.String()); err != nil {
		return "", err
	}
	return git(ctx, dir, "rev-parse", "--short", "HEAD")
}
