package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var author = Author{Name: "Test Author", Email: "test@example.com"}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(context.Background(), dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	assert.False(t, IsRepo(ctx, dir), "empty dir should not be a repo")

	require.NoError(t, Init(ctx, dir))
	assert.True(t, IsRepo(ctx, dir), "initialized dir should be a repo")
}

func TestCommitAll(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "accounts.csv"), []byte("code,name\n"), 0o644))

	hash, err := CommitAll(ctx, dir, "journal: add 2025-01-001", author)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	subject, err := git(ctx, dir, "log", "--format=%s", "-1")
	require.NoError(t, err)
	assert.Equal(t, "journal: add 2025-01-001", subject)

	who, err := git(ctx, dir, "log", "--format=%an <%ae>", "-1")
	require.NoError(t, err)
	assert.Equal(t, "Test Author <test@example.com>", who)
}

func TestCommitAll_NothingToCommit(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	_, err := CommitAll(ctx, dir, "first", author)
	require.NoError(t, err)

	hash, err := CommitAll(ctx, dir, "second", author)
	require.NoError(t, err)
	assert.Empty(t, hash)
}
