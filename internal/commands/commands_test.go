package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/commands"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	res := run(t, args...)
	require.NoError(t, res.err, "ledgerbook %v\nstderr: %s", args, res.stderr)
	return res.stdout
}

// newBooks initializes a books directory without git.
func newBooks(t *testing.T, extra ...string) string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, append([]string{"init", dir, "--name", "Test Biz", "--no-git"}, extra...)...)
	return dir
}

// seed records the canonical opening entries: $1,000 invested, $200 rent paid.
func seed(t *testing.T, dir string) {
	t.Helper()
	mustRun(t, "--repo", dir, "journal", "add", "--date", "2025-01-02",
		"--description", "Owner investment", "--debit", "1010", "--credit", "3010", "--amount", "1000")
	mustRun(t, "--repo", dir, "journal", "add", "--date", "2025-01-05",
		"--description", "January rent", "--debit", "5010", "--credit", "1010", "--amount", "200")
}

func readFile(t *testing.T, path ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(path...))
	require.NoError(t, err)
	return string(data)
}
