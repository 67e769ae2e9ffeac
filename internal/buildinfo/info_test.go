package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_UsesLinkerValues(t *testing.T) {
	old := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })

	Version, Commit, Date = "v1.2.3", "abcdef0", "2025-01-01"
	assert.Equal(t, "v1.2.3 (commit: abcdef0, built: 2025-01-01)", String())
}
