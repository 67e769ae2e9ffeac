package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:  testTime,
		RunID:      "0b7e4f3c-9b1e-4a53-8d57-5c1f2f4b8a10",
		Command:    "journal add",
		Action:     "add_entry",
		EntryID:    "2025-01-001",
		Details:    "Owner investment, $1,000.00",
		CommitHash: "abc1234",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testEntry(), entries[0])

	data, err := os.ReadFile(filepath.Join(dir, File))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), Header+"\n"))
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Command = "journal reverse"
	e2.Action = "reverse_entry"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "add_entry", entries[0].Action)
	assert.Equal(t, "reverse_entry", entries[1].Action)

	data, err := os.ReadFile(filepath.Join(dir, File))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header), "header written once")
}

func TestRead_Missing(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a", "b"})
	assert.ErrorContains(t, err, "expected 7 fields")

	row := MarshalEntry(testEntry())
	row[colTimestamp] = "yesterday"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing timestamp")
}

func TestRecorder_SharesRunID(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder(dir, "journal add")
	rec.now = func() time.Time { return testTime }

	_, err := uuid.Parse(rec.RunID())
	require.NoError(t, err)

	require.NoError(t, rec.Record("add_entry", "2025-01-001", "first", ""))
	require.NoError(t, rec.Record(ActionCommit, "", "", "abc1234"))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, rec.RunID(), e.RunID)
		assert.Equal(t, "journal add", e.Command)
		assert.Equal(t, testTime, e.Timestamp)
	}
	assert.Equal(t, "abc1234", entries[1].CommitHash)
}
