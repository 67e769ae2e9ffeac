// Package auditlog records every change a command makes to the books in
// logs/audit-log.csv, alongside the commit that captured it.
package auditlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp  time.Time
	RunID      string
	Command    string
	Action     string
	EntryID    string
	Details    string
	CommitHash string
}

// Header is the CSV header for audit-log.csv.
const Header = "timestamp,run_id,command,action,entry_id,details,commit_hash"

// ActionCommit marks the row that records the git commit of a run's changes.
const ActionCommit = "commit"

// File is the audit log path relative to the repo root.
const File = "logs/audit-log.csv"

const (
	numFields     = 7
	colTimestamp  = 0
	colRunID      = 1
	colCommand    = 2
	colAction     = 3
	colEntryID    = 4
	colDetails    = 5
	colCommitHash = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colCommand] = e.Command
	row[colAction] = e.Action
	row[colEntryID] = e.EntryID
	row[colDetails] = e.Details
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	return Entry{
		Timestamp:  ts,
		RunID:      record[colRunID],
		Command:    record[colCommand],
		Action:     record[colAction],
		EntryID:    record[colEntryID],
		Details:    record[colDetails],
		CommitHash: record[colCommitHash],
	}, nil
}

// Append writes entries to the audit log under repoRoot, creating the file and
// header if needed.
func Append(repoRoot string, entries []Entry) error {
	path := filepath.Join(repoRoot, File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	_, statErr := os.Stat(path)
	needsHeader := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the audit log under repoRoot. A missing file
// yields no entries.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, File))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()
	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Recorder stamps entries from one CLI invocation with a shared run ID.
type Recorder struct {
	repoRoot string
	command  string
	runID    string
	now      func() time.Time
}

// NewRecorder returns a Recorder for one invocation of command.
func NewRecorder(repoRoot, command string) *Recorder {
	return &Recorder{repoRoot: repoRoot, command: command, runID: uuid.NewString(), now: time.Now}
}

// RunID identifies this invocation in the log.
func (r *Recorder) RunID() string { return r.runID }

// Record appends one action to the audit log.
func (r *Recorder) Record(action, entryID, details, commitHash string) error {
	return Append(r.repoRoot, []Entry{{
		Timestamp:  r.now(),
		RunID:      r.runID,
		Command:    r.command,
		Action:     action,
		EntryID:    entryID,
		Details:    details,
		CommitHash: commitHash,
	}})
}
