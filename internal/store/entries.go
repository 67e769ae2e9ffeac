package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

const dateFormat = "2006-01-02"

// Add validates an entry and stores it. An empty ID is assigned the next
// sequence for the entry's month. Nothing is written when validation fails.
func (s *Store) Add(ctx context.Context, entry model.JournalEntry) (model.JournalEntry, error) {
	if err := journal.ValidateAccounts(entry, s.accounts); err != nil {
		return model.JournalEntry{}, err
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if entry.ID == "" {
		next, err := nextID(ctx, tx, entry.Date)
		if err != nil {
			return model.JournalEntry{}, err
		}
		entry.ID = next
	}

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE id = ?`, entry.ID).Scan(&exists); err != nil {
		return model.JournalEntry{}, fmt.Errorf("check entry: %w", err)
	}
	if exists > 0 {
		return model.JournalEntry{}, fmt.Errorf("%w: %s", journal.ErrDuplicateEntry, entry.ID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entries (id, date, description, reverses) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.Date.Format(dateFormat), entry.Description, entry.Reverses,
	)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("insert entry: %w", err)
	}

	for i, l := range entry.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO lines (entry_id, account_code, debit, credit, memo) VALUES (?, ?, ?, ?, ?)`,
			entry.ID, l.AccountCode, int64(l.Debit), int64(l.Credit), l.Memo,
		)
		if err != nil {
			return model.JournalEntry{}, fmt.Errorf("insert line %d: %w", i+1, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE entries SET finalized = 1 WHERE id = ?`, entry.ID); err != nil {
		return model.JournalEntry{}, fmt.Errorf("finalize entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.JournalEntry{}, fmt.Errorf("commit: %w", err)
	}
	return entry, nil
}

// Reverse stores the reversing entry for entryID, dated date.
func (s *Store) Reverse(ctx context.Context, entryID string, date time.Time) (model.JournalEntry, error) {
	var by string
	err := s.reader.QueryRowContext(ctx, `SELECT id FROM entries WHERE reverses = ? AND finalized = 1`, entryID).Scan(&by)
	if err == nil {
		return model.JournalEntry{}, fmt.Errorf("%w: %s by %s", journal.ErrAlreadyReversed, entryID, by)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.JournalEntry{}, fmt.Errorf("check reversal: %w", err)
	}

	original, err := s.Get(ctx, entryID)
	if err != nil {
		return model.JournalEntry{}, err
	}
	return s.Add(ctx, journal.Reverse(original, "", date))
}

// Get returns one finalized entry.
func (s *Store) Get(ctx context.Context, entryID string) (model.JournalEntry, error) {
	var (
		e    model.JournalEntry
		date string
	)
	err := s.reader.QueryRowContext(ctx,
		`SELECT id, date, description, reverses FROM entries WHERE id = ? AND finalized = 1`, entryID,
	).Scan(&e.ID, &date, &e.Description, &e.Reverses)
	if errors.Is(err, sql.ErrNoRows) {
		return model.JournalEntry{}, fmt.Errorf("%w: %s", journal.ErrEntryNotFound, entryID)
	}
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("get entry: %w", err)
	}
	if e.Date, err = time.Parse(dateFormat, date); err != nil {
		return model.JournalEntry{}, fmt.Errorf("entry %s: bad date %q: %w", entryID, date, err)
	}
	if e.Lines, err = s.lines(ctx, entryID); err != nil {
		return model.JournalEntry{}, err
	}
	return e, nil
}

// ReadAll returns every finalized entry ordered by date, then insertion order.
func (s *Store) ReadAll(ctx context.Context) ([]model.JournalEntry, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT id, date, description, reverses FROM entries WHERE finalized = 1 ORDER BY date, seq`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []model.JournalEntry
	for rows.Next() {
		var (
			e    model.JournalEntry
			date string
		)
		if err := rows.Scan(&e.ID, &date, &e.Description, &e.Reverses); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.Date, err = time.Parse(dateFormat, date); err != nil {
			return nil, fmt.Errorf("entry %s: bad date %q: %w", e.ID, date, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].Lines, err = s.lines(ctx, entries[i].ID); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (s *Store) lines(ctx context.Context, entryID string) ([]model.JournalLine, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT account_code, debit, credit, memo FROM lines WHERE entry_id = ? ORDER BY id`, entryID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	defer rows.Close()

	var lines []model.JournalLine
	for rows.Next() {
		var (
			l             model.JournalLine
			debit, credit int64
		)
		if err := rows.Scan(&l.AccountCode, &debit, &credit, &l.Memo); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		l.Debit, l.Credit = model.Amount(debit), model.Amount(credit)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func nextID(ctx context.Context, tx *sql.Tx, date time.Time) (string, error) {
	prefix := date.Format("2006-01") + "-"
	rows, err := tx.QueryContext(ctx, `SELECT id FROM entries WHERE id LIKE ? || '%'`, prefix)
	if err != nil {
		return "", fmt.Errorf("next entry id: %w", err)
	}
	defer rows.Close()

	var used []string
	for rows.Next() {
		var entryID string
		if err := rows.Scan(&entryID); err != nil {
			return "", fmt.Errorf("scan id: %w", err)
		}
		used = append(used, entryID)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return id.Next(date, used).String(), nil
}
