package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}
	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			date        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			reverses    TEXT NOT NULL DEFAULT '',
			finalized   INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_reverses ON entries(reverses)`,

		`CREATE TABLE IF NOT EXISTS lines (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id     TEXT NOT NULL REFERENCES entries(id),
			account_code TEXT NOT NULL,
			debit        INTEGER NOT NULL DEFAULT 0 CHECK (debit >= 0),
			credit       INTEGER NOT NULL DEFAULT 0 CHECK (credit >= 0),
			memo         TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lines_entry ON lines(entry_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lines_account ON lines(account_code)`,

		// Last line of defence for the double-entry rule.
		`CREATE TRIGGER IF NOT EXISTS trg_check_balance
		BEFORE UPDATE OF finalized ON entries
		WHEN NEW.finalized = 1
		BEGIN
			SELECT CASE
				WHEN (SELECT COALESCE(SUM(debit), 0) - COALESCE(SUM(credit), 0) FROM lines WHERE entry_id = NEW.id) != 0
				THEN RAISE(ABORT, 'journal entry lines do not balance')
			END;
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_immutable_lines_insert
		BEFORE INSERT ON lines
		WHEN (SELECT finalized FROM entries WHERE id = NEW.entry_id) = 1
		BEGIN
			SELECT RAISE(ABORT, 'cannot add lines to a finalized entry');
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_immutable_lines_update
		BEFORE UPDATE ON lines
		WHEN (SELECT finalized FROM entries WHERE id = OLD.entry_id) = 1
		BEGIN
			SELECT RAISE(ABORT, 'cannot modify lines of a finalized entry');
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_immutable_lines_delete
		BEFORE DELETE ON lines
		WHEN (SELECT finalized FROM entries WHERE id = OLD.entry_id) = 1
		BEGIN
			SELECT RAISE(ABORT, 'cannot remove lines from a finalized entry');
		END`,

		`CREATE TRIGGER IF NOT EXISTS trg_immutable_entries_delete
		BEFORE DELETE ON entries
		WHEN OLD.finalized = 1
		BEGIN
			SELECT RAISE(ABORT, 'cannot delete a finalized entry; post a reversal instead');
		END`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}
