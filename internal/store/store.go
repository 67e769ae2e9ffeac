// Package store keeps journal entries in a SQLite database as an alternative
// to the monthly CSV files.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"

	_ "modernc.org/sqlite"

	"github.com/cleared-dev/ledgerbook/internal/journal"
)

// Store is a SQLite-backed journal. Writes go through a single connection so
// entry IDs are assigned in a total order.
type Store struct {
	writer   *sql.DB
	reader   *sql.DB
	accounts journal.AccountChecker
}

// Open opens (creating if needed) the database at dbPath and migrates it.
func Open(ctx context.Context, dbPath string, accounts journal.AccountChecker) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(runtime.NumCPU())

	s := &Store{writer: writer, reader: reader, accounts: accounts}
	if err := s.migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close releases both connection pools.
func (s *Store) Close() error {
	err1 := s.writer.Close()
	err2 := s.reader.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
