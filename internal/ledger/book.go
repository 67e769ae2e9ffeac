package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// ErrBackdated is returned when a Book post is dated before movements the
// book already holds.
var ErrBackdated = errors.New("ledger: entry dated before the last posting")

// Book holds the current snapshot and serializes posts so every account sees
// a single total order of entries. Readers receive immutable snapshots and
// never observe a post in progress.
type Book struct {
	mu      sync.Mutex
	catalog accounts.Catalog
	current Snapshot
}

// NewBook creates a Book starting from snap.
func NewBook(catalog accounts.Catalog, snap Snapshot) *Book {
	return &Book{catalog: catalog, current: snap}
}

// Post appends entry to the book. Entries must arrive in date order; a
// back-dated entry fails with ErrBackdated and needs a full PostAll replay.
func (b *Book) Post(entry model.JournalEntry) (Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkDate(entry.ID, entry.Date); err != nil {
		return b.current, err
	}
	next, err := Post(b.catalog, b.current, entry)
	if err != nil {
		return b.current, err
	}
	b.current = next
	return next, nil
}

// PostAll appends entries in date order; nothing is applied if any fails.
func (b *Book) PostAll(entries []model.JournalEntry) (Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range entries {
		if err := b.checkDate(e.ID, e.Date); err != nil {
			return b.current, err
		}
	}
	next, err := PostAll(b.catalog, b.current, entries)
	if err != nil {
		return b.current, err
	}
	b.current = next
	return next, nil
}

// Snapshot returns the current snapshot.
func (b *Book) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Book) checkDate(entryID string, date time.Time) error {
	ms := b.current.movements
	if len(ms) == 0 {
		return nil
	}
	if last := ms[len(ms)-1].Date; date.Before(last) {
		return fmt.Errorf("%w: %s on %s, last posting %s", ErrBackdated, entryID,
			date.Format(time.DateOnly), last.Format(time.DateOnly))
	}
	return nil
}
