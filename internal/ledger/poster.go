package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

var (
	// ErrInvalidEntry is returned when an entry that fails validation reaches
	// the poster.
	ErrInvalidEntry = errors.New("ledger: refusing to post invalid entry")
	// ErrUnknownAccount is returned when a line references an account missing
	// from the catalog.
	ErrUnknownAccount = errors.New("ledger: unknown account")
	// ErrAlreadyPosted is returned when an entry ID is posted twice.
	ErrAlreadyPosted = errors.New("ledger: entry already posted")
)

// Post folds one entry into snap and returns the new snapshot. snap itself is
// never modified; on error it is returned unchanged so no half-posted state
// escapes.
func Post(catalog accounts.Catalog, snap Snapshot, entry model.JournalEntry) (Snapshot, error) {
	next := snap.clone(len(entry.Lines))
	if err := next.apply(catalog, entry); err != nil {
		return snap, err
	}
	return next, nil
}

// PostAll folds entries into snap in date order, keeping insertion order for
// entries on the same date. It stops at the first failure and returns snap
// unchanged.
func PostAll(catalog accounts.Catalog, snap Snapshot, entries []model.JournalEntry) (Snapshot, error) {
	ordered := make([]model.JournalEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	lines := 0
	for _, e := range ordered {
		lines += len(e.Lines)
	}
	next := snap.clone(lines)
	for _, e := range ordered {
		if err := next.apply(catalog, e); err != nil {
			return snap, err
		}
	}
	return next, nil
}

// Replay builds a snapshot from an empty ledger.
func Replay(catalog accounts.Catalog, entries []model.JournalEntry) (Snapshot, error) {
	return PostAll(catalog, Snapshot{}, entries)
}

// apply mutates s in place. Only called on a private clone.
func (s *Snapshot) apply(catalog accounts.Catalog, entry model.JournalEntry) error {
	if err := journal.Validate(entry); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	if s.posted[entry.ID] {
		return fmt.Errorf("%w: %s", ErrAlreadyPosted, entry.ID)
	}

	// Resolve every account before touching any balance.
	resolved := make([]Balance, len(entry.Lines))
	for i, line := range entry.Lines {
		b, ok := s.balances[line.AccountCode]
		if !ok {
			acct, found := catalog.Lookup(line.AccountCode)
			if !found {
				return fmt.Errorf("%w: %s in entry %s", ErrUnknownAccount, line.AccountCode, entry.ID)
			}
			cls, err := accounts.Classify(acct.Type)
			if err != nil {
				return fmt.Errorf("entry %s: %w", entry.ID, err)
			}
			b = Balance{Code: acct.Code, Type: acct.Type, NormalSide: cls.NormalSide}
		}
		resolved[i] = b
	}

	for i, line := range entry.Lines {
		b, ok := s.balances[line.AccountCode]
		if !ok {
			b = resolved[i]
		}
		side, amount := line.Side()
		b, err := b.post(side, amount)
		if err != nil {
			return fmt.Errorf("entry %s, account %s: %w", entry.ID, line.AccountCode, err)
		}
		s.balances[line.AccountCode] = b
		s.movements = append(s.movements, Movement{
			Seq:     len(s.movements) + 1,
			EntryID: entry.ID,
			Date:    entry.Date,
			Code:    line.AccountCode,
			Side:    side,
			Amount:  amount,
			Running: b.Balance,
		})
	}
	s.posted[entry.ID] = true
	s.version++
	return nil
}
