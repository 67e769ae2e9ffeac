package id

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrMalformed is returned by Parse for text that is not an entry ID.
var ErrMalformed = errors.New("malformed entry ID")

const monthLayout = "2006-01"

// Entry identifies a journal entry by the month it is dated in and its
// sequence within that month. Its text form is "2025-01-001".
type Entry struct {
	Month time.Time // first day of the month, UTC
	Seq   int
}

// ForDate returns the ID with sequence seq in date's month.
func ForDate(date time.Time, seq int) Entry {
	return Entry{Month: time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC), Seq: seq}
}

func (e Entry) String() string {
	return fmt.Sprintf("%s-%03d", e.Month.Format(monthLayout), e.Seq)
}

// Parse reads an ID such as "2025-03-042".
func Parse(s string) (Entry, error) {
	if len(s) < len(monthLayout)+2 || s[len(monthLayout)] != '-' {
		return Entry{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	month, err := time.Parse(monthLayout, s[:len(monthLayout)])
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %q: %w", ErrMalformed, s, err)
	}
	seq, err := strconv.Atoi(s[len(monthLayout)+1:])
	if err != nil || seq < 1 {
		return Entry{}, fmt.Errorf("%w: %q: bad sequence", ErrMalformed, s)
	}
	return Entry{Month: month, Seq: seq}, nil
}

// Next returns the ID after the highest sequence used in date's month. IDs
// from other months and foreign IDs are ignored.
func Next(date time.Time, used []string) Entry {
	next := ForDate(date, 1)
	for _, s := range used {
		e, err := Parse(s)
		if err != nil || !e.Month.Equal(next.Month) {
			continue
		}
		if e.Seq >= next.Seq {
			next.Seq = e.Seq + 1
		}
	}
	return next
}
