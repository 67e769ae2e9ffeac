package model

import (
	"fmt"
	"time"
)

// JournalLine is one side of a double-entry posting.
// Exactly one of Debit or Credit is positive.
type JournalLine struct {
	AccountCode string
	Debit       Amount
	Credit      Amount
	Memo        string
}

// Side returns the populated side of the line and its amount.
// For malformed lines (both or neither) the debit side wins.
func (l JournalLine) Side() (Side, Amount) {
	if l.Credit > 0 && l.Debit == 0 {
		return Credit, l.Credit
	}
	return Debit, l.Debit
}

// JournalEntry is a dated, balanced group of lines. Entries are immutable once
// posted; corrections are new entries.
type JournalEntry struct {
	ID          string
	Date        time.Time
	Description string
	Lines       []JournalLine
	Reverses    string // ID of the entry this one reverses
}

// Totals returns the sum of debit and credit columns. It fails with
// ErrAmountOutOfRange when either column overflows.
func (e JournalEntry) Totals() (debits, credits Amount, err error) {
	for _, l := range e.Lines {
		if debits, err = debits.Add(l.Debit); err != nil {
			return 0, 0, fmt.Errorf("debit total: %w", err)
		}
		if credits, err = credits.Add(l.Credit); err != nil {
			return 0, 0, fmt.Errorf("credit total: %w", err)
		}
	}
	return debits, credits, nil
}

// Touches reports whether any line posts to the given account.
func (e JournalEntry) Touches(code string) bool {
	for _, l := range e.Lines {
		if l.AccountCode == code {
			return true
		}
	}
	return false
}
