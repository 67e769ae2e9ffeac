package journal

import (
	"time"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Reverse builds the entry that undoes original: same accounts and amounts with
// debit and credit swapped. History is never edited; posting the reversal is
// an ordinary post.
func Reverse(original model.JournalEntry, id string, date time.Time) model.JournalEntry {
	lines := make([]model.JournalLine, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = model.JournalLine{
			AccountCode: l.AccountCode,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Memo:        l.Memo,
		}
	}
	return model.JournalEntry{
		ID:          id,
		Date:        date,
		Description: "Reversal of " + original.ID + ": " + original.Description,
		Lines:       lines,
		Reverses:    original.ID,
	}
}
