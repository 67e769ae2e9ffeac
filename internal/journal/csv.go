package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Header is the CSV header for journal.csv. Each row is one line; rows sharing
// an entry_id form one entry, in file order.
const Header = "entry_id,date,description,reverses,account_code,debit,credit,memo"

const (
	numFields   = 8
	dateFormat  = "2006-01-02"
	colEntryID  = 0
	colDate     = 1
	colDesc     = 2
	colReverses = 3
	colAccount  = 4
	colDebit    = 5
	colCredit   = 6
	colMemo     = 7
)

// ReadEntries reads all entries from a journal.csv reader. Amounts are parsed
// in the minor unit of currency.
func ReadEntries(r io.Reader, currency string) ([]model.JournalEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []model.JournalEntry
	for i, rec := range records[1:] {
		entry, line, err := UnmarshalLine(rec, currency)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		n := len(entries)
		if n > 0 && entries[n-1].ID == entry.ID {
			entries[n-1].Lines = append(entries[n-1].Lines, line)
			continue
		}
		entry.Lines = []model.JournalLine{line}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WriteEntries writes entries to a journal.csv writer (including header).
func WriteEntries(w io.Writer, entries []model.JournalEntry, currency string) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return AppendEntries(w, entries, currency)
}

// AppendEntries appends entries to an existing journal.csv writer (no header).
func AppendEntries(w io.Writer, entries []model.JournalEntry, currency string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for _, e := range entries {
		for i := range e.Lines {
			if err := cw.Write(MarshalLine(e, i, currency)); err != nil {
				return fmt.Errorf("writing entry %s line %d: %w", e.ID, i+1, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLine converts line i of an entry to a CSV row.
func MarshalLine(e model.JournalEntry, i int, currency string) []string {
	line := e.Lines[i]
	row := make([]string, numFields)
	row[colEntryID] = e.ID
	row[colDate] = e.Date.Format(dateFormat)
	row[colDesc] = e.Description
	row[colReverses] = e.Reverses
	row[colAccount] = line.AccountCode
	if !line.Debit.IsZero() {
		row[colDebit] = line.Debit.StringFixed(currency)
	}
	if !line.Credit.IsZero() {
		row[colCredit] = line.Credit.StringFixed(currency)
	}
	row[colMemo] = line.Memo
	return row
}

// UnmarshalLine converts a CSV row to its entry header and line.
func UnmarshalLine(record []string, currency string) (model.JournalEntry, model.JournalLine, error) {
	if len(record) != numFields {
		return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}
	debit, err := model.ParseAmount(record[colDebit], currency)
	if err != nil {
		return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("parsing debit: %w", err)
	}
	credit, err := model.ParseAmount(record[colCredit], currency)
	if err != nil {
		return model.JournalEntry{}, model.JournalLine{}, fmt.Errorf("parsing credit: %w", err)
	}

	entry := model.JournalEntry{
		ID:          strings.TrimSpace(record[colEntryID]),
		Date:        date,
		Description: record[colDesc],
		Reverses:    record[colReverses],
	}
	line := model.JournalLine{
		AccountCode: strings.TrimSpace(record[colAccount]),
		Debit:       debit,
		Credit:      credit,
		Memo:        record[colMemo],
	}
	return entry, line, nil
}
