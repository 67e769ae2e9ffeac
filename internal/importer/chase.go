package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// ChaseParser turns Chase checking CSV exports into two-line entries between
// the bank account and an offset account.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
	chaseColType    = 4
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV. Zero-amount rows are skipped.
func (p *ChaseParser) Parse(r io.Reader, opts Options) ([]model.JournalEntry, error) {
	if opts.BankAccount == "" || opts.OffsetAccount == "" {
		return nil, errors.New("chase import needs a bank account and an offset account")
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []model.JournalEntry
	for i, rec := range records[1:] {
		e, ok, err := parseChaseRow(rec, opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func parseChaseRow(rec []string, opts Options) (model.JournalEntry, bool, error) {
	date, err := time.Parse(chaseDateFormat, rec[chaseColDate])
	if err != nil {
		return model.JournalEntry{}, false, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}
	signed, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return model.JournalEntry{}, false, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}
	if signed.IsZero() {
		return model.JournalEntry{}, false, nil
	}
	amount, err := model.FromDecimal(signed.Abs(), opts.Currency)
	if err != nil {
		return model.JournalEntry{}, false, fmt.Errorf("amount %q: %w", rec[chaseColAmount], err)
	}

	desc := rec[chaseColDesc]
	memo := makeChaseRef(date, desc) + " " + rec[chaseColType]
	debit, credit := opts.BankAccount, opts.OffsetAccount
	if signed.IsNegative() {
		debit, credit = credit, debit
	}
	return model.JournalEntry{
		Date:        date,
		Description: desc,
		Lines: []model.JournalLine{
			{AccountCode: debit, Debit: amount, Memo: memo},
			{AccountCode: credit, Credit: amount, Memo: memo},
		},
	}, true, nil
}

// makeChaseRef creates a reference like chase_20250103_GITHUB.
func makeChaseRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("chase_%s_%s", date.Format("20060102"), prefix)
}
