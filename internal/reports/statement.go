package reports

import (
	"errors"
	"fmt"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// ErrInvalidPeriod is returned for a period whose end precedes its start.
var ErrInvalidPeriod = errors.New("reports: invalid period")

const dateFormat = "2006-01-02"

// Kind tags each statement variant.
type Kind string

const (
	KindBalanceSheet    Kind = "balance_sheet"
	KindIncomeStatement Kind = "income_statement"
	KindCashFlow        Kind = "cash_flow"
	KindEquity          Kind = "equity"
)

// Statement is implemented by BalanceSheet, IncomeStatement, CashFlowStatement
// and EquityStatement.
type Statement interface {
	Kind() Kind
}

// Period is an inclusive date range.
type Period struct {
	Start time.Time
	End   time.Time
}

// Validate checks that the period is well formed.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidPeriod)
	}
	if p.End.Before(p.Start) {
		return fmt.Errorf("%w: %s is before %s", ErrInvalidPeriod, p.End.Format(dateFormat), p.Start.Format(dateFormat))
	}
	return nil
}

// Label renders the period for display.
func (p Period) Label() string {
	return p.Start.Format(dateFormat) + " to " + p.End.Format(dateFormat)
}

// Line is one labelled amount in a statement section.
type Line struct {
	Code   string
	Name   string
	Amount model.Amount
}

// Section groups lines under a label with their total.
type Section struct {
	Label string
	Lines []Line
	Total model.Amount
}

func (s *Section) add(l Line) {
	s.Lines = append(s.Lines, l)
	s.Total += l.Amount
}
