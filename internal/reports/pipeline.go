package reports

import (
	"errors"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Inputs is everything Synthesize reads. None of it is modified.
type Inputs struct {
	Catalog        accounts.Catalog
	Ledger         ledger.Snapshot
	Period         Period
	Categorization Categorization
	EquityClasses  map[string]EquityClass
}

// Statements is the output of one synthesis run.
type Statements struct {
	Period          Period
	TrialBalance    TrialBalance // closing
	IncomeStatement IncomeStatement
	BalanceSheet    BalanceSheet
	CashFlow        CashFlowStatement
	Equity          EquityStatement
}

// All returns the statements in presentation order.
func (s Statements) All() []Statement {
	return []Statement{s.BalanceSheet, s.IncomeStatement, s.CashFlow, s.Equity}
}

// Warnings collects missing-metadata warnings from every statement.
func (s Statements) Warnings() []model.MissingMetadata {
	out := append([]model.MissingMetadata{}, s.CashFlow.Warnings...)
	return append(out, s.Equity.Warnings...)
}

// Synthesize builds all four statements for the period. Statements are built
// in dependency order: income, balance sheet, cash flow, equity. Every
// consistency failure is joined into the returned error; the statements are
// populated either way so callers can show the deltas.
func Synthesize(in Inputs) (Statements, error) {
	out := Statements{Period: in.Period}
	if err := in.Period.Validate(); err != nil {
		return out, err
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	opening, err := BuildTrialBalance(in.Catalog, in.Ledger.Before(in.Period.Start))
	collect(err)
	closing, err := BuildTrialBalance(in.Catalog, in.Ledger.AsOf(in.Period.End))
	collect(err)
	activity, err := BuildTrialBalance(in.Catalog, in.Ledger.Between(in.Period.Start, in.Period.End))
	collect(err)
	out.TrialBalance = closing

	out.IncomeStatement = BuildIncomeStatement(activity, in.Period)

	out.BalanceSheet, err = BuildBalanceSheet(closing, in.Period.End)
	collect(err)

	out.CashFlow, err = BuildCashFlowStatement(in.Catalog, in.Ledger, in.Period, in.Categorization)
	collect(err)

	out.Equity, err = BuildEquityStatement(opening, closing, out.IncomeStatement, in.Period, in.EquityClasses)
	collect(err)

	if out.Equity.TotalEquity != out.BalanceSheet.TotalEquity {
		errs = append(errs, &model.ConsistencyError{
			Check:    "equity statement total equals balance sheet equity",
			Expected: out.BalanceSheet.TotalEquity,
			Actual:   out.Equity.TotalEquity,
		})
	}
	return out, errors.Join(errs...)
}
