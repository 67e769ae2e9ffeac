// Package export renders statements and reports as flat label/value CSV rows
// suitable for spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/reports"
)

const dateFormat = "2006-01-02"

type rows struct {
	currency string
	records  [][]string
}

func (r *rows) add(record ...string) { r.records = append(r.records, record) }

func (r *rows) blank() { r.add("") }

func (r *rows) amount(label string, a model.Amount) { r.add(label, a.Display(r.currency)) }

func (r *rows) section(heading string, s reports.Section, totalLabel string) {
	r.add(heading)
	for _, l := range s.Lines {
		r.amount(l.Name, l.Amount)
	}
	r.amount(totalLabel, s.Total)
}

// StatementRows flattens one statement into label/value rows.
func StatementRows(st reports.Statement, currency string) ([][]string, error) {
	r := &rows{currency: currency}
	switch s := st.(type) {
	case reports.BalanceSheet:
		balanceSheet(r, s)
	case reports.IncomeStatement:
		incomeStatement(r, s)
	case reports.CashFlowStatement:
		cashFlow(r, s)
	case reports.EquityStatement:
		equity(r, s)
	default:
		return nil, fmt.Errorf("export: unsupported statement kind %q", st.Kind())
	}
	return r.records, nil
}

func balanceSheet(r *rows, bs reports.BalanceSheet) {
	r.add("BALANCE SHEET")
	r.add("Date", bs.Date.Format(dateFormat))
	r.blank()
	r.section("ASSETS", bs.Assets, "Total Assets")
	r.blank()
	r.section("LIABILITIES", bs.Liabilities, "Total Liabilities")
	r.blank()
	r.section("EQUITY", bs.Equity, "Total Equity")
	r.amount("Total Liabilities and Equity", bs.TotalLiabilitiesAndEquity())
}

func incomeStatement(r *rows, is reports.IncomeStatement) {
	r.add("INCOME STATEMENT")
	r.add("Period", is.Period.Label())
	r.blank()
	r.section("REVENUE", is.Revenue, "Total Revenue")
	r.blank()
	r.section("EXPENSES", is.Expenses, "Total Expenses")
	r.amount("Net Income", is.NetIncome)
}

func cashFlow(r *rows, cf reports.CashFlowStatement) {
	r.add("CASH FLOW STATEMENT")
	r.add("Period", cf.Period.Label())
	r.blank()
	r.section("OPERATING ACTIVITIES", cf.Operating, "Total Operating")
	r.blank()
	r.section("INVESTING ACTIVITIES", cf.Investing, "Total Investing")
	r.blank()
	r.section("FINANCING ACTIVITIES", cf.Financing, "Total Financing")
	if len(cf.Uncategorized.Lines) > 0 {
		r.blank()
		r.section("UNCATEGORIZED", cf.Uncategorized, "Total Uncategorized")
	}
	r.amount("Net Cash Flow", cf.NetCashFlow)
	r.amount("Beginning Cash", cf.BeginningCash)
	r.amount("Ending Cash", cf.EndingCash)
}

func equity(r *rows, es reports.EquityStatement) {
	r.add("STATEMENT OF SHAREHOLDERS' EQUITY")
	r.add("Period", es.Period.Label())
	r.blank()
	rollForward := func(rf reports.RollForward) {
		r.add(rf.Name)
		r.amount("Beginning Balance", rf.Beginning)
		r.amount("Changes", rf.Changes)
		r.amount("Ending Balance", rf.Ending)
		r.blank()
	}
	for _, rf := range es.Contributed {
		rollForward(rf)
	}

	re := es.RetainedEarnings
	r.add("Retained Earnings")
	r.amount("Beginning Balance", re.Beginning)
	r.amount("Net Income", re.NetIncome)
	if re.OtherChanges != 0 {
		r.amount("Distributions and Other Changes", re.OtherChanges)
	}
	r.amount("Ending Balance", re.Ending)
	r.blank()

	for _, rf := range es.Uncategorized {
		rollForward(rf)
	}
	r.amount("Total Shareholders' Equity", es.TotalEquity)
}

// WriteStatements writes all four statements in presentation order, separated
// by a blank row.
func WriteStatements(w io.Writer, st reports.Statements, currency string) error {
	writer := csv.NewWriter(w)
	for i, s := range st.All() {
		if i > 0 {
			if err := writer.Write([]string{""}); err != nil {
				return err
			}
		}
		records, err := StatementRows(s, currency)
		if err != nil {
			return err
		}
		if err := writer.WriteAll(records); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteReports writes the trial balance followed by the per-type distribution.
func WriteReports(w io.Writer, tb reports.TrialBalance, currency string, exported time.Time) error {
	r := &rows{currency: currency}
	r.add("FINANCIAL REPORTS")
	r.add("Export Date", exported.Format(dateFormat))
	r.blank()

	r.add("TRIAL BALANCE")
	r.add("Account Code", "Account Name", "Debit", "Credit")
	cell := func(a model.Amount) string {
		if a == 0 {
			return ""
		}
		return a.Display(currency)
	}
	for _, row := range tb.Rows {
		r.add(row.Code, row.Name, cell(row.Debit), cell(row.Credit))
	}
	r.add("TOTALS", "", tb.TotalDebits.Display(currency), tb.TotalCredits.Display(currency))
	r.blank()

	r.add("ACCOUNT DISTRIBUTION BY TYPE")
	r.add("Account Type", "Balance")
	for _, t := range tb.DistributionByType() {
		r.amount(t.Type.Label(), t.Balance)
	}

	writer := csv.NewWriter(w)
	if err := writer.WriteAll(r.records); err != nil {
		return err
	}
	return writer.Error()
}

// FileName returns the conventional export file name for a kind of export.
func FileName(kind string, at time.Time) string {
	return fmt.Sprintf("financial-%s-%s.csv", strings.ToLower(kind), at.Format("20060102-150405"))
}
