package reports

import (
	"fmt"
	"sort"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Activity is a cash flow category.
type Activity string

const (
	ActivityOperating Activity = "operating"
	ActivityInvesting Activity = "investing"
	ActivityFinancing Activity = "financing"
)

// Valid reports whether a is a known activity.
func (a Activity) Valid() bool {
	switch a {
	case ActivityOperating, ActivityInvesting, ActivityFinancing:
		return true
	}
	return false
}

// Categorization is the metadata cash flow attribution relies on. Entry tags
// take precedence over account tags.
type Categorization struct {
	CashAccounts []string
	Accounts     map[string]Activity
	Entries      map[string]Activity
}

func (c Categorization) isCash(code string) bool {
	for _, cash := range c.CashAccounts {
		if cash == code {
			return true
		}
	}
	return false
}

// CashFlowStatement reports the change in cash over a period by activity.
type CashFlowStatement struct {
	Period        Period
	Operating     Section
	Investing     Section
	Financing     Section
	Uncategorized Section
	NetCashFlow   model.Amount
	BeginningCash model.Amount
	EndingCash    model.Amount
	Warnings      []model.MissingMetadata
}

// Kind implements Statement.
func (CashFlowStatement) Kind() Kind { return KindCashFlow }

// BuildCashFlowStatement attributes every cash-affecting entry in the period to
// activities. Each non-cash line of such an entry contributes credit minus debit
// to its category, so the contributions of one entry sum to its net cash
// movement. Lines without a tag are reported as Uncategorized and produce a
// warning.
func BuildCashFlowStatement(catalog accounts.Catalog, snap ledger.Snapshot, period Period, cat Categorization) (CashFlowStatement, error) {
	cf := CashFlowStatement{
		Period:        period,
		Operating:     Section{Label: "Operating Activities"},
		Investing:     Section{Label: "Investing Activities"},
		Financing:     Section{Label: "Financing Activities"},
		Uncategorized: Section{Label: "Uncategorized"},
	}
	if err := period.Validate(); err != nil {
		return cf, err
	}

	cf.BeginningCash = cashBalance(snap.Before(period.Start), cat)
	cf.EndingCash = cashBalance(snap.AsOf(period.End), cat)

	// Group the period's movements by entry, keeping posting order.
	var order []string
	byEntry := make(map[string][]ledger.Movement)
	for _, m := range snap.Between(period.Start, period.End).Movements("") {
		if _, ok := byEntry[m.EntryID]; !ok {
			order = append(order, m.EntryID)
		}
		byEntry[m.EntryID] = append(byEntry[m.EntryID], m)
	}

	sums := map[Activity]map[string]model.Amount{}
	uncategorized := map[string]model.Amount{}
	for _, entryID := range order {
		movements := byEntry[entryID]
		var cashNet model.Amount
		for _, m := range movements {
			if cat.isCash(m.Code) {
				cashNet += signedCash(m)
			}
		}
		if cashNet == 0 {
			continue
		}
		for _, m := range movements {
			if cat.isCash(m.Code) {
				continue
			}
			contribution := -signedCash(m)
			activity, ok := cat.Entries[entryID]
			if !ok {
				activity, ok = cat.Accounts[m.Code]
			}
			if !ok {
				uncategorized[m.Code] += contribution
				continue
			}
			if sums[activity] == nil {
				sums[activity] = map[string]model.Amount{}
			}
			sums[activity][m.Code] += contribution
		}
	}

	fill(&cf.Operating, catalog, sums[ActivityOperating])
	fill(&cf.Investing, catalog, sums[ActivityInvesting])
	fill(&cf.Financing, catalog, sums[ActivityFinancing])
	fill(&cf.Uncategorized, catalog, uncategorized)
	for _, l := range cf.Uncategorized.Lines {
		cf.Warnings = append(cf.Warnings, model.MissingMetadata{Code: l.Code, Name: l.Name, Need: "cash flow activity"})
	}

	cf.NetCashFlow = cf.Operating.Total + cf.Investing.Total + cf.Financing.Total + cf.Uncategorized.Total
	if cf.EndingCash != cf.BeginningCash+cf.NetCashFlow {
		return cf, &model.ConsistencyError{
			Check:    fmt.Sprintf("cash flow %s: ending cash equals beginning cash plus net change", period.Label()),
			Expected: cf.BeginningCash + cf.NetCashFlow,
			Actual:   cf.EndingCash,
		}
	}
	return cf, nil
}

// signedCash is the movement's effect on a debit-normal cash balance.
func signedCash(m ledger.Movement) model.Amount {
	if m.Side == model.Debit {
		return m.Amount
	}
	return -m.Amount
}

// cashBalance sums the cash accounts debit-positive, matching signedCash
// whatever normal side an account has.
func cashBalance(snap ledger.Snapshot, cat Categorization) model.Amount {
	var total model.Amount
	for _, code := range cat.CashAccounts {
		if b, ok := snap.Balance(code); ok {
			total += b.Debits - b.Credits
		}
	}
	return total
}

func fill(s *Section, catalog accounts.Catalog, sums map[string]model.Amount) {
	codes := make([]string, 0, len(sums))
	for code, amt := range sums {
		if amt != 0 {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	for _, code := range codes {
		name := code
		if acct, ok := catalog.Lookup(code); ok {
			name = acct.Name
		}
		s.add(Line{Code: code, Name: name, Amount: sums[code]})
	}
}
