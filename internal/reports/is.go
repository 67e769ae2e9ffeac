package reports

import "github.com/cleared-dev/ledgerbook/internal/model"

// IncomeStatement reports revenue and expenses over a period.
type IncomeStatement struct {
	Period        Period
	Revenue       Section
	Expenses      Section
	TotalRevenue  model.Amount
	TotalExpenses model.Amount
	NetIncome     model.Amount
}

// Kind implements Statement.
func (IncomeStatement) Kind() Kind { return KindIncomeStatement }

// BuildIncomeStatement aggregates a trial balance of the period's activity
// (see ledger.Snapshot.Between) into revenue and expense sections.
func BuildIncomeStatement(activity TrialBalance, period Period) IncomeStatement {
	is := IncomeStatement{
		Period:   period,
		Revenue:  Section{Label: "Revenue"},
		Expenses: Section{Label: "Expenses"},
	}
	for _, r := range activity.byType(model.AccountTypeRevenue) {
		is.Revenue.add(Line{Code: r.Code, Name: r.Name, Amount: r.Signed()})
	}
	for _, r := range activity.byType(model.AccountTypeExpense) {
		is.Expenses.add(Line{Code: r.Code, Name: r.Name, Amount: r.Signed()})
	}
	is.TotalRevenue = is.Revenue.Total
	is.TotalExpenses = is.Expenses.Total
	is.NetIncome = is.TotalRevenue - is.TotalExpenses
	return is
}
