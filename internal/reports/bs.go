package reports

import (
	"time"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// UndistributedEarningsLabel names the equity line carrying revenue minus
// expenses that have not been closed into an equity account.
const UndistributedEarningsLabel = "Undistributed Earnings"

// BalanceSheet reports assets, liabilities and equity at a date.
type BalanceSheet struct {
	Date             time.Time
	Assets           Section
	Liabilities      Section
	Equity           Section
	TotalAssets      model.Amount
	TotalLiabilities model.Amount
	TotalEquity      model.Amount
}

// Kind implements Statement.
func (BalanceSheet) Kind() Kind { return KindBalanceSheet }

// TotalLiabilitiesAndEquity is the right-hand side of the accounting equation.
func (bs BalanceSheet) TotalLiabilitiesAndEquity() model.Amount {
	return bs.TotalLiabilities + bs.TotalEquity
}

// BuildBalanceSheet groups a closing trial balance into assets, liabilities and
// equity. Cumulative revenue less expenses is reported inside equity, since the
// books carry no closing entries. A broken accounting equation is returned as a
// *model.ConsistencyError with the statement still populated.
func BuildBalanceSheet(closing TrialBalance, date time.Time) (BalanceSheet, error) {
	bs := BalanceSheet{
		Date:        date,
		Assets:      Section{Label: "Assets"},
		Liabilities: Section{Label: "Liabilities"},
		Equity:      Section{Label: "Equity"},
	}
	for _, r := range closing.byType(model.AccountTypeAsset) {
		bs.Assets.add(Line{Code: r.Code, Name: r.Name, Amount: r.Signed()})
	}
	for _, r := range closing.byType(model.AccountTypeLiability) {
		bs.Liabilities.add(Line{Code: r.Code, Name: r.Name, Amount: r.Signed()})
	}
	for _, r := range closing.byType(model.AccountTypeEquity) {
		bs.Equity.add(Line{Code: r.Code, Name: r.Name, Amount: r.Signed()})
	}
	if earnings := closing.earnings(); earnings != 0 {
		bs.Equity.add(Line{Name: UndistributedEarningsLabel, Amount: earnings})
	}

	bs.TotalAssets = bs.Assets.Total
	bs.TotalLiabilities = bs.Liabilities.Total
	bs.TotalEquity = bs.Equity.Total

	if bs.TotalAssets != bs.TotalLiabilitiesAndEquity() {
		return bs, &model.ConsistencyError{
			Check:    "balance sheet assets equal liabilities plus equity",
			Expected: bs.TotalLiabilitiesAndEquity(),
			Actual:   bs.TotalAssets,
		}
	}
	return bs, nil
}
