package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every account type in statement order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// Label returns the display label for an account type.
func (t AccountType) Label() string {
	switch t {
	case AccountTypeAsset:
		return "Assets"
	case AccountTypeLiability:
		return "Liabilities"
	case AccountTypeEquity:
		return "Equity"
	case AccountTypeRevenue:
		return "Revenue"
	case AccountTypeExpense:
		return "Expenses"
	default:
		return string(t)
	}
}

// Side is one column of a double-entry book.
type Side string

const (
	Debit  Side = "debit"
	Credit Side = "credit"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Debit {
		return Credit
	}
	return Debit
}

// Account represents a row in chart-of-accounts.csv.
type Account struct {
	Code        string
	Name        string
	Type        AccountType
	ParentCode  string // empty = top-level
	Description string
}
