package accounts

import "github.com/cleared-dev/ledgerbook/internal/model"

// Well-known codes in the default chart.
const (
	CodeCash             = "1010"
	CodeBank             = "1020"
	CodeReceivable       = "1100"
	CodeEquipment        = "1500"
	CodePayable          = "2010"
	CodeLoan             = "2500"
	CodeCommonStock      = "3010"
	CodeRetainedEarnings = "3020"
	CodeDividends        = "3030"
	CodeServiceRevenue   = "4010"
	CodeProductRevenue   = "4020"
	CodeRentExpense      = "5010"
	CodeSalaries         = "5020"
	CodeUtilities        = "5030"
	CodeSupplies         = "5040"
)

// DefaultChart returns the default chart of accounts for an entity type.
func DefaultChart(entityType string) []model.Account {
	switch entityType {
	case "corporation":
		return corporationChart()
	default:
		return corporationChart()
	}
}

func corporationChart() []model.Account {
	return []model.Account{
		{Code: CodeCash, Name: "Cash", Type: model.AccountTypeAsset, Description: "Cash on hand"},
		{Code: CodeBank, Name: "Bank Account", Type: model.AccountTypeAsset, Description: "Primary operating account"},
		{Code: CodeReceivable, Name: "Accounts Receivable", Type: model.AccountTypeAsset},
		{Code: CodeEquipment, Name: "Equipment", Type: model.AccountTypeAsset, Description: "Fixed assets"},
		{Code: CodePayable, Name: "Accounts Payable", Type: model.AccountTypeLiability},
		{Code: CodeLoan, Name: "Loans Payable", Type: model.AccountTypeLiability, Description: "Long-term borrowing"},
		{Code: CodeCommonStock, Name: "Common Stock", Type: model.AccountTypeEquity},
		{Code: CodeRetainedEarnings, Name: "Retained Earnings", Type: model.AccountTypeEquity},
		{Code: CodeDividends, Name: "Dividends", Type: model.AccountTypeEquity, ParentCode: CodeRetainedEarnings, Description: "Distributions to shareholders"},
		{Code: CodeServiceRevenue, Name: "Service Revenue", Type: model.AccountTypeRevenue},
		{Code: CodeProductRevenue, Name: "Product Revenue", Type: model.AccountTypeRevenue},
		{Code: CodeRentExpense, Name: "Rent Expense", Type: model.AccountTypeExpense},
		{Code: CodeSalaries, Name: "Salaries Expense", Type: model.AccountTypeExpense},
		{Code: CodeUtilities, Name: "Utilities Expense", Type: model.AccountTypeExpense},
		{Code: CodeSupplies, Name: "Office Supplies", Type: model.AccountTypeExpense},
	}
}
