package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func TestBuildCashFlowStatement_Activities(t *testing.T) {
	snap := replay(t,
		entry("2024-12-001", date(2024, 12, 15), accounts.CodeCash, accounts.CodeCommonStock, usd(500)),
		entry("2025-01-001", date(2025, 1, 2), accounts.CodeCash, accounts.CodeCommonStock, usd(1000)),
		entry("2025-01-002", date(2025, 1, 5), accounts.CodeRentExpense, accounts.CodeCash, usd(200)),
		entry("2025-01-003", date(2025, 1, 8), accounts.CodeEquipment, accounts.CodeBank, usd(300)),
		// No cash involved.
		entry("2025-01-004", date(2025, 1, 9), accounts.CodeReceivable, accounts.CodeServiceRevenue, usd(400)),
		// Transfer between cash accounts.
		entry("2025-01-005", date(2025, 1, 10), accounts.CodeBank, accounts.CodeCash, usd(600)),
	)

	cf, err := BuildCashFlowStatement(catalog, snap, january, categorization())
	require.NoError(t, err)

	assert.Equal(t, KindCashFlow, cf.Kind())
	assert.Equal(t, usd(500), cf.BeginningCash)
	assert.Equal(t, usd(1000), cf.Financing.Total)
	assert.Equal(t, usd(-200), cf.Operating.Total)
	assert.Equal(t, usd(-300), cf.Investing.Total)
	assert.Empty(t, cf.Uncategorized.Lines)
	assert.Empty(t, cf.Warnings)
	assert.Equal(t, usd(500), cf.NetCashFlow)
	assert.Equal(t, usd(1000), cf.EndingCash)
	assert.Equal(t, cf.BeginningCash+cf.NetCashFlow, cf.EndingCash)
}

func TestBuildCashFlowStatement_EntryTagWins(t *testing.T) {
	snap := replay(t,
		entry("2025-01-001", date(2025, 1, 2), accounts.CodeCash, accounts.CodeServiceRevenue, usd(700)),
	)
	cat := categorization()
	cat.Entries = map[string]Activity{"2025-01-001": ActivityFinancing}

	cf, err := BuildCashFlowStatement(catalog, snap, january, cat)
	require.NoError(t, err)

	assert.Zero(t, cf.Operating.Total)
	require.Len(t, cf.Financing.Lines, 1)
	assert.Equal(t, Line{Code: accounts.CodeServiceRevenue, Name: "Service Revenue", Amount: usd(700)}, cf.Financing.Lines[0])
}

func TestBuildCashFlowStatement_UncategorizedWarns(t *testing.T) {
	snap := replay(t,
		entry("2025-01-001", date(2025, 1, 2), accounts.CodeCash, accounts.CodeCommonStock, usd(1000)),
		entry("2025-01-002", date(2025, 1, 3), accounts.CodeSalaries, accounts.CodeCash, usd(150)),
	)

	cf, err := BuildCashFlowStatement(catalog, snap, january, categorization())
	require.NoError(t, err, "missing metadata is a warning")

	require.Len(t, cf.Uncategorized.Lines, 1)
	assert.Equal(t, usd(-150), cf.Uncategorized.Total)
	require.Len(t, cf.Warnings, 1)
	assert.Equal(t, model.MissingMetadata{Code: accounts.CodeSalaries, Name: "Salaries Expense", Need: "cash flow activity"}, cf.Warnings[0])
	assert.Equal(t, usd(850), cf.NetCashFlow)
	assert.Equal(t, cf.BeginningCash+cf.NetCashFlow, cf.EndingCash)
}

func TestBuildCashFlowStatement_CreditNormalCashAccount(t *testing.T) {
	// A payable configured as a cash account is read debit-positive like
	// every other cash account.
	snap := replay(t,
		entry("2024-12-001", date(2024, 12, 20), accounts.CodeRentExpense, accounts.CodePayable, usd(50)),
		entry("2025-01-001", date(2025, 1, 2), accounts.CodeCash, accounts.CodeCommonStock, usd(1000)),
		entry("2025-01-002", date(2025, 1, 5), accounts.CodeRentExpense, accounts.CodePayable, usd(200)),
	)
	cat := categorization()
	cat.CashAccounts = []string{accounts.CodeCash, accounts.CodePayable}

	cf, err := BuildCashFlowStatement(catalog, snap, january, cat)
	require.NoError(t, err)

	assert.Equal(t, usd(-50), cf.BeginningCash)
	assert.Equal(t, usd(1000), cf.Financing.Total)
	assert.Equal(t, usd(-200), cf.Operating.Total)
	assert.Equal(t, usd(750), cf.EndingCash)
	assert.Equal(t, cf.BeginningCash+cf.NetCashFlow, cf.EndingCash)
}

func TestBuildCashFlowStatement_InvalidPeriod(t *testing.T) {
	_, err := BuildCashFlowStatement(catalog, replay(t), Period{Start: date(2025, 2, 1), End: date(2025, 1, 1)}, categorization())
	require.ErrorIs(t, err, ErrInvalidPeriod)
}
