package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

var catalog = accounts.NewService(accounts.DefaultChart("corporation"))

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func usd(major int64) model.Amount { return model.Amount(major * 100) }

func entry(id string, d time.Time, debit, credit string, amount model.Amount) model.JournalEntry {
	return model.JournalEntry{
		ID:   id,
		Date: d,
		Lines: []model.JournalLine{
			{AccountCode: debit, Debit: amount},
			{AccountCode: credit, Credit: amount},
		},
	}
}

func replay(t *testing.T, entries ...model.JournalEntry) ledger.Snapshot {
	t.Helper()
	snap, err := ledger.Replay(catalog, entries)
	require.NoError(t, err)
	return snap
}

// investAndRent is the canonical two-entry scenario: $1,000 of stock issued
// for cash, then $200 of rent paid.
func investAndRent() []model.JournalEntry {
	return []model.JournalEntry{
		entry("2025-01-001", date(2025, 1, 2), accounts.CodeCash, accounts.CodeCommonStock, usd(1000)),
		entry("2025-01-002", date(2025, 1, 5), accounts.CodeRentExpense, accounts.CodeCash, usd(200)),
	}
}

var january = Period{Start: date(2025, 1, 1), End: date(2025, 1, 31)}

func categorization() Categorization {
	return Categorization{
		CashAccounts: []string{accounts.CodeCash, accounts.CodeBank},
		Accounts: map[string]Activity{
			accounts.CodeCommonStock:    ActivityFinancing,
			accounts.CodeDividends:      ActivityFinancing,
			accounts.CodeLoan:           ActivityFinancing,
			accounts.CodeEquipment:      ActivityInvesting,
			accounts.CodeRentExpense:    ActivityOperating,
			accounts.CodeServiceRevenue: ActivityOperating,
		},
	}
}

func equityClasses() map[string]EquityClass {
	return map[string]EquityClass{
		accounts.CodeCommonStock:      EquityContributedCapital,
		accounts.CodeRetainedEarnings: EquityRetainedEarnings,
		accounts.CodeDividends:        EquityRetainedEarnings,
	}
}

func requireConsistency(t *testing.T, err error) *model.ConsistencyError {
	t.Helper()
	var cerr *model.ConsistencyError
	require.ErrorAs(t, err, &cerr)
	return cerr
}
