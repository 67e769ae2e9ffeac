package reports

import (
	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// TrialBalanceRow lists one account with its balance in the column it sits on.
type TrialBalanceRow struct {
	Code   string
	Name   string
	Type   model.AccountType
	Debit  model.Amount
	Credit model.Amount
}

// Signed returns the row's balance in the normal-balance convention of its
// account type.
func (r TrialBalanceRow) Signed() model.Amount {
	if accounts.NormalSide(r.Type) == model.Debit {
		return r.Debit - r.Credit
	}
	return r.Credit - r.Debit
}

// TrialBalance is a debit/credit-columned summary of the ledger.
type TrialBalance struct {
	Rows         []TrialBalanceRow
	TotalDebits  model.Amount
	TotalCredits model.Amount
}

// TypeTotal is the net balance of all accounts of one type.
type TypeTotal struct {
	Type    model.AccountType
	Balance model.Amount
}

// BuildTrialBalance converts ledger balances into trial balance rows, one per
// account with a non-zero balance, sorted by code. When the columns do not
// agree the trial balance is still returned alongside a
// *model.ConsistencyError.
func BuildTrialBalance(catalog accounts.Catalog, snap ledger.Snapshot) (TrialBalance, error) {
	var tb TrialBalance
	for _, b := range snap.Balances() {
		if b.Balance == 0 {
			continue
		}
		row := TrialBalanceRow{Code: b.Code, Name: b.Code, Type: b.Type}
		if acct, ok := catalog.Lookup(b.Code); ok {
			row.Name = acct.Name
		}

		// A positive balance sits on the normal side; a negative one on the other.
		side := b.NormalSide
		if b.Balance < 0 {
			side = side.Opposite()
		}
		if side == model.Debit {
			row.Debit = b.Balance.Abs()
			tb.TotalDebits += row.Debit
		} else {
			row.Credit = b.Balance.Abs()
			tb.TotalCredits += row.Credit
		}
		tb.Rows = append(tb.Rows, row)
	}
	return tb, tb.Check()
}

// Check verifies that total debits equal total credits.
func (tb TrialBalance) Check() error {
	if tb.TotalDebits != tb.TotalCredits {
		return &model.ConsistencyError{
			Check:    "trial balance debits equal credits",
			Expected: tb.TotalCredits,
			Actual:   tb.TotalDebits,
		}
	}
	return nil
}

// DistributionByType sums signed balances per account type, in statement order.
func (tb TrialBalance) DistributionByType() []TypeTotal {
	sums := make(map[model.AccountType]model.Amount)
	for _, r := range tb.Rows {
		sums[r.Type] += r.Signed()
	}
	out := make([]TypeTotal, 0, len(model.AccountTypes))
	for _, t := range model.AccountTypes {
		out = append(out, TypeTotal{Type: t, Balance: sums[t]})
	}
	return out
}

// earnings returns cumulative revenue minus expenses in the trial balance.
func (tb TrialBalance) earnings() model.Amount {
	var total model.Amount
	for _, r := range tb.Rows {
		switch r.Type {
		case model.AccountTypeRevenue:
			total += r.Signed()
		case model.AccountTypeExpense:
			total -= r.Signed()
		}
	}
	return total
}

func (tb TrialBalance) byType(t model.AccountType) []TrialBalanceRow {
	var out []TrialBalanceRow
	for _, r := range tb.Rows {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}
