package reports

import (
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Summary is the headline figures shown by the summary command.
type Summary struct {
	Entries          int
	Accounts         int
	TotalDebits      model.Amount
	TotalAssets      model.Amount
	TotalLiabilities model.Amount
	NetIncome        model.Amount
}

// Summarize derives headline figures from a ledger snapshot and its trial
// balance.
func Summarize(snap ledger.Snapshot, tb TrialBalance) Summary {
	s := Summary{Entries: snap.Version(), Accounts: len(tb.Rows)}
	for _, b := range snap.Balances() {
		s.TotalDebits += b.Debits
	}
	for _, t := range tb.DistributionByType() {
		switch t.Type {
		case model.AccountTypeAsset:
			s.TotalAssets = t.Balance
		case model.AccountTypeLiability:
			s.TotalLiabilities = t.Balance
		}
	}
	s.NetIncome = tb.earnings()
	return s
}
