package reports

import (
	"sort"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// EquityClass groups equity accounts on the equity statement.
type EquityClass string

const (
	EquityContributedCapital EquityClass = "contributed_capital"
	EquityRetainedEarnings   EquityClass = "retained_earnings"
)

// Valid reports whether c is a known class.
func (c EquityClass) Valid() bool {
	return c == EquityContributedCapital || c == EquityRetainedEarnings
}

// RollForward carries one equity account from the start to the end of a period.
type RollForward struct {
	Code      string
	Name      string
	Beginning model.Amount
	Changes   model.Amount
	Ending    model.Amount
}

// RetainedEarnings rolls accumulated earnings forward. Beginning and Ending
// include earnings not yet closed into an equity account.
type RetainedEarnings struct {
	Beginning    model.Amount
	NetIncome    model.Amount
	OtherChanges model.Amount // dividends and direct postings
	Changes      model.Amount
	Ending       model.Amount
}

// EquityStatement reports the movement of each equity component over a period.
type EquityStatement struct {
	Period           Period
	Contributed      []RollForward
	RetainedEarnings RetainedEarnings
	Uncategorized    []RollForward
	TotalBeginning   model.Amount
	TotalChanges     model.Amount
	TotalEquity      model.Amount
	Warnings         []model.MissingMetadata
}

// Kind implements Statement.
func (EquityStatement) Kind() Kind { return KindEquity }

// BuildEquityStatement rolls equity forward from the opening to the closing
// trial balance. Net income comes from the supplied income statement; if it
// does not explain the change in undistributed earnings between the two trial
// balances, a *model.ConsistencyError is returned with the statement.
func BuildEquityStatement(opening, closing TrialBalance, income IncomeStatement, period Period, classes map[string]EquityClass) (EquityStatement, error) {
	es := EquityStatement{Period: period}

	begin := signedByCode(opening, model.AccountTypeEquity)
	end := signedByCode(closing, model.AccountTypeEquity)
	names := map[string]string{}
	for _, r := range append(opening.byType(model.AccountTypeEquity), closing.byType(model.AccountTypeEquity)...) {
		names[r.Code] = r.Name
	}
	codes := make([]string, 0, len(names))
	for code := range names {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	re := RetainedEarnings{
		Beginning: opening.earnings(),
		NetIncome: income.NetIncome,
	}
	for _, code := range codes {
		rf := RollForward{
			Code:      code,
			Name:      names[code],
			Beginning: begin[code],
			Ending:    end[code],
			Changes:   end[code] - begin[code],
		}
		switch classes[code] {
		case EquityContributedCapital:
			es.Contributed = append(es.Contributed, rf)
		case EquityRetainedEarnings:
			re.Beginning += rf.Beginning
			re.OtherChanges += rf.Changes
		default:
			es.Uncategorized = append(es.Uncategorized, rf)
			es.Warnings = append(es.Warnings, model.MissingMetadata{Code: code, Name: rf.Name, Need: "equity class"})
		}
	}
	re.Changes = re.NetIncome + re.OtherChanges
	re.Ending = re.Beginning + re.Changes
	es.RetainedEarnings = re

	for _, rf := range append(append([]RollForward{}, es.Contributed...), es.Uncategorized...) {
		es.TotalBeginning += rf.Beginning
		es.TotalChanges += rf.Changes
		es.TotalEquity += rf.Ending
	}
	es.TotalBeginning += re.Beginning
	es.TotalChanges += re.Changes
	es.TotalEquity += re.Ending

	// The roll-forward must land on what the closing books actually hold.
	var retainedClosing model.Amount
	for code, amt := range end {
		if classes[code] == EquityRetainedEarnings {
			retainedClosing += amt
		}
	}
	if want := retainedClosing + closing.earnings(); re.Ending != want {
		return es, &model.ConsistencyError{
			Check:    "equity statement retained earnings roll-forward",
			Expected: want,
			Actual:   re.Ending,
		}
	}
	return es, nil
}

func signedByCode(tb TrialBalance, t model.AccountType) map[string]model.Amount {
	out := map[string]model.Amount{}
	for _, r := range tb.byType(t) {
		out[r.Code] = r.Signed()
	}
	return out
}
