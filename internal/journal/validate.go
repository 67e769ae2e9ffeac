package journal

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Rule identifies which entry invariant a violation breaks.
type Rule string

const (
	RuleMissingHeader  Rule = "missing-header"
	RuleTooFewLines    Rule = "too-few-lines"
	RuleOneSide        Rule = "one-side-per-line"
	RuleUnbalanced     Rule = "unbalanced"
	RuleOutOfRange     Rule = "out-of-range"
	RuleUnknownAccount Rule = "unknown-account"
)

// Violation describes a single invariant violation. Line is the zero-based
// line index, or -1 for entry-level violations.
type Violation struct {
	Rule        Rule
	Line        int
	Description string
}

func (v Violation) String() string {
	if v.Line < 0 {
		return fmt.Sprintf("%s: %s", v.Rule, v.Description)
	}
	return fmt.Sprintf("%s (line %d): %s", v.Rule, v.Line+1, v.Description)
}

// ValidationError rejects a journal entry. It is user-correctable: the entry
// was never posted.
type ValidationError struct {
	EntryID    string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("entry %s rejected: %s", e.EntryID, strings.Join(msgs, "; "))
}

// Has reports whether the error contains a violation of rule.
func (e *ValidationError) Has(rule Rule) bool {
	for _, v := range e.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

// AccountChecker tests whether an account code exists in the chart of accounts.
type AccountChecker interface {
	Exists(code string) bool
}

// Validate checks the structural invariants of an entry: a header, at least two
// lines, exactly one positive side per line, and debits equal to credits in
// minor units. It returns nil or a *ValidationError.
func Validate(entry model.JournalEntry) error {
	var vs []Violation

	if entry.ID == "" {
		vs = append(vs, Violation{Rule: RuleMissingHeader, Line: -1, Description: "entry id is required"})
	}
	if entry.Date.IsZero() {
		vs = append(vs, Violation{Rule: RuleMissingHeader, Line: -1, Description: "entry date is required"})
	}
	if len(entry.Lines) < 2 {
		vs = append(vs, Violation{
			Rule:        RuleTooFewLines,
			Line:        -1,
			Description: fmt.Sprintf("need at least 2 lines, got %d", len(entry.Lines)),
		})
	}

	for i, line := range entry.Lines {
		switch {
		case line.Debit < 0 || line.Credit < 0:
			vs = append(vs, Violation{Rule: RuleOneSide, Line: i, Description: "amounts must not be negative"})
		case line.Debit > 0 && line.Credit > 0:
			vs = append(vs, Violation{Rule: RuleOneSide, Line: i, Description: "line has both debit and credit"})
		case line.Debit == 0 && line.Credit == 0:
			vs = append(vs, Violation{Rule: RuleOneSide, Line: i, Description: "line has neither debit nor credit"})
		}
	}

	debits, credits, err := entry.Totals()
	switch {
	case err != nil:
		vs = append(vs, Violation{Rule: RuleOutOfRange, Line: -1, Description: err.Error()})
	case debits != credits:
		vs = append(vs, Violation{
			Rule:        RuleUnbalanced,
			Line:        -1,
			Description: fmt.Sprintf("debits (%d) != credits (%d), off by %d minor units", debits, credits, debits-credits),
		})
	}

	if len(vs) == 0 {
		return nil
	}
	return &ValidationError{EntryID: entry.ID, Violations: vs}
}

// ValidateAccounts runs Validate and additionally checks that every line
// references a known account.
func ValidateAccounts(entry model.JournalEntry, accounts AccountChecker) error {
	var vs []Violation
	if err := Validate(entry); err != nil {
		vs = append(vs, err.(*ValidationError).Violations...)
	}
	for i, line := range entry.Lines {
		if !accounts.Exists(line.AccountCode) {
			vs = append(vs, Violation{
				Rule:        RuleUnknownAccount,
				Line:        i,
				Description: fmt.Sprintf("unknown account %q", line.AccountCode),
			})
		}
	}
	if len(vs) == 0 {
		return nil
	}
	return &ValidationError{EntryID: entry.ID, Violations: vs}
}

// ValidateAll validates entries in parallel. The result slice is aligned with
// the input; a nil element means the entry is valid. The returned error is
// non-nil only if ctx is cancelled.
func ValidateAll(ctx context.Context, entries []model.JournalEntry, accounts AccountChecker) ([]error, error) {
	results := make([]error, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if accounts != nil {
				results[i] = ValidateAccounts(entries[i], accounts)
			} else {
				results[i] = Validate(entries[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
