package accounts

import (
	"errors"
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// ErrUnknownAccountType is returned when an account type has no catalog entry.
var ErrUnknownAccountType = errors.New("unknown account type")

// Bucket names the statement an account type reports on.
type Bucket string

const (
	BucketBalanceSheet    Bucket = "balance_sheet"
	BucketIncomeStatement Bucket = "income_statement"
)

// Classification is the catalog entry for an account type.
type Classification struct {
	NormalSide model.Side
	Bucket     Bucket
}

var classifications = map[model.AccountType]Classification{
	model.AccountTypeAsset:     {NormalSide: model.Debit, Bucket: BucketBalanceSheet},
	model.AccountTypeLiability: {NormalSide: model.Credit, Bucket: BucketBalanceSheet},
	model.AccountTypeEquity:    {NormalSide: model.Credit, Bucket: BucketBalanceSheet},
	model.AccountTypeRevenue:   {NormalSide: model.Credit, Bucket: BucketIncomeStatement},
	model.AccountTypeExpense:   {NormalSide: model.Debit, Bucket: BucketIncomeStatement},
}

// Classify returns the normal balance side and statement bucket for a type.
func Classify(t model.AccountType) (Classification, error) {
	c, ok := classifications[t]
	if !ok {
		return Classification{}, fmt.Errorf("%w: %q", ErrUnknownAccountType, t)
	}
	return c, nil
}

// NormalSide returns the normal balance side for a type. Unknown types are
// treated as debit-normal; callers that care should use Classify.
func NormalSide(t model.AccountType) model.Side {
	if c, ok := classifications[t]; ok {
		return c.NormalSide
	}
	return model.Debit
}

// Catalog resolves account codes to accounts.
type Catalog interface {
	Lookup(code string) (model.Account, bool)
}
