package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		typ    model.AccountType
		side   model.Side
		bucket Bucket
	}{
		{model.AccountTypeAsset, model.Debit, BucketBalanceSheet},
		{model.AccountTypeLiability, model.Credit, BucketBalanceSheet},
		{model.AccountTypeEquity, model.Credit, BucketBalanceSheet},
		{model.AccountTypeRevenue, model.Credit, BucketIncomeStatement},
		{model.AccountTypeExpense, model.Debit, BucketIncomeStatement},
	}
	for _, tt := range tests {
		c, err := Classify(tt.typ)
		require.NoError(t, err)
		assert.Equal(t, tt.side, c.NormalSide, "normal side of %s", tt.typ)
		assert.Equal(t, tt.bucket, c.Bucket, "bucket of %s", tt.typ)
		assert.Equal(t, tt.side, NormalSide(tt.typ))
	}
}

func TestClassify_Unknown(t *testing.T) {
	_, err := Classify("contra")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAccountType)
}

func TestClassify_CoversAllTypes(t *testing.T) {
	for _, typ := range model.AccountTypes {
		_, err := Classify(typ)
		assert.NoError(t, err, "type %s should be classified", typ)
	}
}
