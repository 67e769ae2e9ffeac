package accounts

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

type fakeLedger map[string]bool

func (f fakeLedger) HasPostings(code string) bool { return f[code] }

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart("corporation")
	require.NotEmpty(t, chart)

	types := make(map[model.AccountType]bool)
	for _, acct := range chart {
		assert.NotEmpty(t, acct.Name, "account %s missing name", acct.Code)
		types[acct.Type] = true
	}
	for _, typ := range model.AccountTypes {
		assert.True(t, types[typ], "default chart should include %s accounts", typ)
	}

	// Unknown entity types fall back to the corporation chart.
	assert.Equal(t, chart, DefaultChart("unknown_type"))
}

func TestLookupExists(t *testing.T) {
	svc := NewService(DefaultChart("corporation"))

	acct, ok := svc.Lookup(CodeCash)
	assert.True(t, ok)
	assert.Equal(t, "Cash", acct.Name)

	_, ok = svc.Lookup("9999")
	assert.False(t, ok)
	assert.True(t, svc.Exists(CodeCommonStock))
	assert.False(t, svc.Exists("9999"))
}

func TestByType(t *testing.T) {
	svc := NewService(DefaultChart("corporation"))

	assets := svc.ByType(model.AccountTypeAsset)
	assert.Len(t, assets, 4)
	for _, a := range assets {
		assert.Equal(t, model.AccountTypeAsset, a.Type)
	}
	assert.Len(t, svc.ByType(model.AccountTypeExpense), 4)
}

func TestAdd(t *testing.T) {
	svc := NewService(nil)
	require.NoError(t, svc.Add(model.Account{Code: "1010", Name: "Cash", Type: model.AccountTypeAsset}))

	err := svc.Add(model.Account{Code: "1010", Name: "Again", Type: model.AccountTypeAsset})
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	err = svc.Add(model.Account{Code: "9000", Name: "Bad", Type: "contra"})
	assert.ErrorIs(t, err, ErrUnknownAccountType)
	assert.Len(t, svc.All(), 1)
}

func TestReclassify(t *testing.T) {
	svc := NewService(DefaultChart("corporation"))

	// No postings: allowed.
	require.NoError(t, svc.Reclassify(CodeSupplies, model.AccountTypeAsset, fakeLedger{}))
	acct, _ := svc.Lookup(CodeSupplies)
	assert.Equal(t, model.AccountTypeAsset, acct.Type)

	// Postings exist: refused and unchanged.
	err := svc.Reclassify(CodeRentExpense, model.AccountTypeAsset, fakeLedger{CodeRentExpense: true})
	require.ErrorIs(t, err, ErrTypeLocked)
	acct, _ = svc.Lookup(CodeRentExpense)
	assert.Equal(t, model.AccountTypeExpense, acct.Type)

	// Same type is a no-op even with postings.
	assert.NoError(t, svc.Reclassify(CodeRentExpense, model.AccountTypeExpense, fakeLedger{CodeRentExpense: true}))

	assert.ErrorIs(t, svc.Reclassify("9999", model.AccountTypeAsset, nil), ErrAccountNotFound)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	chart := DefaultChart("corporation")
	svc := NewService(chart)

	dir := t.TempDir()
	require.NoError(t, svc.Save(dir))

	_, err := os.Stat(Path(dir))
	require.NoError(t, err)

	svc2, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, chart, svc2.All())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
