package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "books.db"),
		accounts.NewService(accounts.DefaultChart("corporation")))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func date(month, day int) time.Time {
	return time.Date(2025, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func pair(d time.Time, debit, credit string, cents int64) model.JournalEntry {
	return model.JournalEntry{
		Date:        d,
		Description: "test entry",
		Lines: []model.JournalLine{
			{AccountCode: debit, Debit: model.Amount(cents), Memo: "memo"},
			{AccountCode: credit, Credit: model.Amount(cents)},
		},
	}
}

func TestAdd_AssignsSequentialIDs(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	first, err := s.Add(ctx, pair(date(1, 2), accounts.CodeCash, accounts.CodeCommonStock, 100000))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-001", first.ID)

	second, err := s.Add(ctx, pair(date(1, 5), accounts.CodeRentExpense, accounts.CodeCash, 20000))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-002", second.ID)

	feb, err := s.Add(ctx, pair(date(2, 1), accounts.CodeRentExpense, accounts.CodeCash, 20000))
	require.NoError(t, err)
	assert.Equal(t, "2025-02-001", feb.ID)
}

func TestGet_RoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	want, err := s.Add(ctx, pair(date(3, 9), accounts.CodeEquipment, accounts.CodePayable, 123456))
	require.NoError(t, err)

	got, err := s.Get(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAdd_RejectsInvalid(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	bad := pair(date(1, 2), accounts.CodeCash, accounts.CodeCommonStock, 100)
	bad.Lines[1].Credit = 90
	_, err := s.Add(ctx, bad)
	var verr *journal.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(journal.RuleUnbalanced))

	_, err = s.Add(ctx, pair(date(1, 2), accounts.CodeCash, "9999", 100))
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(journal.RuleUnknownAccount))

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAdd_RejectsDuplicateID(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	e := pair(date(1, 2), accounts.CodeCash, accounts.CodeCommonStock, 100)
	e.ID = "2025-01-007"
	_, err := s.Add(ctx, e)
	require.NoError(t, err)

	_, err = s.Add(ctx, e)
	require.ErrorIs(t, err, journal.ErrDuplicateEntry)

	next, err := s.Add(ctx, pair(date(1, 3), accounts.CodeCash, accounts.CodeCommonStock, 100))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-008", next.ID)
}

func TestReadAll_ChronologicalOrder(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	_, err := s.Add(ctx, pair(date(2, 1), accounts.CodeRentExpense, accounts.CodeCash, 100))
	require.NoError(t, err)
	_, err = s.Add(ctx, pair(date(1, 15), accounts.CodeCash, accounts.CodeCommonStock, 500))
	require.NoError(t, err)
	_, err = s.Add(ctx, pair(date(1, 15), accounts.CodeSupplies, accounts.CodeCash, 50))
	require.NoError(t, err)

	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"2025-01-001", "2025-01-002", "2025-02-001"}, []string{all[0].ID, all[1].ID, all[2].ID})
	require.Len(t, all[0].Lines, 2)
	assert.Equal(t, model.Amount(500), all[0].Lines[0].Debit)
}

func TestReverse(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	orig, err := s.Add(ctx, pair(date(1, 2), accounts.CodeCash, accounts.CodeCommonStock, 1000))
	require.NoError(t, err)

	rev, err := s.Reverse(ctx, orig.ID, date(1, 10))
	require.NoError(t, err)
	assert.Equal(t, orig.ID, rev.Reverses)
	assert.Equal(t, accounts.CodeCash, rev.Lines[0].AccountCode)
	assert.Equal(t, model.Amount(1000), rev.Lines[0].Credit)

	_, err = s.Reverse(ctx, orig.ID, date(1, 11))
	require.ErrorIs(t, err, journal.ErrAlreadyReversed)

	_, err = s.Reverse(ctx, "2025-01-099", date(1, 11))
	require.ErrorIs(t, err, journal.ErrEntryNotFound)
}

func TestTriggers_FinalizedEntriesAreImmutable(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	e, err := s.Add(ctx, pair(date(1, 2), accounts.CodeCash, accounts.CodeCommonStock, 1000))
	require.NoError(t, err)

	_, err = s.writer.ExecContext(ctx, `UPDATE lines SET debit = 1 WHERE entry_id = ?`, e.ID)
	assert.ErrorContains(t, err, "cannot modify lines")

	_, err = s.writer.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, e.ID)
	assert.ErrorContains(t, err, "post a reversal")
}

func TestTriggers_RejectUnbalancedFinalize(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	_, err := s.writer.ExecContext(ctx, `INSERT INTO entries (id, date) VALUES ('2025-01-001', '2025-01-02')`)
	require.NoError(t, err)
	_, err = s.writer.ExecContext(ctx, `INSERT INTO lines (entry_id, account_code, debit) VALUES ('2025-01-001', '1010', 100)`)
	require.NoError(t, err)

	_, err = s.writer.ExecContext(ctx, `UPDATE entries SET finalized = 1 WHERE id = '2025-01-001'`)
	assert.ErrorContains(t, err, "do not balance")
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.db")
	chart := accounts.NewService(accounts.DefaultChart("corporation"))
	ctx := context.Background()

	s, err := Open(ctx, path, chart)
	require.NoError(t, err)
	_, err = s.Add(ctx, pair(date(1, 2), accounts.CodeCash, accounts.CodeCommonStock, 1000))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, chart)
	require.NoError(t, err)
	defer s.Close()
	all, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
