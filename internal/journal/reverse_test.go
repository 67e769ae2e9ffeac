package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

func TestReverse(t *testing.T) {
	original := model.JournalEntry{
		ID:          "2025-01-001",
		Date:        date(2025, 1, 15),
		Description: "Rent",
		Lines: []model.JournalLine{
			{AccountCode: "5010", Debit: usd("200"), Memo: "January"},
			{AccountCode: "1010", Credit: usd("200")},
		},
	}

	rev := Reverse(original, "2025-02-001", date(2025, 2, 1))
	assert.Equal(t, "2025-02-001", rev.ID)
	assert.Equal(t, "2025-01-001", rev.Reverses)
	assert.Equal(t, date(2025, 2, 1), rev.Date)
	assert.Contains(t, rev.Description, "Rent")
	assert.Equal(t, []model.JournalLine{
		{AccountCode: "5010", Credit: usd("200"), Memo: "January"},
		{AccountCode: "1010", Debit: usd("200")},
	}, rev.Lines)
	assert.NoError(t, Validate(rev))

	// The original is untouched.
	assert.Equal(t, usd("200"), original.Lines[0].Debit)
}
