package ledger

import (
	"sort"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Balance is the derived state of one ledger account. Balance is signed per the
// normal-balance convention: positive means more of the normal side.
type Balance struct {
	Code       string
	Type       model.AccountType
	NormalSide model.Side
	Balance    model.Amount
	Debits     model.Amount
	Credits    model.Amount
}

// Movement is one posted line, kept in posting order for audit trails and
// point-in-time queries.
type Movement struct {
	Seq     int
	EntryID string
	Date    time.Time
	Code    string
	Side    model.Side
	Amount  model.Amount
	Running model.Amount // account balance after this movement
}

// Snapshot is an immutable, versioned view of the ledger. Posting returns a new
// Snapshot; a Snapshot is never modified after it is returned, so it can be
// shared between goroutines. The zero value is an empty ledger.
type Snapshot struct {
	version   int
	balances  map[string]Balance
	movements []Movement
	posted    map[string]bool
}

// Version counts the entries folded into this snapshot.
func (s Snapshot) Version() int { return s.version }

// Balance returns the balance for an account code.
func (s Snapshot) Balance(code string) (Balance, bool) {
	b, ok := s.balances[code]
	return b, ok
}

// Balances returns all account balances sorted by code.
func (s Snapshot) Balances() []Balance {
	out := make([]Balance, 0, len(s.balances))
	for _, b := range s.balances {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Movements returns the posting history for an account, or every movement
// when code is empty.
func (s Snapshot) Movements(code string) []Movement {
	var out []Movement
	for _, m := range s.movements {
		if code == "" || m.Code == code {
			out = append(out, m)
		}
	}
	return out
}

// HasPostings reports whether any movement touches the account.
func (s Snapshot) HasPostings(code string) bool {
	b, ok := s.balances[code]
	return ok && (b.Debits != 0 || b.Credits != 0)
}

// Posted reports whether an entry ID has already been folded in.
func (s Snapshot) Posted(entryID string) bool {
	return s.posted[entryID]
}

// AsOf returns the ledger as it stood at the end of date.
func (s Snapshot) AsOf(date time.Time) Snapshot {
	return s.replay(func(m Movement) bool { return !m.Date.After(date) })
}

// Before returns the ledger as it stood just before date.
func (s Snapshot) Before(date time.Time) Snapshot {
	return s.replay(func(m Movement) bool { return m.Date.Before(date) })
}

// Between returns a snapshot holding only the movements dated within
// [start, end]. Its balances are the period's net activity per account.
func (s Snapshot) Between(start, end time.Time) Snapshot {
	return s.replay(func(m Movement) bool { return !m.Date.Before(start) && !m.Date.After(end) })
}

// CheckBalanced verifies the global double-entry invariant: the balances of
// debit-normal accounts sum to the balances of credit-normal accounts.
func (s Snapshot) CheckBalanced() error {
	var debitNormal, creditNormal model.Amount
	for _, b := range s.balances {
		if b.NormalSide == model.Debit {
			debitNormal += b.Balance
		} else {
			creditNormal += b.Balance
		}
	}
	if debitNormal != creditNormal {
		return &model.ConsistencyError{
			Check:    "ledger debit-normal balances equal credit-normal balances",
			Expected: creditNormal,
			Actual:   debitNormal,
		}
	}
	return nil
}

// replay folds the movements accepted by keep into a fresh snapshot. Account
// types and normal sides are carried from s.
func (s Snapshot) replay(keep func(Movement) bool) Snapshot {
	out := Snapshot{
		balances: make(map[string]Balance),
		posted:   make(map[string]bool),
	}
	for _, m := range s.movements {
		if !keep(m) {
			continue
		}
		src := s.balances[m.Code]
		b, ok := out.balances[m.Code]
		if !ok {
			b = Balance{Code: m.Code, Type: src.Type, NormalSide: src.NormalSide}
		}
		m.Running = b.add(m.Side, m.Amount)
		out.balances[m.Code] = b.with(m.Side, m.Amount)
		m.Seq = len(out.movements) + 1
		out.movements = append(out.movements, m)
		if !out.posted[m.EntryID] {
			out.posted[m.EntryID] = true
			out.version++
		}
	}
	return out
}

// add returns the balance after applying amount on side.
func (b Balance) add(side model.Side, amount model.Amount) model.Amount {
	if side == b.NormalSide {
		return b.Balance + amount
	}
	return b.Balance - amount
}

// post is with, failing instead of wrapping when a total overflows.
func (b Balance) post(side model.Side, amount model.Amount) (Balance, error) {
	delta := amount
	if side != b.NormalSide {
		delta = -amount
	}
	var err error
	if b.Balance, err = b.Balance.Add(delta); err != nil {
		return b, err
	}
	if side == model.Debit {
		b.Debits, err = b.Debits.Add(amount)
	} else {
		b.Credits, err = b.Credits.Add(amount)
	}
	return b, err
}

func (b Balance) with(side model.Side, amount model.Amount) Balance {
	b.Balance = b.add(side, amount)
	if side == model.Debit {
		b.Debits += amount
	} else {
		b.Credits += amount
	}
	return b
}

func (s Snapshot) clone(extraMovements int) Snapshot {
	out := Snapshot{
		version:   s.version,
		balances:  make(map[string]Balance, len(s.balances)),
		movements: make([]Movement, len(s.movements), len(s.movements)+extraMovements),
		posted:    make(map[string]bool, len(s.posted)+1),
	}
	for k, v := range s.balances {
		out.balances[k] = v
	}
	copy(out.movements, s.movements)
	for k := range s.posted {
		out.posted[k] = true
	}
	return out
}
