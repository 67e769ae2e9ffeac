package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

var (
	// ErrDuplicateAccount is returned when adding a code that already exists.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrAccountNotFound is returned for an unknown account code.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTypeLocked is returned when reclassifying an account that has postings.
	ErrTypeLocked = errors.New("account type is locked once postings exist")
)

// PostingChecker reports whether the ledger holds postings against an account.
type PostingChecker interface {
	HasPostings(code string) bool
}

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byCode   map[string]int
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	s := &Service{byCode: make(map[string]int, len(accounts))}
	for _, a := range accounts {
		if _, dup := s.byCode[a.Code]; dup {
			continue
		}
		s.byCode[a.Code] = len(s.accounts)
		s.accounts = append(s.accounts, a)
	}
	return s
}

// Path returns the chart of accounts location under a repo root.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, "accounts", "chart-of-accounts.csv")
}

// Load reads chart-of-accounts.csv from a repo root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(Path(repoRoot))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts in chart order.
func (s *Service) All() []model.Account {
	out := make([]model.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Lookup returns an account by code.
func (s *Service) Lookup(code string) (model.Account, bool) {
	i, ok := s.byCode[code]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// Exists reports whether an account code exists.
func (s *Service) Exists(code string) bool {
	_, ok := s.byCode[code]
	return ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Add appends a new account to the chart.
func (s *Service) Add(acct model.Account) error {
	if _, err := Classify(acct.Type); err != nil {
		return fmt.Errorf("account %s: %w", acct.Code, err)
	}
	if s.Exists(acct.Code) {
		return fmt.Errorf("%w: %s", ErrDuplicateAccount, acct.Code)
	}
	s.byCode[acct.Code] = len(s.accounts)
	s.accounts = append(s.accounts, acct)
	return nil
}

// Reclassify changes an account's type. It is refused once the ledger holds
// postings against the account; moving a balance between types requires an
// explicit entry into a new account instead.
func (s *Service) Reclassify(code string, to model.AccountType, ledger PostingChecker) error {
	i, ok := s.byCode[code]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, code)
	}
	if _, err := Classify(to); err != nil {
		return fmt.Errorf("account %s: %w", code, err)
	}
	if s.accounts[i].Type == to {
		return nil
	}
	if ledger != nil && ledger.HasPostings(code) {
		return fmt.Errorf("%w: %s is %s", ErrTypeLocked, code, s.accounts[i].Type)
	}
	s.accounts[i].Type = to
	return nil
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(repoRoot string) error {
	path := Path(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
