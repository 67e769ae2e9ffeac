package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/id"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

var (
	// ErrEntryNotFound is returned when an entry ID is not in the journal.
	ErrEntryNotFound = errors.New("journal entry not found")
	// ErrAlreadyReversed is returned when reversing an entry twice.
	ErrAlreadyReversed = errors.New("journal entry already reversed")
	// ErrDuplicateEntry is returned when an entry ID already exists.
	ErrDuplicateEntry = errors.New("journal entry already exists")
)

// Service stores journal entries as monthly YYYY/MM/journal.csv files under a
// repo root.
type Service struct {
	repoRoot string
	currency string
	accounts AccountChecker
}

// NewService creates a journal Service.
func NewService(repoRoot, currency string, accounts AccountChecker) *Service {
	return &Service{repoRoot: repoRoot, currency: currency, accounts: accounts}
}

// AddDoubleParams holds parameters for creating a two-line entry.
type AddDoubleParams struct {
	Date          time.Time
	Description   string
	DebitAccount  string
	CreditAccount string
	Amount        model.Amount
	Memo          string
}

// AddDouble creates a balanced debit/credit pair and appends it. Returns the
// stored entry.
func (s *Service) AddDouble(params AddDoubleParams) (model.JournalEntry, error) {
	return s.Add(model.JournalEntry{
		Date:        params.Date,
		Description: params.Description,
		Lines: []model.JournalLine{
			{AccountCode: params.DebitAccount, Debit: params.Amount, Memo: params.Memo},
			{AccountCode: params.CreditAccount, Credit: params.Amount, Memo: params.Memo},
		},
	})
}

// Add validates an entry and appends it to its month's journal.csv. An empty
// ID is assigned the next sequence for the month. Nothing is written when
// validation fails.
func (s *Service) Add(entry model.JournalEntry) (model.JournalEntry, error) {
	year, month := entry.Date.Year(), int(entry.Date.Month())
	existing, err := s.ReadMonth(year, month)
	if err != nil {
		return model.JournalEntry{}, err
	}

	if entry.ID == "" {
		entry.ID = nextID(entry.Date, existing)
	}
	for _, e := range existing {
		if e.ID == entry.ID {
			return model.JournalEntry{}, fmt.Errorf("%w: %s", ErrDuplicateEntry, entry.ID)
		}
	}

	if err := ValidateAccounts(entry, s.accounts); err != nil {
		return model.JournalEntry{}, err
	}

	// Append to journal file (create dir + header if new).
	journalPath := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(journalPath), 0o755); err != nil {
		return model.JournalEntry{}, fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(journalPath); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(journalPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return model.JournalEntry{}, fmt.Errorf("writing header: %w", err)
		}
	}
	if err := AppendEntries(f, []model.JournalEntry{entry}, s.currency); err != nil {
		return model.JournalEntry{}, fmt.Errorf("appending entry: %w", err)
	}
	return entry, nil
}

// Reverse appends the reversing entry for entryID, dated date.
func (s *Service) Reverse(entryID string, date time.Time) (model.JournalEntry, error) {
	all, err := s.ReadAll()
	if err != nil {
		return model.JournalEntry{}, err
	}

	var original *model.JournalEntry
	for i := range all {
		if all[i].Reverses == entryID {
			return model.JournalEntry{}, fmt.Errorf("%w: %s by %s", ErrAlreadyReversed, entryID, all[i].ID)
		}
		if all[i].ID == entryID {
			original = &all[i]
		}
	}
	if original == nil {
		return model.JournalEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
	}
	return s.Add(Reverse(*original, "", date))
}

// ReadMonth reads all entries for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.JournalEntry, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f, s.currency)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return entries, nil
}

// ReadAll reads every month under the repo root in chronological order.
func (s *Service) ReadAll() ([]model.JournalEntry, error) {
	months, err := s.months()
	if err != nil {
		return nil, err
	}
	var all []model.JournalEntry
	for _, ym := range months {
		entries, err := s.ReadMonth(ym[0], ym[1])
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// NextID returns the ID the next entry dated in date's month would receive.
func (s *Service) NextID(date time.Time) (string, error) {
	entries, err := s.ReadMonth(date.Year(), int(date.Month()))
	if err != nil {
		return "", err
	}
	return nextID(date, entries), nil
}

func nextID(date time.Time, entries []model.JournalEntry) string {
	used := make([]string, len(entries))
	for i, e := range entries {
		used[i] = e.ID
	}
	return id.Next(date, used).String()
}

// months lists [year, month] pairs that have a journal file, sorted.
func (s *Service) months() ([][2]int, error) {
	years, err := os.ReadDir(s.repoRoot)
	if err != nil {
		return nil, fmt.Errorf("listing journal years: %w", err)
	}
	var out [][2]int
	for _, y := range years {
		year, err := strconv.Atoi(y.Name())
		if err != nil || !y.IsDir() || len(y.Name()) != 4 {
			continue
		}
		monthDirs, err := os.ReadDir(filepath.Join(s.repoRoot, y.Name()))
		if err != nil {
			return nil, fmt.Errorf("listing journal months: %w", err)
		}
		for _, m := range monthDirs {
			month, err := strconv.Atoi(m.Name())
			if err != nil || !m.IsDir() || month < 1 || month > 12 {
				continue
			}
			if _, err := os.Stat(s.monthPath(year, month)); err == nil {
				out = append(out, [2]int{year, month})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out, nil
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.repoRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}
