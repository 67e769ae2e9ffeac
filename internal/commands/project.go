package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/auditlog"
	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/gitops"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/logging"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/store"
)

const dateFormat = "2006-01-02"

// entryStore is the journal backend selected by storage.driver.
type entryStore interface {
	Add(ctx context.Context, entry model.JournalEntry) (model.JournalEntry, error)
	Reverse(ctx context.Context, entryID string, date time.Time) (model.JournalEntry, error)
	ReadAll(ctx context.Context) ([]model.JournalEntry, error)
	Close() error
}

// csvJournal adapts the monthly CSV journal to entryStore.
type csvJournal struct{ svc *journal.Service }

func (j csvJournal) Add(_ context.Context, e model.JournalEntry) (model.JournalEntry, error) {
	return j.svc.Add(e)
}

func (j csvJournal) Reverse(_ context.Context, entryID string, date time.Time) (model.JournalEntry, error) {
	return j.svc.Reverse(entryID, date)
}

func (j csvJournal) ReadAll(context.Context) ([]model.JournalEntry, error) { return j.svc.ReadAll() }

func (csvJournal) Close() error { return nil }

// project is an opened books directory.
type project struct {
	root    string
	cfg     *config.Config
	log     *slog.Logger
	catalog *accounts.Service
	entries entryStore
}

func openProject(ctx context.Context, repoDir string, stderr io.Writer) (*project, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}
	catalog, err := accounts.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading chart of accounts: %w", err)
	}

	p := &project{
		root:    root,
		cfg:     cfg,
		log:     logging.New(stderr, cfg.Log).With("business", cfg.Business.Name),
		catalog: catalog,
	}
	switch cfg.Storage.Driver {
	case "sqlite":
		path := cfg.Storage.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		s, err := store.Open(ctx, path, catalog)
		if err != nil {
			return nil, fmt.Errorf("opening journal database: %w", err)
		}
		p.entries = s
	default:
		p.entries = csvJournal{svc: journal.NewService(root, cfg.Business.Currency, catalog)}
	}
	return p, nil
}

func (p *project) Close() error { return p.entries.Close() }

func (p *project) currency() string { return p.cfg.Business.Currency }

// ledger validates every stored entry in parallel and replays them into a
// snapshot.
func (p *project) ledger(ctx context.Context) (ledger.Snapshot, error) {
	entries, err := p.entries.ReadAll(ctx)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("reading journal: %w", err)
	}
	results, err := journal.ValidateAll(ctx, entries, p.catalog)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	if err := errors.Join(results...); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("journal has invalid entries: %w", err)
	}

	book := ledger.NewBook(p.catalog, ledger.Snapshot{})
	snap, err := book.PostAll(entries)
	if err != nil {
		return ledger.Snapshot{}, err
	}
	p.log.Debug("ledger replayed", "entries", snap.Version())
	return snap, nil
}

// commit records the change in git when auto_commit is on and returns the
// short hash, or "" when nothing was committed.
func (p *project) commit(ctx context.Context, message string) string {
	if !p.cfg.Git.AutoCommit || !gitops.IsRepo(ctx, p.root) {
		return ""
	}
	hash, err := gitops.CommitAll(ctx, p.root, message, gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail})
	if err != nil {
		p.log.Warn("auto-commit failed", "err", err)
		return ""
	}
	return hash
}

// record writes a change to the audit log and commits it with the change.
// A follow-up "commit" row carries the hash; it lands in the next commit.
func (p *project) record(ctx context.Context, command, action, entryID, details string) {
	rec := auditlog.NewRecorder(p.root, command)
	if err := rec.Record(action, entryID, details, ""); err != nil {
		p.log.Warn("writing audit log", "err", err)
	}
	hash := p.commit(ctx, fmt.Sprintf("%s: %s %s", command, action, entryID))
	if hash == "" {
		return
	}
	p.log.Info("committed", "hash", hash, "run_id", rec.RunID())
	if err := rec.Record(auditlog.ActionCommit, entryID, action, hash); err != nil {
		p.log.Warn("writing audit log", "err", err)
	}
}

func parseDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
