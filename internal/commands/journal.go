package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/importer"
	"github.com/cleared-dev/ledgerbook/internal/journal"
	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newJournalCommand(repoDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Record and check journal entries",
	}
	cmd.AddCommand(
		newJournalAddCommand(repoDir),
		newJournalReverseCommand(repoDir),
		newJournalValidateCommand(repoDir),
		newJournalImportCommand(repoDir),
	)
	return cmd
}

type addOptions struct {
	date        string
	description string
	debit       string
	credit      string
	amount      string
	memo        string
	lines       []string
}

func newJournalAddCommand(repoDir *string) *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a journal entry",
		Long: `Add a journal entry. A two-line entry is given with --debit, --credit and
--amount. Entries with more lines use --line once per line, as
"code,debit|credit,amount[,memo]".`,
		Example: `  ledgerbook journal add --date 2025-01-02 --description "Owner investment" --debit 1010 --credit 3010 --amount 1000
  ledgerbook journal add --description "Payroll" --line 5020,debit,3000 --line 1020,credit,2700 --line 2010,credit,300`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := openProject(ctx, *repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			entry, err := opts.entry(p.currency())
			if err != nil {
				return err
			}
			snap, err := p.ledger(ctx)
			if err != nil {
				return err
			}

			stored, err := p.entries.Add(ctx, entry)
			if err != nil {
				return err
			}
			// The stored entry must fold into the current ledger.
			if _, err := ledger.Post(p.catalog, snap, stored); err != nil {
				return fmt.Errorf("posting %s: %w", stored.ID, err)
			}

			debits, _, _ := stored.Totals()
			p.log.Info("entry posted", "entry_id", stored.ID, "amount", debits.StringFixed(p.currency()))
			p.record(ctx, "journal", "add_entry", stored.ID, stored.Description)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s (%s)\n", stored.ID, stored.Description, debits.Display(p.currency()))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.date, "date", "", "entry date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&opts.description, "description", "", "entry description (required)")
	cmd.Flags().StringVar(&opts.debit, "debit", "", "account code to debit")
	cmd.Flags().StringVar(&opts.credit, "credit", "", "account code to credit")
	cmd.Flags().StringVar(&opts.amount, "amount", "", "amount, e.g. 1250.00")
	cmd.Flags().StringVar(&opts.memo, "memo", "", "memo for both lines")
	cmd.Flags().StringArrayVar(&opts.lines, "line", nil, "entry line as code,debit|credit,amount[,memo]")
	_ = cmd.MarkFlagRequired("description")
	cmd.MarkFlagsMutuallyExclusive("line", "debit")
	cmd.MarkFlagsMutuallyExclusive("line", "credit")
	cmd.MarkFlagsMutuallyExclusive("line", "amount")

	return cmd
}

func (o addOptions) entry(currency string) (model.JournalEntry, error) {
	date, err := parseDate(o.date, today())
	if err != nil {
		return model.JournalEntry{}, err
	}
	e := model.JournalEntry{Date: date, Description: o.description}

	if len(o.lines) == 0 {
		if o.debit == "" || o.credit == "" || o.amount == "" {
			return model.JournalEntry{}, errors.New("either --line or all of --debit, --credit and --amount are required")
		}
		amt, err := model.ParseAmount(o.amount, currency)
		if err != nil {
			return model.JournalEntry{}, fmt.Errorf("--amount: %w", err)
		}
		e.Lines = []model.JournalLine{
			{AccountCode: o.debit, Debit: amt, Memo: o.memo},
			{AccountCode: o.credit, Credit: amt, Memo: o.memo},
		}
		return e, nil
	}

	for i, spec := range o.lines {
		l, err := parseLine(spec, currency)
		if err != nil {
			return model.JournalEntry{}, fmt.Errorf("--line %d: %w", i+1, err)
		}
		e.Lines = append(e.Lines, l)
	}
	return e, nil
}

func parseLine(spec, currency string) (model.JournalLine, error) {
	parts := strings.SplitN(spec, ",", 4)
	if len(parts) < 3 {
		return model.JournalLine{}, fmt.Errorf("want code,debit|credit,amount[,memo], got %q", spec)
	}
	amt, err := model.ParseAmount(strings.TrimSpace(parts[2]), currency)
	if err != nil {
		return model.JournalLine{}, err
	}
	l := model.JournalLine{AccountCode: strings.TrimSpace(parts[0])}
	if len(parts) == 4 {
		l.Memo = strings.TrimSpace(parts[3])
	}
	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "debit", "dr":
		l.Debit = amt
	case "credit", "cr":
		l.Credit = amt
	default:
		return model.JournalLine{}, fmt.Errorf("side must be debit or credit, got %q", parts[1])
	}
	return l, nil
}

func newJournalReverseCommand(repoDir *string) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "reverse <entry-id>",
		Short: "Post an entry that undoes an earlier one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := openProject(ctx, *repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			d, err := parseDate(date, today())
			if err != nil {
				return err
			}
			rev, err := p.entries.Reverse(ctx, args[0], d)
			if err != nil {
				return err
			}
			p.log.Info("entry reversed", "entry_id", args[0], "reversal_id", rev.ID)
			p.record(ctx, "journal", "reverse_entry", rev.ID, "reverses "+args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Reversed %s with %s\n", args[0], rev.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "reversal date, YYYY-MM-DD (default today)")
	return cmd
}

func newJournalValidateCommand(repoDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every stored entry against the double-entry rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := openProject(ctx, *repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			entries, err := p.entries.ReadAll(ctx)
			if err != nil {
				return err
			}
			results, err := journal.ValidateAll(ctx, entries, p.catalog)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			invalid := 0
			for _, res := range results {
				var verr *journal.ValidationError
				if !errors.As(res, &verr) {
					continue
				}
				invalid++
				for _, v := range verr.Violations {
					fmt.Fprintf(out, "%s\t%s\n", verr.EntryID, v)
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d entries are invalid", invalid, len(entries))
			}
			fmt.Fprintf(out, "%d entries OK\n", len(entries))
			return nil
		},
	}
}

func newJournalImportCommand(repoDir *string) *cobra.Command {
	var format string
	var opts importer.Options

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import entries from CSV files",
		Long: `Import entries from CSV files. With no arguments every CSV in import/ is
imported and then moved to import/processed/. A file is imported only if all
of its entries are valid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := openProject(ctx, *repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q", format)
			}
			opts.Currency = p.currency()

			files := args
			fromInbox := len(args) == 0
			if fromInbox {
				found, err := importer.Scan(p.root)
				if err != nil {
					return err
				}
				for _, f := range found {
					files = append(files, f.Path)
				}
			}

			snap, err := p.ledger(ctx)
			if err != nil {
				return err
			}
			book := ledger.NewBook(p.catalog, snap)

			out := cmd.OutOrStdout()
			for _, path := range files {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", path, err)
				}
				entries, err := parser.Parse(f, opts)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				results, err := journal.ValidateAll(ctx, entries, p.catalog)
				if err != nil {
					return err
				}
				if err := errors.Join(results...); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				for _, e := range entries {
					stored, err := p.entries.Add(ctx, e)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					if _, err := book.Post(stored); err != nil {
						return fmt.Errorf("posting %s: %w", stored.ID, err)
					}
				}
				if fromInbox {
					if err := importer.MarkProcessed(p.root, filepath.Base(path)); err != nil {
						return err
					}
				}
				p.log.Info("imported", "file", filepath.Base(path), "format", parser.Format(), "entries", len(entries))
				p.record(ctx, "journal", "import", "", fmt.Sprintf("%s: %d entries", filepath.Base(path), len(entries)))
				fmt.Fprintf(out, "Imported %d entries from %s\n", len(entries), filepath.Base(path))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "journal", "file format: journal or chase")
	cmd.Flags().StringVar(&opts.BankAccount, "bank", "", "bank account code (chase)")
	cmd.Flags().StringVar(&opts.OffsetAccount, "offset", "", "offset account code for bank rows (chase)")
	return cmd
}
