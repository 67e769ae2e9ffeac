package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/export"
	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/reports"
)

func newLedgerCommand(repoDir *string) *cobra.Command {
	var asOf, account string

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Show account balances or one account's history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := openProject(ctx, *repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			date, err := parseDate(asOf, today())
			if err != nil {
				return err
			}
			snap, err := p.ledger(ctx)
			if err != nil {
				return err
			}
			snap = snap.AsOf(date)
			cur := p.currency()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			if account != "" {
				if _, ok := p.catalog.Lookup(account); !ok {
					return fmt.Errorf("unknown account %q", account)
				}
				fmt.Fprintln(tw, "DATE\tENTRY\tSIDE\tAMOUNT\tBALANCE\t")
				for _, m := range snap.Movements(account) {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
						m.Date.Format(dateFormat), m.EntryID, m.Side, m.Amount.Display(cur), m.Running.Display(cur))
				}
				return tw.Flush()
			}

			fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tDEBITS\tCREDITS\tBALANCE\t")
			for _, b := range snap.Balances() {
				name := b.Code
				if a, ok := p.catalog.Lookup(b.Code); ok {
					name = a.Name
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
					b.Code, name, b.Type, b.Debits.Display(cur), b.Credits.Display(cur), b.Balance.Display(cur))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			return snap.CheckBalanced()
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "balance date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&account, "account", "", "show movements for one account")
	return cmd
}

func newTrialCommand(repoDir *string) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "trial",
		Short: "Print the trial balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := openProject(ctx, *repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			date, err := parseDate(asOf, today())
			if err != nil {
				return err
			}
			snap, err := p.ledger(ctx)
			if err != nil {
				return err
			}
			tb, tbErr := reports.BuildTrialBalance(p.catalog, snap.AsOf(date))

			cur := p.currency()
			cell := func(a model.Amount) string {
				if a == 0 {
					return ""
				}
				return a.Display(cur)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Trial balance as of %s\n\n", date.Format(dateFormat))
			fmt.Fprintln(tw, "CODE\tNAME\tDEBIT\tCREDIT")
			for _, r := range tb.Rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Code, r.Name, cell(r.Debit), cell(r.Credit))
			}
			fmt.Fprintf(tw, "\tTOTALS\t%s\t%s\n", tb.TotalDebits.Display(cur), tb.TotalCredits.Display(cur))
			if err := tw.Flush(); err != nil {
				return err
			}
			return reportConsistency(p, tbErr)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "balance date, YYYY-MM-DD (default today)")
	return cmd
}

type periodFlags struct {
	from, to string
}

func (f *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "period start, YYYY-MM-DD (default start of the fiscal year)")
	cmd.Flags().StringVar(&f.to, "to", "", "period end, YYYY-MM-DD (default today)")
}

func (f *periodFlags) period(p *project) (reports.Period, error) {
	end, err := parseDate(f.to, today())
	if err != nil {
		return reports.Period{}, err
	}
	start, err := parseDate(f.from, p.cfg.FiscalYear(end).Start)
	if err != nil {
		return reports.Period{}, err
	}
	period := reports.Period{Start: start, End: end}
	return period, period.Validate()
}

// synthesize builds all statements for the period, logging metadata warnings.
func synthesize(ctx context.Context, p *project, period reports.Period) (reports.Statements, error) {
	snap, err := p.ledger(ctx)
	if err != nil {
		return reports.Statements{}, err
	}
	st, err := reports.Synthesize(reports.Inputs{
		Catalog:        p.catalog,
		Ledger:         snap,
		Period:         period,
		Categorization: p.cfg.Categorization(),
		EquityClasses:  p.cfg.EquityClasses(),
	})
	for _, w := range st.Warnings() {
		p.log.Warn("missing metadata", "account", w.Code, "name", w.Name, "need", w.Need)
	}
	return st, err
}

// reportConsistency logs every broken identity with its delta and returns err.
func reportConsistency(p *project, err error) error {
	if err == nil {
		return nil
	}
	for _, e := range unwrapAll(err) {
		var cerr *model.ConsistencyError
		if errors.As(e, &cerr) {
			p.log.Error("integrity check failed", "check", cerr.Check, "delta", cerr.Delta().StringFixed(p.currency()))
		}
	}
	return err
}

func unwrapAll(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func newStatementsCommand(repoDir *string) *cobra.Command {
	var pf periodFlags

	cmd := &cobra.Command{
		Use:   "statements",
		Short: "Print the balance sheet, income statement, cash flow and equity statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := openProject(ctx, *repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			period, err := pf.period(p)
			if err != nil {
				return err
			}
			st, synthErr := synthesize(ctx, p, period)
			if st.Period.Start.IsZero() {
				return synthErr
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, s := range st.All() {
				if i > 0 {
					fmt.Fprintln(tw)
				}
				rows, err := export.StatementRows(s, p.currency())
				if err != nil {
					return err
				}
				for _, r := range rows {
					fmt.Fprintln(tw, strings.Join(r, "\t"))
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			return reportConsistency(p, synthErr)
		},
	}
	pf.register(cmd)
	return cmd
}

func newExportCommand(repoDir *string) *cobra.Command {
	var pf periodFlags
	var out string

	cmd := &cobra.Command{
		Use:       "export <statements|reports>",
		Short:     "Export statements or the trial balance report as CSV",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"statements", "reports"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := openProject(ctx, *repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			period, err := pf.period(p)
			if err != nil {
				return err
			}
			st, synthErr := synthesize(ctx, p, period)
			if st.Period.Start.IsZero() {
				return synthErr
			}

			write := func(w io.Writer) error {
				if args[0] == "reports" {
					return export.WriteReports(w, st.TrialBalance, p.currency(), time.Now())
				}
				return export.WriteStatements(w, st, p.currency())
			}

			if out == "-" {
				if err := write(cmd.OutOrStdout()); err != nil {
					return err
				}
				return reportConsistency(p, synthErr)
			}
			if out == "" {
				out = filepath.Join(p.root, "exports", export.FileName(args[0], time.Now()))
			}
			if err := writeFile(out, write); err != nil {
				return err
			}
			p.log.Info("exported", "kind", args[0], "path", out, "period", period.Label())
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return reportConsistency(p, synthErr)
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file, or "-" for stdout (default exports/financial-<kind>-<time>.csv)`)
	return cmd
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newSummaryCommand(repoDir *string) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show headline figures for the books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := openProject(ctx, *repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			date, err := parseDate(asOf, today())
			if err != nil {
				return err
			}
			snap, err := p.ledger(ctx)
			if err != nil {
				return err
			}
			snap = snap.AsOf(date)
			tb, tbErr := reports.BuildTrialBalance(p.catalog, snap)
			s := reports.Summarize(snap, tb)

			cur := p.currency()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\tas of %s\n", p.cfg.Business.Name, date.Format(dateFormat))
			fmt.Fprintf(tw, "Journal entries\t%d\n", s.Entries)
			fmt.Fprintf(tw, "Active accounts\t%d\n", s.Accounts)
			fmt.Fprintf(tw, "Total debits\t%s\n", s.TotalDebits.Display(cur))
			fmt.Fprintf(tw, "Total assets\t%s\n", s.TotalAssets.Display(cur))
			fmt.Fprintf(tw, "Total liabilities\t%s\n", s.TotalLiabilities.Display(cur))
			fmt.Fprintf(tw, "Net income to date\t%s\n", s.NetIncome.Display(cur))
			if err := tw.Flush(); err != nil {
				return err
			}
			return reportConsistency(p, tbErr)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "date, YYYY-MM-DD (default today)")
	return cmd
}
