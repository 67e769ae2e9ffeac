package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

func newAccountsCommand(repoDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(
		newAccountsListCommand(repoDir),
		newAccountsAddCommand(repoDir),
		newAccountsReclassifyCommand(repoDir),
	)
	return cmd
}

func newAccountsListCommand(repoDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := openProject(cmd.Context(), *repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tPARENT")
			for _, a := range p.catalog.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Code, a.Name, a.Type, a.ParentCode)
			}
			return tw.Flush()
		},
	}
}

func newAccountsAddCommand(repoDir *string) *cobra.Command {
	var acct model.Account
	var accountType string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := openProject(ctx, *repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			acct.Type = model.AccountType(accountType)
			if err := p.catalog.Add(acct); err != nil {
				return err
			}
			if err := p.catalog.Save(p.root); err != nil {
				return err
			}
			p.record(ctx, "accounts", "add_account", acct.Code, acct.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Added account %s %s (%s)\n", acct.Code, acct.Name, acct.Type)
			return nil
		},
	}
	cmd.Flags().StringVar(&acct.Code, "code", "", "account code (required)")
	cmd.Flags().StringVar(&acct.Name, "name", "", "account name (required)")
	cmd.Flags().StringVar(&accountType, "type", "", "asset, liability, equity, revenue or expense (required)")
	cmd.Flags().StringVar(&acct.ParentCode, "parent", "", "parent account code")
	cmd.Flags().StringVar(&acct.Description, "description", "", "description")
	for _, f := range []string{"code", "name", "type"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newAccountsReclassifyCommand(repoDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reclassify <code> <type>",
		Short: "Change the type of an account that has no postings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := openProject(ctx, *repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			snap, err := p.ledger(ctx)
			if err != nil {
				return err
			}
			to := model.AccountType(args[1])
			if err := p.catalog.Reclassify(args[0], to, snap); err != nil {
				return err
			}
			if err := p.catalog.Save(p.root); err != nil {
				return err
			}
			p.record(ctx, "accounts", "reclassify_account", args[0], string(to))
			fmt.Fprintf(cmd.OutOrStdout(), "Account %s is now %s\n", args[0], to)
			return nil
		},
	}
}
