package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var repoDir string

	rootCmd := &cobra.Command{
		Use:     "ledgerbook",
		Short:   "Double-entry books and financial statements in a git repository",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&repoDir, "repo", ".", "books directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountsCommand(&repoDir),
		newJournalCommand(&repoDir),
		newLedgerCommand(&repoDir),
		newTrialCommand(&repoDir),
		newStatementsCommand(&repoDir),
		newExportCommand(&repoDir),
		newSummaryCommand(&repoDir),
	)
	return rootCmd
}
