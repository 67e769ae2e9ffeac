package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/auditlog"
	"github.com/cleared-dev/ledgerbook/internal/config"
	"github.com/cleared-dev/ledgerbook/internal/gitops"
)

type initOptions struct {
	name       string
	entityType string
	currency   string
	driver     string
	noGit      bool
}

func newInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new set of books",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(cmd, absDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opts.entityType, "entity-type", "corporation", "entity type")
	cmd.Flags().StringVar(&opts.currency, "currency", "USD", "ISO 4217 reporting currency")
	cmd.Flags().StringVar(&opts.driver, "storage", "csv", "journal storage: csv or sqlite")
	cmd.Flags().BoolVar(&opts.noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, opts initOptions) error {
	for _, d := range []string{"accounts", "logs", "exports", "import", filepath.Join("import", "processed")} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(opts.name, opts.entityType)
	cfg.Business.Currency = opts.currency
	cfg.Storage.Driver = opts.driver
	if opts.driver == "sqlite" {
		cfg.Storage.Path = "journal.db"
	}
	cfg.Git.AutoCommit = !opts.noGit
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	svc := accounts.NewService(accounts.DefaultChart(opts.entityType))
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	gitignore := "exports/\n*.db-wal\n*.db-shm\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	rec := auditlog.NewRecorder(dir, "init")
	if err := rec.Record("init", "", opts.name, ""); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.noGit {
		fmt.Fprintf(out, "Initialized ledgerbook at %s\n", dir)
		return nil
	}

	ctx := cmd.Context()
	if err := gitops.Init(ctx, dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+opts.name, gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail})
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	if err := rec.Record(auditlog.ActionCommit, "", "init", hash); err != nil {
		return err
	}
	fmt.Fprintf(out, "Initialized ledgerbook at %s (%s)\n", dir, hash)
	return nil
}
