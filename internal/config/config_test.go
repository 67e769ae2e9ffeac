package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/reports"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Biz", "corporation")
	cfg.Storage = StorageConfig{Driver: "sqlite", Path: "books.db"}
	cfg.CashFlow.Entries = map[string]string{"2025-01-004": "investing"}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company", "corporation")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "USD", cfg.Business.Currency)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
	assert.Equal(t, "csv", cfg.Storage.Driver)
	assert.Equal(t, []string{accounts.CodeCash, accounts.CodeBank}, cfg.CashFlow.CashAccounts)
	assert.True(t, cfg.Git.AutoCommit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Biz", "corporation")
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "currency: USD")
	assert.Contains(t, contents, "year_start: 01-01")
	assert.Contains(t, contents, "driver: csv")
	assert.Contains(t, contents, "cash_accounts:")
	assert.Contains(t, contents, "auto_commit: true")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing name", func(c *Config) { c.Business.Name = "" }, "Business.Name"},
		{"lowercase currency", func(c *Config) { c.Business.Currency = "usd" }, "Business.Currency"},
		{"unknown currency", func(c *Config) { c.Business.Currency = "XYZ" }, "XYZ"},
		{"bad year start", func(c *Config) { c.Fiscal.YearStart = "13-45" }, "Fiscal.YearStart"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "postgres" }, "Storage.Driver"},
		{"sqlite without path", func(c *Config) { c.Storage.Driver = "sqlite" }, "Storage.Path"},
		{"no cash accounts", func(c *Config) { c.CashFlow.CashAccounts = nil }, "CashFlow.CashAccounts"},
		{"bad activity", func(c *Config) { c.CashFlow.Accounts["1500"] = "capex" }, "CashFlow.Accounts"},
		{"bad equity class", func(c *Config) { c.Equity.Classes["3010"] = "paid_in" }, "Equity.Classes"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "Log.Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("Biz", "corporation")
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business:\n  name: x\n"), 0o644))
	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestCategorization(t *testing.T) {
	cfg := Default("Biz", "corporation")
	cfg.CashFlow.Entries = map[string]string{"2025-01-001": "financing"}

	cat := cfg.Categorization()
	assert.Equal(t, reports.ActivityInvesting, cat.Accounts[accounts.CodeEquipment])
	assert.Equal(t, reports.ActivityFinancing, cat.Entries["2025-01-001"])
	for _, a := range cat.Accounts {
		assert.True(t, a.Valid())
	}

	classes := cfg.EquityClasses()
	assert.Equal(t, reports.EquityContributedCapital, classes[accounts.CodeCommonStock])
	assert.Equal(t, reports.EquityRetainedEarnings, classes[accounts.CodeDividends])
}

func TestFiscalYear(t *testing.T) {
	cfg := Default("Biz", "corporation")
	p := cfg.FiscalYear(date(2025, 6, 15))
	assert.Equal(t, date(2025, 1, 1), p.Start)
	assert.Equal(t, date(2025, 12, 31), p.End)

	cfg.Fiscal.YearStart = "07-01"
	p = cfg.FiscalYear(date(2025, 3, 10))
	assert.Equal(t, date(2024, 7, 1), p.Start)
	assert.Equal(t, date(2025, 6, 30), p.End)
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
