package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgerbook/internal/accounts"
	"github.com/cleared-dev/ledgerbook/internal/reports"
)

// FileName is the project configuration file at the repository root.
const FileName = "ledgerbook.yaml"

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = errors.New("invalid config")

// Config represents the top-level ledgerbook.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Fiscal   FiscalConfig   `yaml:"fiscal"`
	Storage  StorageConfig  `yaml:"storage"`
	CashFlow CashFlowConfig `yaml:"cash_flow"`
	Equity   EquityConfig   `yaml:"equity"`
	Git      GitConfig      `yaml:"git"`
	Log      LogConfig      `yaml:"log"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name" validate:"required"`
	EntityType string `yaml:"entity_type" validate:"required"`
	Currency   string `yaml:"currency" validate:"required,len=3,uppercase"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start" validate:"required,datetime=01-02"` // "MM-DD"
}

// StorageConfig selects where journal entries live.
type StorageConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=csv sqlite"`
	Path   string `yaml:"path,omitempty" validate:"required_if=Driver sqlite"`
}

// CashFlowConfig holds the metadata cash flow attribution needs.
type CashFlowConfig struct {
	CashAccounts []string          `yaml:"cash_accounts" validate:"required,min=1,dive,required"`
	Accounts     map[string]string `yaml:"accounts,omitempty" validate:"dive,keys,required,endkeys,oneof=operating investing financing"`
	Entries      map[string]string `yaml:"entries,omitempty" validate:"dive,keys,required,endkeys,oneof=operating investing financing"`
}

// EquityConfig classifies equity accounts for the equity statement.
type EquityConfig struct {
	Classes map[string]string `yaml:"classes,omitempty" validate:"dive,keys,required,endkeys,oneof=contributed_capital retained_earnings"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name" validate:"required_if=AutoCommit true"`
	AuthorEmail string `yaml:"author_email" validate:"omitempty,email"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// Load reads and validates a ledgerbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks struct constraints and that the currency is known.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if money.GetCurrency(c.Business.Currency) == nil {
		return fmt.Errorf("%w: unknown currency %q", ErrInvalid, c.Business.Currency)
	}
	return nil
}

// Categorization converts the cash_flow section for statement synthesis.
func (c *Config) Categorization() reports.Categorization {
	cat := reports.Categorization{
		CashAccounts: append([]string(nil), c.CashFlow.CashAccounts...),
		Accounts:     make(map[string]reports.Activity, len(c.CashFlow.Accounts)),
		Entries:      make(map[string]reports.Activity, len(c.CashFlow.Entries)),
	}
	for code, a := range c.CashFlow.Accounts {
		cat.Accounts[code] = reports.Activity(a)
	}
	for id, a := range c.CashFlow.Entries {
		cat.Entries[id] = reports.Activity(a)
	}
	return cat
}

// EquityClasses converts the equity section for statement synthesis.
func (c *Config) EquityClasses() map[string]reports.EquityClass {
	out := make(map[string]reports.EquityClass, len(c.Equity.Classes))
	for code, class := range c.Equity.Classes {
		out[code] = reports.EquityClass(class)
	}
	return out
}

// FiscalYear returns the fiscal year containing date.
func (c *Config) FiscalYear(date time.Time) reports.Period {
	start, err := time.Parse("01-02", c.Fiscal.YearStart)
	if err != nil {
		start = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	begin := time.Date(date.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	if begin.After(date) {
		begin = begin.AddDate(-1, 0, 0)
	}
	return reports.Period{Start: begin, End: begin.AddDate(1, 0, -1)}
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
			Currency:   "USD",
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Storage: StorageConfig{
			Driver: "csv",
		},
		CashFlow: CashFlowConfig{
			CashAccounts: []string{accounts.CodeCash, accounts.CodeBank},
			Accounts: map[string]string{
				accounts.CodeReceivable:     "operating",
				accounts.CodePayable:        "operating",
				accounts.CodeServiceRevenue: "operating",
				accounts.CodeProductRevenue: "operating",
				accounts.CodeRentExpense:    "operating",
				accounts.CodeSalaries:       "operating",
				accounts.CodeUtilities:      "operating",
				accounts.CodeSupplies:       "operating",
				accounts.CodeEquipment:      "investing",
				accounts.CodeLoan:           "financing",
				accounts.CodeCommonStock:    "financing",
				accounts.CodeDividends:      "financing",
			},
		},
		Equity: EquityConfig{
			Classes: map[string]string{
				accounts.CodeCommonStock:      "contributed_capital",
				accounts.CodeRetainedEarnings: "retained_earnings",
				accounts.CodeDividends:        "retained_earnings",
			},
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Ledgerbook",
			AuthorEmail: "books@ledgerbook.local",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
