// Package config provides typed access to application settings loaded via viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ledgerline/riskline/internal/common"
)

// Settings holds the full application configuration.
type Settings struct {
	Server    ServerConfig
	LLM       LLMConfig
	Budget    BudgetConfig
	Documents DocumentsConfig
	Cases     CasesConfig
	Plaid     PlaidConfig
	Sheets    SheetsConfig
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string
	FrontendURL string
}

// LLMConfig configures the external text generator.
type LLMConfig struct {
	Provider    string
	APIKey      string
	ProjectID   string
	URL         string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

// BudgetConfig configures the usage ledger.
type BudgetConfig struct {
	LedgerBackend string // "json" or "sqlite"
	LedgerPath    string
	LimitUSD      float64
}

// DocumentsConfig configures document ingestion.
type DocumentsConfig struct {
	ConverterURL string
	UploadDir    string
	ChunkSize    int
}

// CasesConfig configures case seeding.
type CasesConfig struct {
	// SeedFile points at a JSON case export produced by `riskline import`.
	// When empty the built-in demo corpus is used.
	SeedFile string
}

// PlaidConfig configures the optional Plaid case source.
type PlaidConfig struct {
	ClientID    string
	Secret      string
	Environment string
	AccessToken string
}

// SheetsConfig configures report export to Google Sheets. Either a service
// account key file or the OAuth2 client triple must be set.
type SheetsConfig struct {
	SpreadsheetID      string
	SpreadsheetName    string
	ServiceAccountPath string
	ClientID           string
	ClientSecret       string
	RefreshToken       string
}

// FromViper builds Settings from the already-loaded viper state.
func FromViper() Settings {
	return Settings{
		Server: ServerConfig{
			Addr:        viper.GetString("server.addr"),
			FrontendURL: viper.GetString("server.frontend_url"),
		},
		LLM: LLMConfig{
			Provider:    viper.GetString("llm.provider"),
			APIKey:      viper.GetString("llm.api_key"),
			ProjectID:   viper.GetString("llm.project_id"),
			URL:         viper.GetString("llm.url"),
			Model:       viper.GetString("llm.model"),
			Temperature: viper.GetFloat64("llm.temperature"),
			MaxTokens:   viper.GetInt("llm.max_tokens"),
			Timeout:     viper.GetDuration("llm.timeout"),
		},
		Budget: BudgetConfig{
			LimitUSD:      viper.GetFloat64("budget.limit_usd"),
			LedgerBackend: viper.GetString("budget.ledger_backend"),
			LedgerPath:    viper.GetString("budget.ledger_path"),
		},
		Documents: DocumentsConfig{
			ConverterURL: viper.GetString("documents.converter_url"),
			UploadDir:    viper.GetString("documents.upload_dir"),
			ChunkSize:    viper.GetInt("documents.chunk_size"),
		},
		Cases: CasesConfig{
			SeedFile: viper.GetString("cases.seed_file"),
		},
		Plaid: PlaidConfig{
			ClientID:    viper.GetString("plaid.client_id"),
			Secret:      viper.GetString("plaid.secret"),
			Environment: viper.GetString("plaid.environment"),
			AccessToken: viper.GetString("plaid.access_token"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:      viper.GetString("sheets.spreadsheet_id"),
			SpreadsheetName:    viper.GetString("sheets.spreadsheet_name"),
			ServiceAccountPath: viper.GetString("sheets.service_account_path"),
			ClientID:           viper.GetString("sheets.client_id"),
			ClientSecret:       viper.GetString("sheets.client_secret"),
			RefreshToken:       viper.GetString("sheets.refresh_token"),
		},
	}
}

// SetDefaults registers default values on the global viper instance.
func SetDefaults() {
	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("server.frontend_url", "http://localhost:3000")
	viper.SetDefault("llm.url", "https://us-south.ml.cloud.ibm.com")
	viper.SetDefault("llm.model", "ibm/granite-3-2-8b-instruct")
	viper.SetDefault("llm.temperature", 0.3)
	viper.SetDefault("llm.max_tokens", 300)
	viper.SetDefault("llm.timeout", 60*time.Second)
	viper.SetDefault("budget.limit_usd", 250.0)
	viper.SetDefault("budget.ledger_backend", "json")
	viper.SetDefault("budget.ledger_path", "token_usage.json")
	viper.SetDefault("documents.chunk_size", 500)
	viper.SetDefault("plaid.environment", "sandbox")
	viper.SetDefault("sheets.spreadsheet_name", "Compliance Report")
}

// Validate checks invariants that would otherwise surface deep inside a
// request: budget ceiling must be positive and the ledger backend known.
func (s Settings) Validate() error {
	if s.Budget.LimitUSD <= 0 {
		return fmt.Errorf("%w: budget.limit_usd must be positive", common.ErrInvalidConfig)
	}
	switch s.Budget.LedgerBackend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("%w: budget.ledger_backend must be json or sqlite, got %q",
			common.ErrInvalidConfig, s.Budget.LedgerBackend)
	}
	if s.Documents.ChunkSize <= 0 {
		return fmt.Errorf("%w: documents.chunk_size must be positive", common.ErrInvalidConfig)
	}
	return nil
}
