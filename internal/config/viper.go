// Package config: Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Matching struct {
		DateWindowDays  int     `mapstructure:"date_window_days" yaml:"date_window_days"`
		AmountTolerance float64 `mapstructure:"amount_tolerance" yaml:"amount_tolerance"`
	} `mapstructure:"matching" yaml:"matching"`

	Batch struct {
		RequireExactTotals bool    `mapstructure:"require_exact_totals" yaml:"require_exact_totals"`
		AmountTolerance    float64 `mapstructure:"amount_tolerance" yaml:"amount_tolerance"`
		AccountHint        string  `mapstructure:"account_hint" yaml:"account_hint"`
	} `mapstructure:"batch" yaml:"batch"`

	Ledger struct {
		BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
		IdentityURL    string `mapstructure:"identity_url" yaml:"identity_url"`
		ConnectionsURL string `mapstructure:"connections_url" yaml:"connections_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		TenantID       string `mapstructure:"tenant_id" yaml:"tenant_id"`
		ClientID       string `mapstructure:"client_id" yaml:"-"`
		ClientSecret   string `mapstructure:"client_secret" yaml:"-"` // never serialized
	} `mapstructure:"ledger" yaml:"ledger"`

	Data struct {
		Directory    string `mapstructure:"directory" yaml:"directory"`
		ReceiptsFile string `mapstructure:"receipts_file" yaml:"receipts_file"`
		AuditLog     string `mapstructure:"audit_log" yaml:"audit_log"`
		TokenFile    string `mapstructure:"token_file" yaml:"token_file"`
	} `mapstructure:"data" yaml:"data"`
}

// InitializeConfig initializes Viper configuration with hierarchical
// loading: defaults, then config.yaml, then RECON_* environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.bank-recon-agent")
	v.AddConfigPath(".bank-recon-agent")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RECON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			Logger.Warnf("Error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
		// Missing config file is fine, defaults and env vars apply.
	}

	// Credentials always bind to their conventional unprefixed variables.
	if err := v.BindEnv("ledger.client_id", "XERO_CLIENT_ID"); err != nil {
		Logger.Warnf("Failed to bind XERO_CLIENT_ID: %v", err)
	}
	if err := v.BindEnv("ledger.client_secret", "XERO_CLIENT_SECRET"); err != nil {
		Logger.Warnf("Failed to bind XERO_CLIENT_SECRET: %v", err)
	}
	if err := v.BindEnv("ledger.tenant_id", "XERO_TENANT_ID"); err != nil {
		Logger.Warnf("Failed to bind XERO_TENANT_ID: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("matching.date_window_days", 3)
	v.SetDefault("matching.amount_tolerance", 0.01)

	v.SetDefault("batch.require_exact_totals", true)
	v.SetDefault("batch.amount_tolerance", 0.01)
	v.SetDefault("batch.account_hint", "")

	v.SetDefault("ledger.base_url", "https://api.xero.com/api.xro/2.0")
	v.SetDefault("ledger.identity_url", "https://identity.xero.com/connect/token")
	v.SetDefault("ledger.connections_url", "https://api.xero.com/connections")
	v.SetDefault("ledger.timeout_seconds", 60)

	v.SetDefault("data.directory", "exports")
	v.SetDefault("data.receipts_file", "receipts.yaml")
	v.SetDefault("data.audit_log", "xero_post_log.jsonl")
	v.SetDefault("data.token_file", "xero_tokens.json")
}

func validateConfig(c *Config) error {
	if c.Matching.DateWindowDays < 0 {
		return fmt.Errorf("matching.date_window_days must be >= 0, got %d", c.Matching.DateWindowDays)
	}
	if c.Matching.AmountTolerance < 0 {
		return fmt.Errorf("matching.amount_tolerance must be >= 0, got %v", c.Matching.AmountTolerance)
	}
	if c.Batch.AmountTolerance < 0 {
		return fmt.Errorf("batch.amount_tolerance must be >= 0, got %v", c.Batch.AmountTolerance)
	}
	if c.Ledger.TimeoutSeconds <= 0 {
		return fmt.Errorf("ledger.timeout_seconds must be > 0, got %d", c.Ledger.TimeoutSeconds)
	}
	return nil
}
