// Package config provides Viper-based hierarchical configuration management.
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

	Billing struct {
		TaxRate      float64 `mapstructure:"tax_rate" yaml:"tax_rate"`
		ValidityDays int     `mapstructure:"validity_days" yaml:"validity_days"`
		CurrencyID   string  `mapstructure:"currency_id" yaml:"currency_id"`
	} `mapstructure:"billing" yaml:"billing"`

	Catalog struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"catalog" yaml:"catalog"`

	Journal struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"journal" yaml:"journal"`

	Contacts struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"contacts" yaml:"contacts"`

	Ledger struct {
		BaseURL       string `mapstructure:"base_url" yaml:"base_url"`
		APIKey        string `mapstructure:"api_key" yaml:"-"` // Never serialize credentials
		CurrentUserID int64  `mapstructure:"current_user_id" yaml:"current_user_id"`
	} `mapstructure:"ledger" yaml:"ledger"`

	Gateway struct {
		BaseURL     string `mapstructure:"base_url" yaml:"base_url"`
		AccessToken string `mapstructure:"access_token" yaml:"-"`
	} `mapstructure:"gateway" yaml:"gateway"`

	Messaging struct {
		BaseURL       string `mapstructure:"base_url" yaml:"base_url"`
		PhoneNumberID string `mapstructure:"phone_number_id" yaml:"phone_number_id"`
		AccessToken   string `mapstructure:"access_token" yaml:"-"`
		Template      string `mapstructure:"template" yaml:"template"`
		Locale        string `mapstructure:"locale" yaml:"locale"`
	} `mapstructure:"messaging" yaml:"messaging"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.cobrador")
	v.AddConfigPath(".cobrador")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("COBRADOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			Logger.Warnf("Error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	// 5. Credentials always come from unprefixed environment variables
	envBindings := map[string]string{
		"ledger.api_key":            "LEDGER_API_KEY",
		"gateway.access_token":      "GATEWAY_ACCESS_TOKEN",
		"messaging.access_token":    "WHATSAPP_ACCESS_TOKEN",
		"messaging.phone_number_id": "WHATSAPP_PHONE_NUMBER_ID",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			Logger.Warnf("Failed to bind %s environment variable: %v", env, err)
		}
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

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("billing.tax_rate", 0.0099)
	v.SetDefault("billing.validity_days", 20)
	v.SetDefault("billing.currency_id", "BRL")

	v.SetDefault("catalog.file", "categories.yaml")
	v.SetDefault("journal.file", "data/payment_links.json")
	v.SetDefault("contacts.file", "data/contacts.csv")

	v.SetDefault("ledger.base_url", "https://secure.splitwise.com/api/v3.0")
	v.SetDefault("gateway.base_url", "https://api.mercadopago.com")
	v.SetDefault("messaging.base_url", "https://graph.facebook.com/v19.0")
	v.SetDefault("messaging.template", "resumo_mensal")
	v.SetDefault("messaging.locale", "pt_BR")
}

// validateConfig checks configuration invariants that would otherwise surface
// as confusing runtime failures.
func validateConfig(c *Config) error {
	if c.Billing.TaxRate < 0 || c.Billing.TaxRate >= 1 {
		return fmt.Errorf("billing.tax_rate must be in [0, 1), got %v", c.Billing.TaxRate)
	}
	if c.Billing.ValidityDays <= 0 {
		return fmt.Errorf("billing.validity_days must be positive, got %d", c.Billing.ValidityDays)
	}
	if c.Journal.File == "" {
		return fmt.Errorf("journal.file must not be empty")
	}
	return nil
}
