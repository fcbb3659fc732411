package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return &cfg
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig(t)

	assert.NoError(t, validateConfig(cfg))
	assert.Equal(t, 0.0099, cfg.Billing.TaxRate)
	assert.Equal(t, 20, cfg.Billing.ValidityDays)
	assert.Equal(t, "BRL", cfg.Billing.CurrencyID)
	assert.Equal(t, "data/payment_links.json", cfg.Journal.File)
	assert.Equal(t, "resumo_mensal", cfg.Messaging.Template)
	assert.Equal(t, "pt_BR", cfg.Messaging.Locale)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "Defaults pass",
			mutate: func(c *Config) {},
		},
		{
			name:    "Negative tax rate",
			mutate:  func(c *Config) { c.Billing.TaxRate = -0.01 },
			wantErr: "tax_rate",
		},
		{
			name:    "Tax rate of one or more",
			mutate:  func(c *Config) { c.Billing.TaxRate = 1.0 },
			wantErr: "tax_rate",
		},
		{
			name:    "Zero validity days",
			mutate:  func(c *Config) { c.Billing.ValidityDays = 0 },
			wantErr: "validity_days",
		},
		{
			name:    "Empty journal path",
			mutate:  func(c *Config) { c.Journal.File = "" },
			wantErr: "journal.file",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tc.mutate(cfg)

			err := validateConfig(cfg)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestCredentialEnvOverride(t *testing.T) {
	t.Setenv("LEDGER_API_KEY", "test-ledger-key")
	t.Setenv("GATEWAY_ACCESS_TOKEN", "test-gateway-token")

	cfg, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-ledger-key", cfg.Ledger.APIKey)
	assert.Equal(t, "test-gateway-token", cfg.Gateway.AccessToken)
}
