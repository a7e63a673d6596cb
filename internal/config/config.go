package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fxbridge/fxbridge-api/internal/types"
)

// BrokerCredentials is one OANDA account: the bearer token and the
// account the orders are booked against.
type BrokerCredentials struct {
	APIKey    string `yaml:"api_key"`
	AccountID string `yaml:"account_id"`
}

// Defaults is the fallback table applied to partially-specified signals.
// Zero values are replaced by the standard table at load time, so a
// config file may override any subset.
type Defaults struct {
	Units                   int64           `yaml:"units"`
	TrailingStopLossPercent decimal.Decimal `yaml:"trailing_stop_loss_percent"`
	TakeProfitPercent       decimal.Decimal `yaml:"take_profit_percent"`
	TradingType             string          `yaml:"trading_type"`
}

// Config holds everything the server needs: webhook access tokens,
// operator auth, broker credentials per trading type, the mail account
// and the precision catalog location.
type Config struct {
	Server struct {
		Port         string   `yaml:"port"`
		AccessTokens []string `yaml:"access_tokens"`
		JWTSecret    string   `yaml:"jwt_secret"`
		APIKey       string   `yaml:"api_key"`
		APISecret    string   `yaml:"api_secret"`
	} `yaml:"server"`

	OANDA struct {
		Practice BrokerCredentials `yaml:"practice"`
		Live     BrokerCredentials `yaml:"live"`
	} `yaml:"oanda"`

	SendGrid struct {
		APIKey       string `yaml:"api_key"`
		EmailAddress string `yaml:"email_address"`
	} `yaml:"sendgrid"`

	Catalog struct {
		Database string `yaml:"database"`
	} `yaml:"catalog"`

	Defaults Defaults `yaml:"defaults"`
}

// Load reads and parses the YAML config at path, applies environment
// overrides for secrets and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Catalog.Database == "" {
		c.Catalog.Database = "precision.db"
	}
	if c.Defaults.Units == 0 {
		c.Defaults.Units = 500
	}
	if c.Defaults.TrailingStopLossPercent.IsZero() {
		c.Defaults.TrailingStopLossPercent = decimal.NewFromFloat(0.01)
	}
	if c.Defaults.TakeProfitPercent.IsZero() {
		c.Defaults.TakeProfitPercent = decimal.NewFromFloat(0.06)
	}
	if c.Defaults.TradingType == "" {
		c.Defaults.TradingType = string(types.TradingPractice)
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if len(c.Server.AccessTokens) == 0 {
		return fmt.Errorf("at least one webhook access token is required")
	}
	if c.Server.JWTSecret == "" {
		return fmt.Errorf("server.jwt_secret is required")
	}
	if c.Server.APIKey == "" || c.Server.APISecret == "" {
		return fmt.Errorf("server.api_key and server.api_secret are required")
	}
	if c.OANDA.Practice.APIKey == "" && c.OANDA.Live.APIKey == "" {
		return fmt.Errorf("credentials for at least one trading type are required")
	}
	if c.SendGrid.APIKey == "" || c.SendGrid.EmailAddress == "" {
		return fmt.Errorf("sendgrid api_key and email_address are required")
	}
	if !types.TradingType(c.Defaults.TradingType).Valid() {
		return fmt.Errorf("defaults.trading_type must be practice or live, got %q", c.Defaults.TradingType)
	}
	return nil
}

// BrokerCredentialsFor returns the credentials for the given trading type.
// A trading type without configured credentials is a validation failure,
// not an upstream one: the request named an environment we cannot trade in.
func (c *Config) BrokerCredentialsFor(t types.TradingType) (BrokerCredentials, error) {
	var creds BrokerCredentials
	switch t {
	case types.TradingPractice:
		creds = c.OANDA.Practice
	case types.TradingLive:
		creds = c.OANDA.Live
	default:
		return BrokerCredentials{}, types.NewValidationError("unknown trading type " + string(t))
	}

	if creds.APIKey == "" || creds.AccountID == "" {
		return BrokerCredentials{}, types.NewValidationError("no credentials configured for trading type " + string(t))
	}
	return creds, nil
}

// overrideWithEnv replaces secrets with environment values when present,
// so the config file on disk can stay free of credentials.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("FXBRIDGE_OANDA_PRACTICE_KEY"); key != "" {
		cfg.OANDA.Practice.APIKey = key
	}
	if key := os.Getenv("FXBRIDGE_OANDA_LIVE_KEY"); key != "" {
		cfg.OANDA.Live.APIKey = key
	}
	if key := os.Getenv("FXBRIDGE_SENDGRID_KEY"); key != "" {
		cfg.SendGrid.APIKey = key
	}
	if secret := os.Getenv("FXBRIDGE_JWT_SECRET"); secret != "" {
		cfg.Server.JWTSecret = secret
	}
}
