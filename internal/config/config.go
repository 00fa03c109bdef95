package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Tagihan"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"tagihan"`
		Path     string `envconfig:"DB_PATH" default:"./data/tagihan.db"`
	}

	Billing struct {
		DueAfter    time.Duration `envconfig:"BILLING_DUE_AFTER" default:"720h"`
		Brand       string        `envconfig:"BILLING_BRAND" default:"ZaidNet"`
		CountryCode string        `envconfig:"BILLING_COUNTRY_CODE" default:"62"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	AMQP struct {
		URL        string `envconfig:"AMQP_URL"`
		Exchange   string `envconfig:"AMQP_EXCHANGE" default:"tagihan"`
		RoutingKey string `envconfig:"AMQP_ROUTING_KEY" default:"bills"`
	}

	Google struct {
		CredentialsFile string `envconfig:"GOOGLE_CREDENTIALS_FILE"`
		SpreadsheetID   string `envconfig:"GOOGLE_SPREADSHEET_ID"`
		Range           string `envconfig:"GOOGLE_SHEET_RANGE" default:"Sheet1"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

// ConnectionString returns the DSN for the configured driver.
func (c *Config) ConnectionString() string {
	if c.DB.Driver == "sqlite" {
		return c.DB.Path
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.DB.User), url.QueryEscape(c.DB.Password), c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) Validate() error {
	var errs []error

	if c.App.Port < 1 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d: must be between 1 and 65535", c.App.Port))
	}

	switch c.DB.Driver {
	case "postgres":
		if c.DB.Host == "" || c.DB.Name == "" {
			errs = append(errs, errors.New("postgres requires DB_HOST and DB_NAME"))
		}
	case "sqlite":
		if c.DB.Path == "" {
			errs = append(errs, errors.New("sqlite requires DB_PATH"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid DB_DRIVER %q: must be postgres or sqlite", c.DB.Driver))
	}

	if c.Billing.DueAfter < 0 {
		errs = append(errs, fmt.Errorf("invalid BILLING_DUE_AFTER %s: must not be negative", c.Billing.DueAfter))
	}

	if strings.Trim(c.Billing.CountryCode, "0123456789") != "" || c.Billing.CountryCode == "" {
		errs = append(errs, fmt.Errorf("invalid BILLING_COUNTRY_CODE %q: must be digits", c.Billing.CountryCode))
	}

	if c.AMQP.URL != "" {
		u, err := url.Parse(c.AMQP.URL)

		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("invalid AMQP_URL: %w", err))
		case u.Scheme != "amqp" && u.Scheme != "amqps":
			errs = append(errs, fmt.Errorf("invalid AMQP_URL scheme %q: must be amqp or amqps", u.Scheme))
		}

		if c.AMQP.Exchange == "" {
			errs = append(errs, errors.New("AMQP_EXCHANGE cannot be empty when AMQP_URL is set"))
		}
	}

	return errors.Join(errs...)
}

// SheetsEnabled reports whether Google Sheets import is configured.
func (c *Config) SheetsEnabled() bool {
	return c.Google.CredentialsFile != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
