// Package sheets exports coverage results to Google Sheets.
package sheets

import (
	"errors"
	"os"
	"time"
)

// DefaultSpreadsheetName is used when no spreadsheet name is
// configured.
const DefaultSpreadsheetName = "Dukbill Category Coverage"

// Config holds everything the writer needs to reach a spreadsheet.
// Exactly one auth method must be set: OAuth2 (client ID, secret and
// refresh token) or a service account key file.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string

	SpreadsheetID   string
	SpreadsheetName string
	TimeZone        string

	BatchSize        int
	RetryAttempts    int
	RetryDelay       time.Duration
	EnableFormatting bool
}

// DefaultConfig returns a Config with sensible defaults. The time zone
// follows Dukbill's brokers.
func DefaultConfig() Config {
	return Config{
		TimeZone:         "Australia/Sydney",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
		EnableFormatting: true,
	}
}

// HasOAuth reports whether a complete OAuth2 credential set is present.
func (c *Config) HasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// HasServiceAccount reports whether a service account key is configured.
func (c *Config) HasServiceAccount() bool {
	return c.ServiceAccountPath != ""
}

// LoadFromEnv populates the Config from GOOGLE_SHEETS_* environment
// variables.
func (c *Config) LoadFromEnv() error {
	c.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	c.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	c.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	c.ServiceAccountPath = os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")
	c.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	c.SpreadsheetName = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME")

	if !c.HasOAuth() && !c.HasServiceAccount() {
		return errors.New("missing Google Sheets authentication: provide either service account path or OAuth2 credentials")
	}
	if c.SpreadsheetName == "" {
		c.SpreadsheetName = DefaultSpreadsheetName
	}
	return nil
}

// Validate checks the configuration before the writer starts.
func (c *Config) Validate() error {
	switch {
	case !c.HasOAuth() && !c.HasServiceAccount():
		return errors.New("no authentication method configured")
	case c.HasOAuth() && c.HasServiceAccount():
		return errors.New("multiple authentication methods configured; use either OAuth2 or service account")
	case c.BatchSize <= 0:
		return errors.New("batch size must be positive")
	case c.RetryAttempts < 0:
		return errors.New("retry attempts cannot be negative")
	case c.RetryDelay < 0:
		return errors.New("retry delay cannot be negative")
	}
	return nil
}
