package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/dukbill/tally/internal/sheets"
)

// LoadSheetsConfig assembles the Google Sheets exporter configuration.
// Values under viper's sheets.* keys (config file or TALLY_ env) win
// over plain GOOGLE_SHEETS_* environment variables; defaults fill
// whatever remains.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	cfg.ServiceAccountPath = viperOrEnv("sheets.service_account_path", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")
	if cfg.ServiceAccountPath != "" {
		cfg.ServiceAccountPath = ExpandPath(cfg.ServiceAccountPath)
	}
	cfg.ClientID = viperOrEnv("sheets.client_id", "GOOGLE_SHEETS_CLIENT_ID")
	cfg.ClientSecret = viperOrEnv("sheets.client_secret", "GOOGLE_SHEETS_CLIENT_SECRET")
	cfg.RefreshToken = viperOrEnv("sheets.refresh_token", "GOOGLE_SHEETS_REFRESH_TOKEN")
	cfg.SpreadsheetID = viperOrEnv("sheets.spreadsheet_id", "GOOGLE_SHEETS_SPREADSHEET_ID")
	cfg.SpreadsheetName = viperOrEnv("sheets.spreadsheet_name", "GOOGLE_SHEETS_SPREADSHEET_NAME")
	if cfg.SpreadsheetName == "" {
		cfg.SpreadsheetName = sheets.DefaultSpreadsheetName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// viperOrEnv returns the viper value for key when set, otherwise the
// environment variable.
func viperOrEnv(key, envVar string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return os.Getenv(envVar)
}
