package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultAddr             = ":8080"
	defaultDatabaseURL      = "farmavisitas.db"
	defaultJWTSecret        = "change-me-jwt-secret"
	defaultJWTAccessTTL     = "24h"
	defaultReminderInterval = "60s"
	defaultReminderLead     = "30m"
	defaultSheetsBaseURL    = "https://sheets.example.com/v4"
	defaultTokenURL         = ""
	defaultSpreadsheetID    = ""
)

// Config is everything cmd/api needs, sourced from the environment.
type Config struct {
	AppEnv      string
	Addr        string
	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	// Reminder ticker for appointments.
	ReminderInterval time.Duration
	ReminderLead     time.Duration

	// Remote tabular mirror.
	SheetsBaseURL string
	SpreadsheetID string
	TokenURL      string
	ClientID      string
	ClientSecret  string
	RefreshToken  string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:        strings.TrimSpace(getEnv("APP_ENV", "dev")),
		Addr:          strings.TrimSpace(getEnv("ADDR", defaultAddr)),
		DatabaseURL:   strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL)),
		JWTSecret:     strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		SheetsBaseURL: strings.TrimSpace(getEnv("SHEETS_BASE_URL", defaultSheetsBaseURL)),
		SpreadsheetID: strings.TrimSpace(getEnv("SHEETS_SPREADSHEET_ID", defaultSpreadsheetID)),
		TokenURL:      strings.TrimSpace(getEnv("OAUTH_TOKEN_URL", defaultTokenURL)),
		ClientID:      strings.TrimSpace(os.Getenv("OAUTH_CLIENT_ID")),
		ClientSecret:  strings.TrimSpace(os.Getenv("OAUTH_CLIENT_SECRET")),
		RefreshToken:  strings.TrimSpace(os.Getenv("OAUTH_REFRESH_TOKEN")),
	}

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.ReminderInterval, err = parseDurationEnv("REMINDER_INTERVAL", defaultReminderInterval)
	if err != nil {
		return nil, err
	}
	cfg.ReminderLead, err = parseDurationEnv("REMINDER_LEAD", defaultReminderLead)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if cfg.TokenURL == "" {
		log.Println("OAUTH_TOKEN_URL is empty: silent token refresh disabled, mirror writes will require an explicit token")
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.ReminderInterval <= 0 {
		return fmt.Errorf("REMINDER_INTERVAL must be > 0")
	}
	if cfg.ReminderLead <= 0 {
		return fmt.Errorf("REMINDER_LEAD must be > 0")
	}
	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func getEnv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(name, def string) (time.Duration, error) {
	raw := getEnv(name, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", name, raw)
	}
	return d, nil
}

