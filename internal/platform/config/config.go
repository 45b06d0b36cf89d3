package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported ledger store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	DBDriver           string
	SQLitePath         string
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	PreferencesPath    string
	RatesFile          string
	DefaultCurrency    string
	RateLimit          string
	CORSAllowedOrigins []string
	LogLevel           string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "data/ledger.db")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("PREFERENCES_PATH", "data/preferences.db")
	v.SetDefault("RATES_FILE", "data/rates.yaml")
	v.SetDefault("DEFAULT_CURRENCY", "USD")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")

	// Environment variables override both the defaults and the values loaded from .env.
	v.AutomaticEnv()

	cfg := &Config{
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		SQLitePath:      v.GetString("SQLITE_PATH"),
		DatabaseURL:     v.GetString("PGSQL_URL"),
		Port:            v.GetString("PORT"),
		IsProduction:    v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:   v.GetBool("ENABLE_DB_CHECK"),
		PreferencesPath: v.GetString("PREFERENCES_PATH"),
		RatesFile:       v.GetString("RATES_FILE"),
		DefaultCurrency: strings.ToUpper(v.GetString("DEFAULT_CURRENCY")),
		RateLimit:       v.GetString("RATE_LIMIT"),
		LogLevel:        strings.ToLower(v.GetString("LOG_LEVEL")),
	}
	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH must be set when DB_DRIVER is %s", DriverSQLite)
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when DB_DRIVER is %s", DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.PreferencesPath == "" {
		return nil, fmt.Errorf("PREFERENCES_PATH cannot be empty")
	}
	if cfg.RatesFile == "" {
		log.Println("Warning: RATES_FILE not set. Exchange rates will not be suggested.")
	}

	return cfg, nil
}
