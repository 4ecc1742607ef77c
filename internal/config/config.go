package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const minJWTSecretLength = 32

type Config struct {
	// HTTP server
	HTTPAddr  string
	PprofAddr string

	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	RunMigrations     bool

	// Auth
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Market data
	MarketDataAPIKey  string
	MarketDataBaseURL string

	// Scheduled jobs
	PriceRefreshSchedule  string
	BudgetRefreshSchedule string
	DebtReminderSchedule  string
	DebtReminderDays      int

	// Outgoing mail, disabled when SMTPHost is empty
	SMTPHost      string
	SMTPPort      string
	EmailAddress  string
	EmailPassword string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, continuing with system environment variables")
	}

	return &Config{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		PprofAddr: getEnv("PPROF_ADDR", ""),

		DatabaseURL:       getEnv("DB_CONNECTION_STRING", ""),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 50),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		RunMigrations:     getEnvBool("DB_RUN_MIGRATIONS", true),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 720*time.Hour),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		MarketDataAPIKey:  getEnv("MARKET_DATA_API_KEY", ""),
		MarketDataBaseURL: getEnv("MARKET_DATA_BASE_URL", "https://financialmodelingprep.com/api/v3"),

		PriceRefreshSchedule:  getEnv("PRICE_REFRESH_SCHEDULE", "@every 6h"),
		BudgetRefreshSchedule: getEnv("BUDGET_REFRESH_SCHEDULE", "@daily"),
		DebtReminderSchedule:  getEnv("DEBT_REMINDER_SCHEDULE", "0 8 * * *"),
		DebtReminderDays:      getEnvInt("DEBT_REMINDER_DAYS", 3),

		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		EmailAddress:  getEnv("EMAIL_ADDRESS", ""),
		EmailPassword: getEnv("EMAIL_PASSWORD", ""),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DB_CONNECTION_STRING is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLength))
	}

	if c.DBMaxOpenConns < 1 {
		errs = append(errs, fmt.Errorf("invalid DB_MAX_OPEN_CONNS %d: must be at least 1", c.DBMaxOpenConns))
	}
	if c.DBMaxIdleConns < 0 || c.DBMaxIdleConns > c.DBMaxOpenConns {
		errs = append(errs, fmt.Errorf("invalid DB_MAX_IDLE_CONNS %d: must be between 0 and DB_MAX_OPEN_CONNS", c.DBMaxIdleConns))
	}

	if c.AccessTokenTTL < time.Minute {
		errs = append(errs, fmt.Errorf("invalid ACCESS_TOKEN_TTL %v: must be at least 1 minute", c.AccessTokenTTL))
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		errs = append(errs, errors.New("REFRESH_TOKEN_TTL must be longer than ACCESS_TOKEN_TTL"))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT '%s': must be text or json", c.LogFormat))
	}

	schedules := map[string]string{
		"PRICE_REFRESH_SCHEDULE":  c.PriceRefreshSchedule,
		"BUDGET_REFRESH_SCHEDULE": c.BudgetRefreshSchedule,
		"DEBT_REMINDER_SCHEDULE":  c.DebtReminderSchedule,
	}
	for key, spec := range schedules {
		if _, err := cron.ParseStandard(spec); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s '%s': %w", key, spec, err))
		}
	}
	if c.DebtReminderDays < 0 || c.DebtReminderDays > 31 {
		errs = append(errs, fmt.Errorf("invalid DEBT_REMINDER_DAYS %d: must be between 0 and 31", c.DebtReminderDays))
	}

	if c.SMTPHost != "" && (c.EmailAddress == "" || c.EmailPassword == "") {
		errs = append(errs, errors.New("EMAIL_ADDRESS and EMAIL_PASSWORD are required when SMTP_HOST is set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// MailEnabled reports whether outgoing e-mail is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// MarketDataEnabled reports whether the price refresh job can run.
func (c *Config) MarketDataEnabled() bool {
	return c.MarketDataAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
