package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Audit sink kinds.
const (
	AuditSinkLog  = "log"
	AuditSinkAMQP = "amqp"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	EnableDBCheck  bool
	DBMaxConns     int32
	MigrationsPath string
	IsProduction   bool
	LogLevel       string

	// Ledger
	FunctionalCurrency            string
	RetainedEarningsAccountCode   string
	AccruedLiabilitiesAccountCode string
	AccrualEnabled                bool
	AccrualWindowDays             int
	AccrualConcentrationThreshold decimal.Decimal
	AccrualRatio                  decimal.Decimal
	AccrualAccountCodes           []string

	// Audit
	AuditSink     string
	AMQPURL       string
	AuditExchange string

	StorageRetryMaxElapsed time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FUNCTIONAL_CURRENCY", "USD")
	v.SetDefault("RETAINED_EARNINGS_ACCOUNT_CODE", "3900")
	v.SetDefault("ACCRUED_LIABILITIES_ACCOUNT_CODE", "2100")
	v.SetDefault("ACCRUAL_ENABLED", true)
	v.SetDefault("ACCRUAL_WINDOW_DAYS", 5)
	v.SetDefault("ACCRUAL_CONCENTRATION_THRESHOLD", "0.5")
	v.SetDefault("ACCRUAL_RATIO", "1")
	v.SetDefault("ACCRUAL_ACCOUNT_CODES", "")
	v.SetDefault("AUDIT_SINK", AuditSinkLog)
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AUDIT_EXCHANGE", "ledger.audit")
	v.SetDefault("STORAGE_RETRY_MAX_ELAPSED", "30s")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:                   v.GetString("PGSQL_URL"),
		EnableDBCheck:                 v.GetBool("ENABLE_DB_CHECK"),
		DBMaxConns:                    v.GetInt32("DB_MAX_CONNS"),
		MigrationsPath:                v.GetString("MIGRATIONS_PATH"),
		IsProduction:                  v.GetBool("IS_PRODUCTION"),
		LogLevel:                      v.GetString("LOG_LEVEL"),
		FunctionalCurrency:            strings.ToUpper(v.GetString("FUNCTIONAL_CURRENCY")),
		RetainedEarningsAccountCode:   v.GetString("RETAINED_EARNINGS_ACCOUNT_CODE"),
		AccruedLiabilitiesAccountCode: v.GetString("ACCRUED_LIABILITIES_ACCOUNT_CODE"),
		AccrualEnabled:                v.GetBool("ACCRUAL_ENABLED"),
		AccrualWindowDays:             v.GetInt("ACCRUAL_WINDOW_DAYS"),
		AccrualAccountCodes:           splitList(v.GetString("ACCRUAL_ACCOUNT_CODES")),
		AuditSink:                     strings.ToLower(v.GetString("AUDIT_SINK")),
		AMQPURL:                       v.GetString("AMQP_URL"),
		AuditExchange:                 v.GetString("AUDIT_EXCHANGE"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	var err error
	if cfg.AccrualConcentrationThreshold, err = decimal.NewFromString(v.GetString("ACCRUAL_CONCENTRATION_THRESHOLD")); err != nil {
		return nil, fmt.Errorf("invalid ACCRUAL_CONCENTRATION_THRESHOLD: %w", err)
	}
	if cfg.AccrualRatio, err = decimal.NewFromString(v.GetString("ACCRUAL_RATIO")); err != nil {
		return nil, fmt.Errorf("invalid ACCRUAL_RATIO: %w", err)
	}

	retryStr := v.GetString("STORAGE_RETRY_MAX_ELAPSED")
	cfg.StorageRetryMaxElapsed, err = time.ParseDuration(retryStr)
	if err != nil {
		cfg.StorageRetryMaxElapsed = 30 * time.Second
		log.Printf("Warning: Invalid value for STORAGE_RETRY_MAX_ELAPSED ('%s'). Defaulting to %s.\n", retryStr, cfg.StorageRetryMaxElapsed)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if _, err := domain.CurrencyScale(c.FunctionalCurrency); err != nil {
		return fmt.Errorf("invalid FUNCTIONAL_CURRENCY: %w", err)
	}
	if c.RetainedEarningsAccountCode == "" {
		return fmt.Errorf("RETAINED_EARNINGS_ACCOUNT_CODE must be set")
	}
	if c.AccrualEnabled {
		if c.AccruedLiabilitiesAccountCode == "" {
			return fmt.Errorf("ACCRUED_LIABILITIES_ACCOUNT_CODE must be set when accruals are enabled")
		}
		if c.AccrualWindowDays < 1 {
			return fmt.Errorf("ACCRUAL_WINDOW_DAYS must be at least 1, got %d", c.AccrualWindowDays)
		}
		if !c.AccrualConcentrationThreshold.IsPositive() || c.AccrualConcentrationThreshold.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("ACCRUAL_CONCENTRATION_THRESHOLD must be in (0, 1], got %s", c.AccrualConcentrationThreshold)
		}
		if !c.AccrualRatio.IsPositive() {
			return fmt.Errorf("ACCRUAL_RATIO must be positive, got %s", c.AccrualRatio)
		}
	}
	switch c.AuditSink {
	case AuditSinkLog:
	case AuditSinkAMQP:
		if c.AMQPURL == "" {
			return fmt.Errorf("AMQP_URL must be set when AUDIT_SINK=amqp")
		}
	default:
		return fmt.Errorf("unknown AUDIT_SINK %q", c.AuditSink)
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1, got %d", c.DBMaxConns)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
