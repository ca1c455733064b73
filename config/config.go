package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"lottoledger/database"
	"lottoledger/domain/entities"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Withdrawal limit configuration
	WithdrawalLimits entities.WithdrawalLimits

	// Referral program configuration
	ReferralProgram entities.ReferralProgramConfig

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		WithdrawalLimits: entities.WithdrawalLimits{
			MinAmount:    getEnvDecimal("WITHDRAWAL_MIN_AMOUNT", "10.00"),
			MaxAmount:    getEnvDecimal("WITHDRAWAL_MAX_AMOUNT", "10000.00"),
			DailyLimit:   getEnvDecimal("WITHDRAWAL_DAILY_LIMIT", "1000.00"),
			MonthlyLimit: getEnvDecimal("WITHDRAWAL_MONTHLY_LIMIT", "5000.00"),
		},

		ReferralProgram: entities.ReferralProgramConfig{
			Active:                   getEnvWithDefault("REFERRAL_PROGRAM_ACTIVE", "true") == "true",
			ReferrerBonus:            getEnvDecimal("REFERRAL_REFERRER_BONUS", "10.00"),
			ReferredBonus:            getEnvDecimal("REFERRAL_REFERRED_BONUS", "5.00"),
			MinimumQualifyingDeposit: getEnvDecimal("REFERRAL_MINIMUM_DEPOSIT", "20.00"),
		},

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	if config.WithdrawalLimits.MinAmount.GreaterThan(config.WithdrawalLimits.MaxAmount) {
		return nil, fmt.Errorf("WITHDRAWAL_MIN_AMOUNT cannot exceed WITHDRAWAL_MAX_AMOUNT")
	}
	if config.WithdrawalLimits.DailyLimit.GreaterThan(config.WithdrawalLimits.MonthlyLimit) {
		return nil, fmt.Errorf("WITHDRAWAL_DAILY_LIMIT cannot exceed WITHDRAWAL_MONTHLY_LIMIT")
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDecimal parses a decimal environment variable, falling back to the
// default on absence or parse failure
func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(defaultValue)
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment: "test",
		WithdrawalLimits: entities.WithdrawalLimits{
			MinAmount:    decimal.RequireFromString("10.00"),
			MaxAmount:    decimal.RequireFromString("10000.00"),
			DailyLimit:   decimal.RequireFromString("1000.00"),
			MonthlyLimit: decimal.RequireFromString("5000.00"),
		},
		ReferralProgram: entities.ReferralProgramConfig{
			Active:                   true,
			ReferrerBonus:            decimal.RequireFromString("10.00"),
			ReferredBonus:            decimal.RequireFromString("5.00"),
			MinimumQualifyingDeposit: decimal.RequireFromString("20.00"),
		},
	}
}
