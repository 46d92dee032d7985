package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"penalty/internal/logger"
	"penalty/internal/penalty"
)

type Config struct {
	// Calculation defaults, overridable per command
	PenaltyRate string `validate:"required"`
	PaymentTerm string

	// Statutory rate (art. 395): annual percent and year length
	StatutoryAnnualRate string `validate:"required,numeric"`
	StatutoryDaysInYear int    `validate:"oneof=360 365 366"`

	// Logging Configuration
	LogLevel      string `validate:"oneof=trace debug info warn error fatal panic disabled"`
	LogFormat     string `validate:"oneof=console json"`
	LogTimeFormat string
	LogOutput     string `validate:"required"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		PenaltyRate:         penalty.RateFixed015,
		StatutoryAnnualRate: "19",
		StatutoryDaysInYear: 365,
		LogLevel:            "info",
		LogFormat:           "console",
		LogTimeFormat:       "2006-01-02T15:04:05Z07:00",
		LogOutput:           "stderr",
	}
}

func Load() (*Config, error) {
	d := Defaults()
	config := &Config{
		PenaltyRate:         getEnv("PENALTY_RATE", d.PenaltyRate),
		PaymentTerm:         getEnv("PAYMENT_TERM", d.PaymentTerm),
		StatutoryAnnualRate: getEnv("STATUTORY_ANNUAL_RATE", d.StatutoryAnnualRate),
		StatutoryDaysInYear: getEnvInt("STATUTORY_DAYS_IN_YEAR", d.StatutoryDaysInYear),
		LogLevel:            getEnv("LOG_LEVEL", d.LogLevel),
		LogFormat:           getEnv("LOG_FORMAT", d.LogFormat),
		LogTimeFormat:       getEnv("LOG_TIME_FORMAT", d.LogTimeFormat),
		LogOutput:           getEnv("LOG_OUTPUT", d.LogOutput),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	rate, err := decimal.NewFromString(c.StatutoryAnnualRate)
	if err != nil {
		return fmt.Errorf("STATUTORY_ANNUAL_RATE is not a number: %w", err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("STATUTORY_ANNUAL_RATE must not be negative")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// GetPolicy returns the rate policy described by the statutory settings
func (c *Config) GetPolicy() penalty.Policy {
	return penalty.Policy{
		AnnualRatePercent: decimal.RequireFromString(c.StatutoryAnnualRate),
		DaysInYear:        c.StatutoryDaysInYear,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue on unset or non-integer values.
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
