package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port       string
	ServerMode string

	// Logging
	LogLevel  string
	LogFormat string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	AMQPPrefetch int

	// Budget limits table, defaults when empty
	BudgetLimitsFile string

	ShutdownTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:       getEnv("PORT", "8081"),
		ServerMode: getEnv("SERVER_MODE", "release"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finrec"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "finrec_rpc"),
		AMQPPrefetch: getEnvInt("AMQP_PREFETCH", 10),

		BudgetLimitsFile: getEnv("BUDGET_LIMITS_FILE", ""),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	return cfg
}

// AMQPEnabled reports whether the AMQP transport should be started
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ServerMode != "debug" && c.ServerMode != "release" && c.ServerMode != "test" {
		errors = append(errors, fmt.Sprintf("invalid server mode '%s': must be one of [debug release test]", c.ServerMode))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPPrefetch < 1 || c.AMQPPrefetch > 1000 {
			errors = append(errors, fmt.Sprintf("invalid AMQP prefetch %d: must be between 1 and 1000", c.AMQPPrefetch))
		}
	}

	if c.BudgetLimitsFile != "" {
		if _, err := os.Stat(c.BudgetLimitsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("budget limits file does not exist: %s", c.BudgetLimitsFile))
		}
	}

	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	} else if c.ShutdownTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at most 5 minutes", c.ShutdownTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
