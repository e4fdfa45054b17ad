package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Characters MongoDB forbids in database names.
const invalidDatabaseChars = `/\. "$`

// Validate validates the configuration.
func (c *Config) Validate() error {
	validators := []func() error{
		c.MongoDB.validate,
		c.Bootstrap.validate,
		c.Retry.validate,
		c.Logging.validate,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (m *MongoDBConfig) validate() error {
	if m.URI == "" {
		return &ValidationError{Field: "mongodb.uri", Message: "is required"}
	}
	if !strings.HasPrefix(m.URI, "mongodb://") && !strings.HasPrefix(m.URI, "mongodb+srv://") {
		return &ValidationError{Field: "mongodb.uri", Message: "must start with mongodb:// or mongodb+srv://"}
	}
	if m.Database == "" {
		return &ValidationError{Field: "mongodb.database", Message: "is required"}
	}
	if strings.ContainsAny(m.Database, invalidDatabaseChars) {
		return &ValidationError{Field: "mongodb.database", Message: "must not contain any of " + invalidDatabaseChars}
	}
	if m.OperationTimeout < 0 {
		return &ValidationError{Field: "mongodb.operation_timeout", Message: "must not be negative"}
	}
	return nil
}

func (b *BootstrapConfig) validate() error {
	switch b.ValidationLevel {
	case "off", "strict", "moderate":
	default:
		return &ValidationError{Field: "bootstrap.validation_level", Message: "must be one of: off, strict, moderate"}
	}
	switch b.ValidationAction {
	case "error", "warn":
	default:
		return &ValidationError{Field: "bootstrap.validation_action", Message: "must be one of: error, warn"}
	}
	return nil
}

func (r *RetryConfig) validate() error {
	if r.MaxAttempts < 1 {
		return &ValidationError{Field: "retry.max_attempts", Message: "must be at least 1"}
	}
	if r.MaxDelay < r.InitialDelay {
		return &ValidationError{Field: "retry.max_delay", Message: "must not be less than retry.initial_delay"}
	}
	return nil
}

func (l *LoggingConfig) validate() error {
	switch l.Level {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return &ValidationError{Field: "logging.level", Message: "must be one of: debug, info, warn, error, fatal"}
	}
	switch l.Format {
	case "json", "console":
	default:
		return &ValidationError{Field: "logging.format", Message: "must be one of: json, console"}
	}
	return nil
}
