package config

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"
)

// Default configuration values.
const (
	defaultServiceName = "blog-reviewer-db"
	defaultVersion     = "0.1.0"

	defaultMongoURI           = "mongodb://localhost:27017"
	defaultMongoDatabase      = "blog_reviewer"
	defaultConnectTimeout     = 10 * time.Second
	defaultServerSelectionTTL = 10 * time.Second
	defaultOperationTimeout   = 60 * time.Second

	defaultValidationLevel  = "strict"
	defaultValidationAction = "error"

	defaultRetryAttempts     = 5
	defaultRetryInitialDelay = 500 * time.Millisecond
	defaultRetryMaxDelay     = 10 * time.Second

	defaultLoggingLevel  = "info"
	defaultLoggingFormat = "json"
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	MongoDB   MongoDBConfig   `yaml:"mongodb"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
	Retry     RetryConfig     `yaml:"retry"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Debug   bool   `env:"APP_DEBUG" yaml:"debug"`
}

// MongoDBConfig holds MongoDB connection configuration.
type MongoDBConfig struct {
	URI                    string        `env:"MONGODB_URI"      yaml:"uri"`
	Database               string        `env:"MONGODB_DATABASE" yaml:"database"`
	AppName                string        `yaml:"app_name"`
	ConnectTimeout         time.Duration `yaml:"connect_timeout"`
	ServerSelectionTimeout time.Duration `yaml:"server_selection_timeout"`
	// OperationTimeout bounds a whole command run (bootstrap or verify).
	OperationTimeout time.Duration `env:"MONGODB_OPERATION_TIMEOUT" yaml:"operation_timeout"`
}

// BootstrapConfig controls what the bootstrap command does.
type BootstrapConfig struct {
	// SkipSeed disables the development author seed.
	SkipSeed bool `env:"BOOTSTRAP_SKIP_SEED" yaml:"skip_seed"`
	// SkipValidatorSync leaves validators of pre-existing collections alone.
	SkipValidatorSync bool   `env:"BOOTSTRAP_SKIP_VALIDATOR_SYNC" yaml:"skip_validator_sync"`
	ValidationLevel   string `yaml:"validation_level"`
	ValidationAction  string `yaml:"validation_action"`
}

// RetryConfig controls the connect retry policy.
type RetryConfig struct {
	MaxAttempts  int           `env:"MONGODB_CONNECT_ATTEMPTS" yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
}

// MetricsConfig controls metric export.
type MetricsConfig struct {
	// TextfilePath, when set, receives a Prometheus text exposition after each run.
	TextfilePath string `env:"METRICS_TEXTFILE" yaml:"textfile_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from path. A missing file is not an error.
func Load(path string) (*Config, error) {
	return loadWithDefaults[Config](path, setDefaults)
}

// Default returns a config holding only default values.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setMongoDBDefaults(&cfg.MongoDB)
	setBootstrapDefaults(&cfg.Bootstrap)
	setRetryDefaults(&cfg.Retry)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(svc *ServiceConfig) {
	if svc.Name == "" {
		svc.Name = defaultServiceName
	}
	if svc.Version == "" {
		svc.Version = defaultVersion
	}
}

func setMongoDBDefaults(m *MongoDBConfig) {
	if m.URI == "" {
		m.URI = defaultMongoURI
	}
	if m.Database == "" {
		m.Database = uriDatabase(m.URI)
	}
	if m.Database == "" {
		m.Database = defaultMongoDatabase
	}
	if m.AppName == "" {
		m.AppName = defaultServiceName
	}
	if m.ConnectTimeout == 0 {
		m.ConnectTimeout = defaultConnectTimeout
	}
	if m.ServerSelectionTimeout == 0 {
		m.ServerSelectionTimeout = defaultServerSelectionTTL
	}
	if m.OperationTimeout == 0 {
		m.OperationTimeout = defaultOperationTimeout
	}
}

// uriDatabase returns the database named in the path of uri, or "" when the
// path is empty or uri does not parse. Validate reports a malformed uri.
func uriDatabase(uri string) string {
	cs, err := connstring.Parse(uri)
	if err != nil {
		return ""
	}
	return cs.Database
}

func setBootstrapDefaults(b *BootstrapConfig) {
	if b.ValidationLevel == "" {
		b.ValidationLevel = defaultValidationLevel
	}
	if b.ValidationAction == "" {
		b.ValidationAction = defaultValidationAction
	}
}

func setRetryDefaults(r *RetryConfig) {
	if r.MaxAttempts == 0 {
		r.MaxAttempts = defaultRetryAttempts
	}
	if r.InitialDelay == 0 {
		r.InitialDelay = defaultRetryInitialDelay
	}
	if r.MaxDelay == 0 {
		r.MaxDelay = defaultRetryMaxDelay
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLoggingLevel
	}
	if l.Format == "" {
		l.Format = defaultLoggingFormat
	}
}
