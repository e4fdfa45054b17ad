package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonesrussell/blog-reviewer/internal/config"
	"github.com/jonesrussell/blog-reviewer/internal/database"
	"github.com/jonesrussell/blog-reviewer/internal/logger"
	"github.com/jonesrussell/blog-reviewer/internal/retry"
)

// commandDeps holds what every subcommand needs.
type commandDeps struct {
	Config *config.Config
	Logger logger.Logger
}

// loadDeps reads and validates configuration and builds the run logger.
func loadDeps(opts *rootOptions) (*commandDeps, error) {
	path := opts.configFile
	if path == "" {
		path = config.GetConfigPath(config.DefaultConfigFile)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.debug {
		cfg.Service.Debug = true
		cfg.Logging.Level = "debug"
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	log = log.With(
		logger.String("service", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.String("run_id", uuid.NewString()),
	)

	return &commandDeps{Config: cfg, Logger: log}, nil
}

func (d *commandDeps) databaseConfig() database.Config {
	m := d.Config.MongoDB
	return database.Config{
		URI:                    m.URI,
		Database:               m.Database,
		AppName:                m.AppName,
		ConnectTimeout:         m.ConnectTimeout,
		ServerSelectionTimeout: m.ServerSelectionTimeout,
		Retry: retry.Config{
			MaxAttempts:  d.Config.Retry.MaxAttempts,
			InitialDelay: d.Config.Retry.InitialDelay,
			MaxDelay:     d.Config.Retry.MaxDelay,
		},
	}
}

// connect opens the database and returns it with a close function.
func (d *commandDeps) connect(ctx context.Context) (*database.Connection, func(), error) {
	conn, err := database.Connect(ctx, d.databaseConfig(), d.Logger)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), d.Config.MongoDB.ConnectTimeout)
		defer cancel()
		if closeErr := conn.Close(closeCtx); closeErr != nil {
			d.Logger.Warn("Failed to close MongoDB connection", logger.Error(closeErr))
		}
	}
	return conn, closeFn, nil
}

// operationContext carries the run logger and is bounded by the configured
// operation timeout.
func (d *commandDeps) operationContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := logger.WithContext(parent, d.Logger)
	if d.Config.MongoDB.OperationTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.Config.MongoDB.OperationTimeout)
}
