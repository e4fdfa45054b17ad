// Package database owns the MongoDB client lifecycle and the classification
// of driver errors used by the bootstrap and repository packages.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/jonesrussell/blog-reviewer/internal/logger"
	"github.com/jonesrussell/blog-reviewer/internal/retry"
)

const disconnectTimeout = 5 * time.Second

// Config holds connection settings.
type Config struct {
	URI                    string
	Database               string
	AppName                string
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	Retry                  retry.Config
}

// Connection wraps a connected client and the target database.
type Connection struct {
	Client *mongo.Client
	db     *mongo.Database
}

// ClientOptions builds driver options from cfg.
func ClientOptions(cfg Config) *options.ClientOptions {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}
	return opts
}

// Connect creates a client and pings the primary until it answers or the
// retry policy gives up. mongod is often still starting when the bootstrap
// container runs, so only network-level failures are retried.
func Connect(ctx context.Context, cfg Config, log logger.Logger) (*Connection, error) {
	client, err := mongo.Connect(ClientOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	policy := cfg.Retry
	if policy.IsRetryable == nil {
		policy.IsRetryable = IsRetryable
	}
	policy.OnRetry = func(attempt int, delay time.Duration, pingErr error) {
		log.Warn("MongoDB not reachable yet, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Error(pingErr),
		)
	}

	pingErr := retry.Do(ctx, policy, func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})
	if pingErr != nil {
		disconnect(client)
		return nil, fmt.Errorf("ping mongodb: %w", pingErr)
	}

	log.Info("MongoDB connected",
		logger.String("database", cfg.Database),
		logger.String("app_name", cfg.AppName),
	)

	return &Connection{Client: client, db: client.Database(cfg.Database)}, nil
}

// Database returns the configured database handle.
func (c *Connection) Database() *mongo.Database {
	return c.db
}

// Ping checks that the primary is reachable.
func (c *Connection) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (c *Connection) Close(ctx context.Context) error {
	if err := c.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	_ = client.Disconnect(ctx)
}
