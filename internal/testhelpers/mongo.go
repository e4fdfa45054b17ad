// Package testhelpers provides MongoDB fixtures for integration tests.
package testhelpers

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jonesrussell/blog-reviewer/internal/logger"
)

const (
	mongoImage     = "mongo:7"
	startupTimeout = 2 * time.Minute
	cleanupTimeout = 10 * time.Second
	testTimeout    = time.Minute

	// TestURIEnv points the integration tests at an existing server instead
	// of starting a container.
	TestURIEnv = "MONGODB_TEST_URI"
)

// One container serves every test in the package; the reaper removes it
// when the test binary exits.
var shared struct {
	once sync.Once
	uri  string
	err  error
}

// MongoURI returns the URI of a running MongoDB, starting a container on
// first use. The test is skipped with -short or without a container runtime.
func MongoURI(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if uri := os.Getenv(TestURIEnv); uri != "" {
		return uri
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	shared.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		ctr, err := mongodb.Run(ctx, mongoImage)
		if err != nil {
			shared.err = err
			return
		}
		shared.uri, shared.err = ctr.ConnectionString(ctx)
	})
	require.NoError(t, shared.err, "start mongodb container")

	return shared.uri
}

// NewDatabase connects to the test server and returns a database with a
// unique name. The database is dropped when the test ends.
func NewDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	client, err := mongo.Connect(options.Client().ApplyURI(MongoURI(t)))
	require.NoError(t, err)

	name := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	db := client.Database(name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// Context returns a context bounded by the test's lifetime and a timeout.
func Context(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(t.Context(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

// NewTestLogger returns a logger that discards output.
func NewTestLogger() logger.Logger {
	return logger.NewNop()
}
