// Package bootstrap prepares the blog-reviewer database: validated
// collections, secondary indexes and the development author. Every step is
// safe to repeat against a database that was already initialised.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jonesrussell/blog-reviewer/internal/database"
	"github.com/jonesrussell/blog-reviewer/internal/domain"
	"github.com/jonesrussell/blog-reviewer/internal/logger"
	"github.com/jonesrussell/blog-reviewer/internal/repository"
	"github.com/jonesrussell/blog-reviewer/internal/schema"
	"github.com/jonesrussell/blog-reviewer/internal/telemetry"
)

// ErrIndexConflict is returned when an index with a declared name or key
// pattern already exists with different options.
var ErrIndexConflict = errors.New("index conflicts with an existing definition")

// Validator defaults.
const (
	DefaultValidationLevel  = "strict"
	DefaultValidationAction = "error"
)

// Options tune a bootstrap run. The zero value is usable.
type Options struct {
	// SkipSeed leaves the authors collection without the development author.
	SkipSeed bool
	// SkipValidatorSync keeps validators of existing collections untouched.
	SkipValidatorSync bool
	ValidationLevel   string
	ValidationAction  string
	// Now stamps the seed document. Defaults to time.Now.
	Now func() time.Time
}

func (o *Options) setDefaults() {
	if o.ValidationLevel == "" {
		o.ValidationLevel = DefaultValidationLevel
	}
	if o.ValidationAction == "" {
		o.ValidationAction = DefaultValidationAction
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Bootstrapper runs the initialisation steps against one database.
type Bootstrapper struct {
	db      *mongo.Database
	authors *repository.AuthorRepository
	opts    Options
	log     logger.Logger
	metrics *telemetry.Metrics
}

// New creates a Bootstrapper. log and metrics may be nil.
func New(db *mongo.Database, opts Options, log logger.Logger, metrics *telemetry.Metrics) *Bootstrapper {
	opts.setDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With(logger.String("database", db.Name()))
	return &Bootstrapper{
		db:      db,
		authors: repository.NewAuthorRepository(db, log).WithClock(opts.Now),
		opts:    opts,
		log:     log,
		metrics: metrics,
	}
}

// Run executes every step in order and stops at the first failure.
func (b *Bootstrapper) Run(ctx context.Context) (*Report, error) {
	start := b.opts.Now()
	report := &Report{Database: b.db.Name(), SeedSkipped: b.opts.SkipSeed}

	err := b.run(ctx, report)
	finished := b.opts.Now()
	report.Duration = finished.Sub(start)
	b.metrics.RecordRun(report.Duration, finished, err)

	if err != nil {
		b.log.Error("Bootstrap failed", logger.Error(err), logger.Duration("duration", report.Duration))
		return nil, err
	}

	b.log.Info("Bootstrap completed",
		logger.Strings("collections_created", report.CollectionsCreated),
		logger.Strings("validators_synced", report.ValidatorsSynced),
		logger.Int("indexes_ensured", report.IndexesEnsured),
		logger.Bool("seed_inserted", report.SeedInserted),
		logger.Duration("duration", report.Duration),
	)
	return report, nil
}

func (b *Bootstrapper) run(ctx context.Context, report *Report) error {
	created, synced, err := b.EnsureCollections(ctx)
	if err != nil {
		return err
	}
	report.CollectionsCreated = created
	report.ValidatorsSynced = synced

	n, err := b.EnsureIndexes(ctx)
	if err != nil {
		return err
	}
	report.IndexesEnsured = n

	if b.opts.SkipSeed {
		b.log.Info("Seed data skipped")
		return nil
	}

	inserted, err := b.SeedAuthor(ctx)
	if err != nil {
		return err
	}
	report.SeedInserted = inserted
	return nil
}

// EnsureCollections creates missing collections with their validators and
// re-applies the validator to the ones that already exist. It returns the
// names created and the names whose validator was synced.
func (b *Bootstrapper) EnsureCollections(ctx context.Context) (created, synced []string, err error) {
	existing, err := b.existingCollections(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, spec := range schema.Collections() {
		if !existing[spec.Name] {
			ok, createErr := b.createCollection(ctx, spec)
			if createErr != nil {
				return nil, nil, createErr
			}
			if ok {
				created = append(created, spec.Name)
				continue
			}
		}

		if b.opts.SkipValidatorSync {
			b.log.Debug("Collection exists, validator sync disabled", logger.String("collection", spec.Name))
			continue
		}
		if syncErr := b.syncValidator(ctx, spec); syncErr != nil {
			return nil, nil, syncErr
		}
		synced = append(synced, spec.Name)
	}

	return created, synced, nil
}

func (b *Bootstrapper) existingCollections(ctx context.Context) (map[string]bool, error) {
	filter := bson.D{{Key: "name", Value: bson.D{{Key: "$in", Value: schema.Names()}}}}
	names, err := b.db.ListCollectionNames(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	existing := make(map[string]bool, len(names))
	for _, name := range names {
		existing[name] = true
	}
	return existing, nil
}

// createCollection reports false when another process created it first.
func (b *Bootstrapper) createCollection(ctx context.Context, spec schema.CollectionSpec) (bool, error) {
	opts := options.CreateCollection().
		SetValidator(spec.Validator).
		SetValidationLevel(b.opts.ValidationLevel).
		SetValidationAction(b.opts.ValidationAction)

	if err := b.db.CreateCollection(ctx, spec.Name, opts); err != nil {
		if database.IsNamespaceExists(err) {
			b.log.Debug("Collection created concurrently", logger.String("collection", spec.Name))
			return false, nil
		}
		return false, fmt.Errorf("create collection %s: %w", spec.Name, err)
	}

	b.log.Info("Collection created", logger.String("collection", spec.Name))
	b.metrics.RecordCollectionCreated(spec.Name)
	return true, nil
}

func (b *Bootstrapper) syncValidator(ctx context.Context, spec schema.CollectionSpec) error {
	cmd := bson.D{
		{Key: "collMod", Value: spec.Name},
		{Key: "validator", Value: spec.Validator},
		{Key: "validationLevel", Value: b.opts.ValidationLevel},
		{Key: "validationAction", Value: b.opts.ValidationAction},
	}
	if err := b.db.RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("sync validator for %s: %w", spec.Name, err)
	}

	b.log.Info("Validator synced", logger.String("collection", spec.Name))
	b.metrics.RecordValidatorSynced(spec.Name)
	return nil
}

// EnsureIndexes declares every secondary index and returns how many were
// declared. Indexes that already exist with the same definition are left
// alone; a differing definition yields ErrIndexConflict.
func (b *Bootstrapper) EnsureIndexes(ctx context.Context) (int, error) {
	total := 0
	for _, spec := range schema.Collections() {
		names, err := b.db.Collection(spec.Name).Indexes().CreateMany(ctx, schema.Models(spec.Indexes))
		if err != nil {
			if database.IsIndexConflict(err) {
				return total, fmt.Errorf("%w on %s: %w", ErrIndexConflict, spec.Name, err)
			}
			return total, fmt.Errorf("create indexes on %s: %w", spec.Name, err)
		}

		total += len(names)
		b.log.Info("Indexes ensured",
			logger.String("collection", spec.Name),
			logger.Strings("indexes", names),
		)
		b.metrics.RecordIndexesEnsured(spec.Name, len(names))
	}
	return total, nil
}

// SeedAuthor inserts the development author unless an author with its email
// already exists. It reports whether a document was inserted; an existing
// author is never modified.
func (b *Bootstrapper) SeedAuthor(ctx context.Context) (bool, error) {
	author := domain.DevelopmentAuthor()
	inserted, err := b.authors.EnsureByEmail(ctx, author)
	if err != nil {
		return false, fmt.Errorf("seed author: %w", err)
	}

	if !inserted {
		b.log.Info("Seed author already present", logger.String("email", author.Email))
		return false, nil
	}

	b.log.Info("Seed author created", logger.ObjectID("author_id", author.ID))
	b.metrics.RecordSeedInserted()
	return true, nil
}
