package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/blog-reviewer/internal/logger"
	"github.com/jonesrussell/blog-reviewer/internal/repository"
	"github.com/jonesrussell/blog-reviewer/internal/schema"
)

// Check is one verification result.
type Check struct {
	Collection string
	Name       string
	OK         bool
	Detail     string
}

// Verification lists the checks for one database in collection order.
type Verification struct {
	Database string
	Checks   []Check
}

// OK reports whether every check passed.
func (v *Verification) OK() bool {
	for _, c := range v.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Failed returns the checks that did not pass.
func (v *Verification) Failed() []Check {
	var failed []Check
	for _, c := range v.Checks {
		if !c.OK {
			failed = append(failed, c)
		}
	}
	return failed
}

// counter counts documents in one collection.
type counter interface {
	Count(ctx context.Context, filter bson.D) (int64, error)
}

// Inspector compares a live database with the declared schema.
type Inspector struct {
	db         *mongo.Database
	authors    *repository.AuthorRepository
	counters   map[string]counter
	expectSeed bool
}

// NewInspector creates an Inspector. expectSeed adds a check for the
// development author.
func NewInspector(db *mongo.Database, expectSeed bool) *Inspector {
	authors := repository.NewAuthorRepository(db, nil)
	return &Inspector{
		db:      db,
		authors: authors,
		counters: map[string]counter{
			schema.ArticlesCollection: repository.NewArticleRepository(db, nil),
			schema.AuthorsCollection:  authors,
			schema.ReviewsCollection:  repository.NewReviewRepository(db, nil),
		},
		expectSeed: expectSeed,
	}
}

// Verify inspects every collection concurrently. Failed checks are reported
// in the result and logged through the context logger; the error is reserved
// for failures to talk to the server.
func (i *Inspector) Verify(ctx context.Context) (*Verification, error) {
	specs := schema.Collections()
	results := make([][]Check, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	for idx, spec := range specs {
		g.Go(func() error {
			checks, err := i.inspect(gctx, spec)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", spec.Name, err)
			}
			results[idx] = checks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v := &Verification{Database: i.db.Name()}
	for _, checks := range results {
		v.Checks = append(v.Checks, checks...)
	}

	log := logger.FromContext(ctx)
	for _, c := range v.Failed() {
		log.Warn("Check failed",
			logger.String("collection", c.Collection),
			logger.String("check", c.Name),
			logger.String("detail", c.Detail),
		)
	}
	return v, nil
}

func (i *Inspector) inspect(ctx context.Context, spec schema.CollectionSpec) ([]Check, error) {
	found, err := i.db.ListCollectionSpecifications(ctx, bson.D{{Key: "name", Value: spec.Name}})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return []Check{{Collection: spec.Name, Name: "exists", Detail: "collection not found"}}, nil
	}

	n, err := i.counters[spec.Name].Count(ctx, nil)
	if err != nil {
		return nil, err
	}

	checks := []Check{
		{Collection: spec.Name, Name: "exists", OK: true},
		validatorCheck(spec.Name, found[0]),
		{Collection: spec.Name, Name: "documents", OK: true, Detail: fmt.Sprintf("%d document(s)", n)},
	}

	indexChecks, err := i.indexChecks(ctx, spec)
	if err != nil {
		return nil, err
	}
	checks = append(checks, indexChecks...)

	if i.expectSeed && spec.Name == schema.AuthorsCollection {
		seed, seedErr := i.seedCheck(ctx)
		if seedErr != nil {
			return nil, seedErr
		}
		checks = append(checks, seed)
	}
	return checks, nil
}

func validatorCheck(collection string, spec mongo.CollectionSpecification) Check {
	c := Check{Collection: collection, Name: "validator"}
	if _, err := spec.Options.LookupErr("validator", "$jsonSchema"); err != nil {
		c.Detail = "no $jsonSchema validator"
		return c
	}
	c.OK = true
	return c
}

func (i *Inspector) indexChecks(ctx context.Context, spec schema.CollectionSpec) ([]Check, error) {
	live, err := i.db.Collection(spec.Name).Indexes().ListSpecifications(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]mongo.IndexSpecification, len(live))
	for _, idx := range live {
		byName[idx.Name] = idx
	}

	checks := make([]Check, 0, len(spec.Indexes))
	for _, want := range spec.Indexes {
		c := Check{Collection: spec.Name, Name: "index " + want.Name}
		got, ok := byName[want.Name]
		isUnique := ok && got.Unique != nil && *got.Unique
		switch {
		case !ok:
			c.Detail = "missing"
		case isUnique != want.Unique:
			c.Detail = fmt.Sprintf("unique=%t, want %t", isUnique, want.Unique)
		default:
			c.OK = true
			if want.Unique {
				c.Detail = "unique"
			}
		}
		checks = append(checks, c)
	}
	return checks, nil
}

// seedCheck loads the development author and applies the client-side rules
// to it, so a hand-edited seed that the server validator tolerates still
// shows up.
func (i *Inspector) seedCheck(ctx context.Context) (Check, error) {
	c := Check{Collection: schema.AuthorsCollection, Name: "seed author"}

	author, err := i.authors.GetByEmail(ctx, schema.SeedAuthorEmail)
	if errors.Is(err, repository.ErrNotFound) {
		c.Detail = "no author with email " + schema.SeedAuthorEmail
		return c, nil
	}
	if err != nil {
		return Check{}, err
	}

	if err = author.Validate(); err != nil {
		c.Detail = err.Error()
		return c, nil
	}

	c.OK = true
	c.Detail = fmt.Sprintf("%s <%s> (%s)", author.Name, author.Email, author.ID.Hex())
	return c, nil
}
