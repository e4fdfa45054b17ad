package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jonesrussell/blog-reviewer/internal/database"
	"github.com/jonesrussell/blog-reviewer/internal/domain"
	"github.com/jonesrussell/blog-reviewer/internal/logger"
	"github.com/jonesrussell/blog-reviewer/internal/schema"
)

// AuthorRepository stores authors.
type AuthorRepository struct {
	coll   *mongo.Collection
	logger logger.Logger
	clock  clock
}

// NewAuthorRepository creates an AuthorRepository on db.
func NewAuthorRepository(db *mongo.Database, log logger.Logger) *AuthorRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuthorRepository{
		coll:   db.Collection(schema.AuthorsCollection),
		logger: log,
	}
}

// WithClock makes the repository stamp timestamps from now instead of the
// wall clock.
func (r *AuthorRepository) WithClock(now func() time.Time) *AuthorRepository {
	r.clock = now
	return r
}

// Create normalises, validates and inserts author. A taken email yields ErrDuplicate.
func (r *AuthorRepository) Create(ctx context.Context, author *domain.Author) error {
	author.Normalize()
	if err := author.Validate(); err != nil {
		return fmt.Errorf("create author: %w", err)
	}

	now := r.clock.now()
	author.CreatedAt = now
	author.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, author)
	if err != nil {
		return mapWriteError("create author", err)
	}
	author.ID = insertedID(res)

	r.logger.Debug("Author created", logger.ObjectID("author_id", author.ID))
	return nil
}

// EnsureByEmail inserts author unless one with the same email exists. An
// existing author is left untouched. It reports whether author was inserted,
// in which case its ID and timestamps are filled.
func (r *AuthorRepository) EnsureByEmail(ctx context.Context, author *domain.Author) (bool, error) {
	author.Normalize()
	if err := author.Validate(); err != nil {
		return false, fmt.Errorf("ensure author: %w", err)
	}

	now := r.clock.now()
	author.CreatedAt = now
	author.UpdatedAt = now

	filter := bson.D{{Key: "email", Value: author.Email}}
	update := bson.D{{Key: "$setOnInsert", Value: author}}
	res, err := r.coll.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		// A concurrent upsert won the unique email index.
		if database.IsDuplicateKey(err) {
			return false, nil
		}
		return false, mapWriteError("ensure author", err)
	}
	if res.UpsertedCount == 0 {
		return false, nil
	}

	if id, ok := res.UpsertedID.(bson.ObjectID); ok {
		author.ID = id
	}
	r.logger.Debug("Author inserted", logger.ObjectID("author_id", author.ID))
	return true, nil
}

// GetByID returns the author with id.
func (r *AuthorRepository) GetByID(ctx context.Context, id bson.ObjectID) (*domain.Author, error) {
	return findOne[domain.Author](ctx, r.coll, "get author", bson.D{{Key: "_id", Value: id}})
}

// GetByEmail returns the author with email.
func (r *AuthorRepository) GetByEmail(ctx context.Context, email string) (*domain.Author, error) {
	return findOne[domain.Author](ctx, r.coll, "get author by email", bson.D{{Key: "email", Value: email}})
}

// GetByName returns the first author named name.
func (r *AuthorRepository) GetByName(ctx context.Context, name string) (*domain.Author, error) {
	return findOne[domain.Author](ctx, r.coll, "get author by name", bson.D{{Key: "name", Value: name}})
}

// Update sets fields on the author with id.
func (r *AuthorRepository) Update(ctx context.Context, id bson.ObjectID, fields bson.M) error {
	return updateByID(ctx, r.coll, "update author", id, fields, r.clock.now())
}

// Delete removes the author with id.
func (r *AuthorRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	return deleteByID(ctx, r.coll, "delete author", id)
}

// List returns authors matching opts.
func (r *AuthorRepository) List(ctx context.Context, opts ListOptions) ([]*domain.Author, error) {
	return findMany[domain.Author](ctx, r.coll, "list authors", opts.filter(), opts.findOptions())
}

// GetByExpertise lists authors that list area among their expertise.
func (r *AuthorRepository) GetByExpertise(ctx context.Context, area string, opts ListOptions) ([]*domain.Author, error) {
	return r.List(ctx, opts.withFilter("expertise_areas", area))
}

// Search finds authors whose name or bio contains term.
func (r *AuthorRepository) Search(ctx context.Context, term string, limit int64) ([]*domain.Author, error) {
	return findMany[domain.Author](ctx, r.coll, "search authors", searchFilter(term, "name", "bio"), searchLimit(limit))
}

// Count returns the number of authors matching filter.
func (r *AuthorRepository) Count(ctx context.Context, filter bson.D) (int64, error) {
	return count(ctx, r.coll, "count authors", filter)
}

// UpdateArticleCount sets total_articles for the author with id.
func (r *AuthorRepository) UpdateArticleCount(ctx context.Context, id bson.ObjectID, total int) error {
	if total < 0 {
		return fmt.Errorf("update article count: %w", &domain.ValidationError{
			Field:   "total_articles",
			Message: "must not be negative",
		})
	}
	return r.Update(ctx, id, bson.M{"total_articles": total})
}
