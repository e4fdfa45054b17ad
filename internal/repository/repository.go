// Package repository provides CRUD access to the blog-reviewer collections.
package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jonesrussell/blog-reviewer/internal/database"
)

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate document")
	// ErrInvalidDocument is returned when the server validator rejects a write.
	ErrInvalidDocument = errors.New("document failed validation")
	// ErrEmptyUpdate is returned by Update calls without fields.
	ErrEmptyUpdate = errors.New("no fields to update")
)

const (
	DefaultLimit       int64 = 50
	DefaultSearchLimit int64 = 20
	DefaultSortBy            = "created_at"
	DefaultSortOrder         = -1
)

// ListOptions controls filtering, paging and sorting of List calls.
// Zero values select the defaults.
type ListOptions struct {
	Filter    bson.D
	Skip      int64
	Limit     int64
	SortBy    string
	SortOrder int
}

func (o ListOptions) filter() bson.D {
	if o.Filter == nil {
		return bson.D{}
	}
	return o.Filter
}

func (o ListOptions) findOptions() *options.FindOptionsBuilder {
	limit := o.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	sortBy := o.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	order := o.SortOrder
	if order == 0 {
		order = DefaultSortOrder
	}

	opts := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: sortBy, Value: order}})
	if o.Skip > 0 {
		opts.SetSkip(o.Skip)
	}
	return opts
}

// withFilter returns a copy of o whose filter also matches key == value.
func (o ListOptions) withFilter(key string, value any) ListOptions {
	f := make(bson.D, 0, len(o.Filter)+1)
	f = append(f, o.Filter...)
	o.Filter = append(f, bson.E{Key: key, Value: value})
	return o
}

// searchFilter matches term case-insensitively, as a literal, in any of fields.
func searchFilter(term string, fields ...string) bson.D {
	pattern := bson.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.D{{Key: f, Value: pattern}})
	}
	return bson.D{{Key: "$or", Value: or}}
}

func searchLimit(limit int64) *options.FindOptionsBuilder {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return options.Find().SetLimit(limit)
}

// mapWriteError translates server write failures into package sentinels.
func mapWriteError(op string, err error) error {
	switch {
	case database.IsDuplicateKey(err):
		return fmt.Errorf("%s: %w: %w", op, ErrDuplicate, err)
	case database.IsDocumentValidation(err):
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidDocument, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, op string, filter any, opts ...options.Lister[options.FindOneOptions]) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &doc, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, op string, filter any, opts ...options.Lister[options.FindOptions]) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs := []*T{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	return docs, nil
}

// updateByID applies fields with $set and stamps updated_at.
func updateByID(ctx context.Context, coll *mongo.Collection, op string, id bson.ObjectID, fields bson.M, now time.Time) error {
	if len(fields) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyUpdate)
	}

	set := make(bson.M, len(fields)+1)
	for k, v := range fields {
		set[k] = v
	}
	set["updated_at"] = now

	res, err := coll.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return mapWriteError(op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, op string, id bson.ObjectID) error {
	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func count(ctx context.Context, coll *mongo.Collection, op string, filter bson.D) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	n, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func insertedID(res *mongo.InsertOneResult) bson.ObjectID {
	id, _ := res.InsertedID.(bson.ObjectID)
	return id
}

// clock returns a UTC time truncated to the millisecond precision BSON stores.
type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC().Truncate(time.Millisecond)
	}
	return c().UTC().Truncate(time.Millisecond)
}
