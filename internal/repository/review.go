package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jonesrussell/blog-reviewer/internal/domain"
	"github.com/jonesrussell/blog-reviewer/internal/logger"
	"github.com/jonesrussell/blog-reviewer/internal/schema"
)

// ReviewRepository stores article reviews.
type ReviewRepository struct {
	coll   *mongo.Collection
	logger logger.Logger
	clock  clock
}

// NewReviewRepository creates a ReviewRepository on db.
func NewReviewRepository(db *mongo.Database, log logger.Logger) *ReviewRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &ReviewRepository{
		coll:   db.Collection(schema.ReviewsCollection),
		logger: log,
	}
}

// Create inserts review. An empty status starts as pending. The config is
// stored as given, so callers wanting the defaults pass DefaultReviewConfig.
// A repeated (article, version) pair yields ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if review.Status == "" {
		review.Status = domain.StatusPending
	}
	if err := review.Validate(); err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	now := r.clock.now()
	review.CreatedAt = now
	review.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, review)
	if err != nil {
		return mapWriteError("create review", err)
	}
	review.ID = insertedID(res)

	r.logger.Debug("Review created",
		logger.ObjectID("review_id", review.ID),
		logger.ObjectID("article_id", review.ArticleID),
		logger.Int("version", review.Version),
	)
	return nil
}

// GetByID returns the review with id.
func (r *ReviewRepository) GetByID(ctx context.Context, id bson.ObjectID) (*domain.Review, error) {
	return findOne[domain.Review](ctx, r.coll, "get review", bson.D{{Key: "_id", Value: id}})
}

// GetByArticle lists every review of articleID, highest version first.
func (r *ReviewRepository) GetByArticle(ctx context.Context, articleID bson.ObjectID) ([]*domain.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "version", Value: -1}})
	return findMany[domain.Review](ctx, r.coll, "get reviews by article", bson.D{{Key: "article_id", Value: articleID}}, opts)
}

// GetLatestByArticle returns the highest version review of articleID.
func (r *ReviewRepository) GetLatestByArticle(ctx context.Context, articleID bson.ObjectID) (*domain.Review, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	return findOne[domain.Review](ctx, r.coll, "get latest review", bson.D{{Key: "article_id", Value: articleID}}, opts)
}

// GetByStatus lists reviews in status s, newest first by default.
func (r *ReviewRepository) GetByStatus(ctx context.Context, s domain.ReviewStatus, opts ListOptions) ([]*domain.Review, error) {
	return r.List(ctx, opts.withFilter("status", s))
}

// GetByPurpose lists reviews with purpose p.
func (r *ReviewRepository) GetByPurpose(ctx context.Context, p domain.ReviewPurpose, opts ListOptions) ([]*domain.Review, error) {
	return r.List(ctx, opts.withFilter("purpose", p))
}

// Update sets fields on the review with id.
func (r *ReviewRepository) Update(ctx context.Context, id bson.ObjectID, fields bson.M) error {
	return updateByID(ctx, r.coll, "update review", id, fields, r.clock.now())
}

// UpdateStatus moves the review with id to status. Completing a review
// stamps completed_at.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id bson.ObjectID, status domain.ReviewStatus) error {
	if !status.Valid() {
		return fmt.Errorf("update review status: %w", &domain.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("unknown status %q", status),
		})
	}

	now := r.clock.now()
	fields := bson.M{"status": status}
	if status == domain.StatusCompleted {
		fields["completed_at"] = now
	}
	if err := updateByID(ctx, r.coll, "update review status", id, fields, now); err != nil {
		return err
	}

	r.logger.Debug("Review status updated",
		logger.ObjectID("review_id", id),
		logger.String("status", string(status)),
	)
	return nil
}

// Delete removes the review with id.
func (r *ReviewRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	return deleteByID(ctx, r.coll, "delete review", id)
}

// List returns reviews matching opts.
func (r *ReviewRepository) List(ctx context.Context, opts ListOptions) ([]*domain.Review, error) {
	return findMany[domain.Review](ctx, r.coll, "list reviews", opts.filter(), opts.findOptions())
}

// Count returns the number of reviews matching filter.
func (r *ReviewRepository) Count(ctx context.Context, filter bson.D) (int64, error) {
	return count(ctx, r.coll, "count reviews", filter)
}
