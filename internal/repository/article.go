package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/jonesrussell/blog-reviewer/internal/domain"
	"github.com/jonesrussell/blog-reviewer/internal/logger"
	"github.com/jonesrussell/blog-reviewer/internal/schema"
)

// ArticleRepository stores articles.
type ArticleRepository struct {
	coll   *mongo.Collection
	logger logger.Logger
	clock  clock
}

// NewArticleRepository creates an ArticleRepository on db.
func NewArticleRepository(db *mongo.Database, log logger.Logger) *ArticleRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &ArticleRepository{
		coll:   db.Collection(schema.ArticlesCollection),
		logger: log,
	}
}

// Create normalises, validates and inserts article, filling its ID and timestamps.
func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	article.Normalize()
	if err := article.Validate(); err != nil {
		return fmt.Errorf("create article: %w", err)
	}

	now := r.clock.now()
	article.CreatedAt = now
	article.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, article)
	if err != nil {
		return mapWriteError("create article", err)
	}
	article.ID = insertedID(res)

	r.logger.Debug("Article created",
		logger.ObjectID("article_id", article.ID),
		logger.String("slug", article.Slug),
	)
	return nil
}

// GetByID returns the article with id.
func (r *ArticleRepository) GetByID(ctx context.Context, id bson.ObjectID) (*domain.Article, error) {
	return findOne[domain.Article](ctx, r.coll, "get article", bson.D{{Key: "_id", Value: id}})
}

// GetBySlug returns the article with slug.
func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	return findOne[domain.Article](ctx, r.coll, "get article by slug", bson.D{{Key: "slug", Value: slug}})
}

// Update sets fields on the article with id.
func (r *ArticleRepository) Update(ctx context.Context, id bson.ObjectID, fields bson.M) error {
	return updateByID(ctx, r.coll, "update article", id, fields, r.clock.now())
}

// Delete removes the article with id.
func (r *ArticleRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := deleteByID(ctx, r.coll, "delete article", id); err != nil {
		return err
	}
	r.logger.Debug("Article deleted", logger.ObjectID("article_id", id))
	return nil
}

// List returns articles matching opts, newest first by default.
func (r *ArticleRepository) List(ctx context.Context, opts ListOptions) ([]*domain.Article, error) {
	return findMany[domain.Article](ctx, r.coll, "list articles", opts.filter(), opts.findOptions())
}

// GetByAuthor lists the articles written by authorID.
func (r *ArticleRepository) GetByAuthor(ctx context.Context, authorID bson.ObjectID, opts ListOptions) ([]*domain.Article, error) {
	return r.List(ctx, opts.withFilter("author_id", authorID))
}

// GetByType lists articles of type t.
func (r *ArticleRepository) GetByType(ctx context.Context, t domain.ArticleType, opts ListOptions) ([]*domain.Article, error) {
	return r.List(ctx, opts.withFilter("article_type", t))
}

// GetByStatus lists articles whose review status is s.
func (r *ArticleRepository) GetByStatus(ctx context.Context, s domain.ReviewStatus, opts ListOptions) ([]*domain.Article, error) {
	return r.List(ctx, opts.withFilter("review_status", s))
}

// Count returns the number of articles matching filter. A nil filter counts all.
func (r *ArticleRepository) Count(ctx context.Context, filter bson.D) (int64, error) {
	return count(ctx, r.coll, "count articles", filter)
}

// Search finds articles whose title or content contains term.
func (r *ArticleRepository) Search(ctx context.Context, term string, limit int64) ([]*domain.Article, error) {
	return findMany[domain.Article](ctx, r.coll, "search articles", searchFilter(term, "title", "content"), searchLimit(limit))
}
