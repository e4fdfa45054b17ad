// Package schema declares the blog-reviewer collections: their $jsonSchema
// validators, secondary indexes and the development seed data.
package schema

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Collection names.
const (
	ArticlesCollection = "articles"
	AuthorsCollection  = "authors"
	ReviewsCollection  = "reviews"
)

// Enumerations enforced by the validators.
var (
	ArticleTypes   = []string{"draft", "published", "archived"}
	ReviewStatuses = []string{"pending", "in_progress", "completed", "failed"}
)

// EmailPattern is the regular expression the authors validator applies to email.
const EmailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`

// CollectionSpec describes one collection to bootstrap.
type CollectionSpec struct {
	Name      string
	Validator bson.D
	Indexes   []IndexSpec
}

// Collections returns the collection specs in bootstrap order.
func Collections() []CollectionSpec {
	return []CollectionSpec{
		{Name: ArticlesCollection, Validator: articlesValidator(), Indexes: articleIndexes()},
		{Name: AuthorsCollection, Validator: authorsValidator(), Indexes: authorIndexes()},
		{Name: ReviewsCollection, Validator: reviewsValidator(), Indexes: reviewIndexes()},
	}
}

// Names returns the collection names in bootstrap order.
func Names() []string {
	specs := Collections()
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	return names
}

// Lookup returns the spec for name.
func Lookup(name string) (CollectionSpec, bool) {
	for _, spec := range Collections() {
		if spec.Name == name {
			return spec, true
		}
	}
	return CollectionSpec{}, false
}

func jsonSchema(required []string, properties bson.D) bson.D {
	return bson.D{{Key: "$jsonSchema", Value: bson.D{
		{Key: "bsonType", Value: "object"},
		{Key: "required", Value: toArray(required)},
		{Key: "properties", Value: properties},
	}}}
}

func stringProperty(description string) bson.D {
	return bson.D{
		{Key: "bsonType", Value: "string"},
		{Key: "description", Value: description},
	}
}

func enumProperty(values []string) bson.D {
	return bson.D{
		{Key: "enum", Value: toArray(values)},
		{Key: "description", Value: "must be one of the enum values and is required"},
	}
}

func toArray(values []string) bson.A {
	arr := make(bson.A, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return arr
}

func articlesValidator() bson.D {
	return jsonSchema(
		[]string{"title", "content", "article_type", "review_status", "purpose", "word_count", "slug", "source"},
		bson.D{
			{Key: "title", Value: stringProperty("must be a string and is required")},
			{Key: "content", Value: stringProperty("must be a string and is required")},
			{Key: "article_type", Value: enumProperty(ArticleTypes)},
			{Key: "review_status", Value: enumProperty(ReviewStatuses)},
		},
	)
}

func authorsValidator() bson.D {
	return jsonSchema(
		[]string{"name", "email", "bio", "expertise_areas", "writing_style"},
		bson.D{
			{Key: "email", Value: bson.D{
				{Key: "bsonType", Value: "string"},
				{Key: "pattern", Value: EmailPattern},
				{Key: "description", Value: "must be a valid email address and is required"},
			}},
			{Key: "name", Value: stringProperty("must be a string and is required")},
		},
	)
}

func reviewsValidator() bson.D {
	return jsonSchema(
		[]string{"article_id", "version", "purpose", "target_audience", "review_config", "status"},
		bson.D{
			{Key: "article_id", Value: bson.D{
				{Key: "bsonType", Value: "objectId"},
				{Key: "description", Value: "must be an ObjectId and is required"},
			}},
			{Key: "status", Value: enumProperty(ReviewStatuses)},
		},
	)
}
