package schema

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Sort directions and index kinds used in key documents.
const (
	Ascending  = 1
	Descending = -1
	Text       = "text"
)

// IndexSpec is one secondary index. Names follow MongoDB's default naming so
// that indexes created earlier by mongosh without a name compare as equal.
type IndexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
}

// Model converts the spec into a driver index model.
func (s IndexSpec) Model() mongo.IndexModel {
	opts := options.Index().SetName(s.Name)
	if s.Unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: s.Keys, Options: opts}
}

// Models converts specs into driver index models.
func Models(specs []IndexSpec) []mongo.IndexModel {
	models := make([]mongo.IndexModel, 0, len(specs))
	for _, spec := range specs {
		models = append(models, spec.Model())
	}
	return models
}

// IndexCount returns the number of secondary indexes across all collections.
func IndexCount() int {
	n := 0
	for _, spec := range Collections() {
		n += len(spec.Indexes)
	}
	return n
}

func key(field string, value any) bson.E {
	return bson.E{Key: field, Value: value}
}

func articleIndexes() []IndexSpec {
	return []IndexSpec{
		{Name: "slug_1", Keys: bson.D{key("slug", Ascending)}, Unique: true},
		{Name: "author_id_1", Keys: bson.D{key("author_id", Ascending)}},
		{Name: "article_type_1", Keys: bson.D{key("article_type", Ascending)}},
		{Name: "review_status_1", Keys: bson.D{key("review_status", Ascending)}},
		{Name: "created_at_-1", Keys: bson.D{key("created_at", Descending)}},
		{Name: "title_text_content_text", Keys: bson.D{key("title", Text), key("content", Text)}},
	}
}

func authorIndexes() []IndexSpec {
	return []IndexSpec{
		{Name: "email_1", Keys: bson.D{key("email", Ascending)}, Unique: true},
		{Name: "name_1", Keys: bson.D{key("name", Ascending)}},
		{Name: "expertise_areas_1", Keys: bson.D{key("expertise_areas", Ascending)}},
	}
}

func reviewIndexes() []IndexSpec {
	return []IndexSpec{
		{Name: "article_id_1", Keys: bson.D{key("article_id", Ascending)}},
		{Name: "status_1", Keys: bson.D{key("status", Ascending)}},
		{Name: "created_at_-1", Keys: bson.D{key("created_at", Descending)}},
		{Name: "article_id_1_version_1", Keys: bson.D{key("article_id", Ascending), key("version", Ascending)}, Unique: true},
	}
}
