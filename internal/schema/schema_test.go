package schema_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jonesrussell/blog-reviewer/internal/schema"
)

// lookupD returns the value stored under key in d.
func lookupD(t *testing.T, d bson.D, key string) any {
	t.Helper()

	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("key %q not found in %v", key, d)
	return nil
}

func jsonSchemaOf(t *testing.T, name string) bson.D {
	t.Helper()

	spec, ok := schema.Lookup(name)
	require.True(t, ok, "collection %s", name)

	js, ok := lookupD(t, spec.Validator, "$jsonSchema").(bson.D)
	require.True(t, ok)
	return js
}

func requiredOf(t *testing.T, name string) []string {
	t.Helper()

	arr, ok := lookupD(t, jsonSchemaOf(t, name), "required").(bson.A)
	require.True(t, ok)

	out := make([]string, 0, len(arr))
	for _, v := range arr {
		out = append(out, v.(string))
	}
	return out
}

func TestCollections_Order(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"articles", "authors", "reviews"}, schema.Names())
}

func TestLookup_Unknown(t *testing.T) {
	t.Parallel()

	_, ok := schema.Lookup("comments")
	assert.False(t, ok)
}

func TestValidators_RequiredFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		collection string
		want       []string
	}{
		{
			collection: schema.ArticlesCollection,
			want:       []string{"title", "content", "article_type", "review_status", "purpose", "word_count", "slug", "source"},
		},
		{
			collection: schema.AuthorsCollection,
			want:       []string{"name", "email", "bio", "expertise_areas", "writing_style"},
		},
		{
			collection: schema.ReviewsCollection,
			want:       []string{"article_id", "version", "purpose", "target_audience", "review_config", "status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			t.Parallel()

			js := jsonSchemaOf(t, tt.collection)
			assert.Equal(t, "object", lookupD(t, js, "bsonType"))
			assert.Equal(t, tt.want, requiredOf(t, tt.collection))
		})
	}
}

func TestValidators_Enums(t *testing.T) {
	t.Parallel()

	props := func(name string) bson.D {
		p, ok := lookupD(t, jsonSchemaOf(t, name), "properties").(bson.D)
		require.True(t, ok)
		return p
	}
	enum := func(prop any) bson.A {
		d, ok := prop.(bson.D)
		require.True(t, ok)
		a, ok := lookupD(t, d, "enum").(bson.A)
		require.True(t, ok)
		return a
	}

	articles := props(schema.ArticlesCollection)
	assert.Equal(t, bson.A{"draft", "published", "archived"}, enum(lookupD(t, articles, "article_type")))
	assert.Equal(t, bson.A{"pending", "in_progress", "completed", "failed"}, enum(lookupD(t, articles, "review_status")))

	reviews := props(schema.ReviewsCollection)
	assert.Equal(t, bson.A{"pending", "in_progress", "completed", "failed"}, enum(lookupD(t, reviews, "status")))

	articleID, ok := lookupD(t, reviews, "article_id").(bson.D)
	require.True(t, ok)
	assert.Equal(t, "objectId", lookupD(t, articleID, "bsonType"))
}

func TestEmailPattern(t *testing.T) {
	t.Parallel()

	re := regexp.MustCompile(schema.EmailPattern)

	for _, ok := range []string{"test@example.com", "first.last+tag@sub.example.co", "a_b%c@x-y.io"} {
		assert.True(t, re.MatchString(ok), ok)
	}
	for _, bad := range []string{"", "no-at-sign", "user@host", "user@host.c", "@example.com", "user name@example.com"} {
		assert.False(t, re.MatchString(bad), bad)
	}
}

func TestIndexes_Table(t *testing.T) {
	t.Parallel()

	type row struct {
		name   string
		unique bool
	}
	want := map[string][]row{
		schema.ArticlesCollection: {
			{"slug_1", true}, {"author_id_1", false}, {"article_type_1", false},
			{"review_status_1", false}, {"created_at_-1", false}, {"title_text_content_text", false},
		},
		schema.AuthorsCollection: {
			{"email_1", true}, {"name_1", false}, {"expertise_areas_1", false},
		},
		schema.ReviewsCollection: {
			{"article_id_1", false}, {"status_1", false}, {"created_at_-1", false},
			{"article_id_1_version_1", true},
		},
	}

	for _, spec := range schema.Collections() {
		got := make([]row, 0, len(spec.Indexes))
		for _, idx := range spec.Indexes {
			got = append(got, row{idx.Name, idx.Unique})
		}
		assert.Equal(t, want[spec.Name], got, spec.Name)
	}

	assert.Equal(t, 13, schema.IndexCount())
}

func TestIndexes_UniqueConstraints(t *testing.T) {
	t.Parallel()

	var unique []string
	for _, spec := range schema.Collections() {
		for _, idx := range spec.Indexes {
			if idx.Unique {
				unique = append(unique, spec.Name+"."+idx.Name)
			}
		}
	}

	assert.Equal(t, []string{"articles.slug_1", "authors.email_1", "reviews.article_id_1_version_1"}, unique)
}

func TestIndexSpec_KeysAndModel(t *testing.T) {
	t.Parallel()

	spec, ok := schema.Lookup(schema.ReviewsCollection)
	require.True(t, ok)

	compound := spec.Indexes[len(spec.Indexes)-1]
	assert.Equal(t, bson.D{{Key: "article_id", Value: 1}, {Key: "version", Value: 1}}, compound.Keys)

	model := compound.Model()
	assert.Equal(t, compound.Keys, model.Keys)
	require.NotNil(t, model.Options)

	articles, _ := schema.Lookup(schema.ArticlesCollection)
	text := articles.Indexes[len(articles.Indexes)-1]
	assert.Equal(t, bson.D{{Key: "title", Value: "text"}, {Key: "content", Value: "text"}}, text.Keys)

	created := articles.Indexes[4]
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, created.Keys)

	assert.Len(t, schema.Models(articles.Indexes), len(articles.Indexes))
}
