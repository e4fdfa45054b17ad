package domain

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jonesrussell/blog-reviewer/internal/schema"
)

// ArticleType is the lifecycle stage of an article.
type ArticleType string

const (
	ArticleDraft     ArticleType = "draft"
	ArticlePublished ArticleType = "published"
	ArticleArchived  ArticleType = "archived"
)

// Valid reports whether t is accepted by the articles validator.
func (t ArticleType) Valid() bool {
	return requireOneOf("article_type", string(t), schema.ArticleTypes) == nil
}

// ReviewStatus is the progress of a review. Articles and reviews share it.
type ReviewStatus string

const (
	StatusPending    ReviewStatus = "pending"
	StatusInProgress ReviewStatus = "in_progress"
	StatusCompleted  ReviewStatus = "completed"
	StatusFailed     ReviewStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s ReviewStatus) Valid() bool {
	return requireOneOf("status", string(s), schema.ReviewStatuses) == nil
}

const maxTitleLength = 500

// ArticleImage is an image attached to an article.
type ArticleImage struct {
	URL     string `bson:"url"                json:"url"`
	AltText string `bson:"alt_text,omitempty" json:"alt_text,omitempty"`
	Caption string `bson:"caption,omitempty"  json:"caption,omitempty"`
}

// Article is a blog post submitted for review.
type Article struct {
	ID           bson.ObjectID  `bson:"_id,omitempty"       json:"id"`
	AuthorID     *bson.ObjectID `bson:"author_id,omitempty" json:"author_id,omitempty"`
	Title        string         `bson:"title"               json:"title"`
	Content      string         `bson:"content"             json:"content"`
	ArticleType  ArticleType    `bson:"article_type"        json:"article_type"`
	ReviewStatus ReviewStatus   `bson:"review_status"       json:"review_status"`
	Purpose      string         `bson:"purpose"             json:"purpose"`
	WordCount    int            `bson:"word_count"          json:"word_count"`
	Slug         string         `bson:"slug"                json:"slug"`
	Source       string         `bson:"source"              json:"source"`
	Images       []ArticleImage `bson:"images,omitempty"    json:"images,omitempty"`
	Tags         []string       `bson:"tags,omitempty"      json:"tags,omitempty"`
	Metadata     map[string]any `bson:"metadata,omitempty"  json:"metadata,omitempty"`
	CreatedAt    time.Time      `bson:"created_at"          json:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at"          json:"updated_at"`
}

var (
	slugSeparators = strings.NewReplacer(" ", "-", "_", "-")
	slugDisallowed = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify derives a URL slug from a title.
func Slugify(title string) string {
	slug := slugSeparators.Replace(strings.ToLower(strings.TrimSpace(title)))
	slug = slugDisallowed.ReplaceAllString(slug, "")
	return strings.Trim(slug, "-")
}

// CountWords counts whitespace-separated words.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// Normalize trims text fields and fills the derived slug and word count.
func (a *Article) Normalize() {
	a.Title = strings.TrimSpace(a.Title)
	a.Content = strings.TrimSpace(a.Content)
	a.Tags = trimAll(a.Tags)
	if a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	if a.WordCount == 0 {
		a.WordCount = CountWords(a.Content)
	}
}

// Validate checks the fields the articles collection requires.
func (a *Article) Validate() error {
	if err := requireText("title", a.Title, maxTitleLength); err != nil {
		return err
	}
	if err := requireText("content", a.Content, 0); err != nil {
		return err
	}
	if !a.ArticleType.Valid() {
		return requireOneOf("article_type", string(a.ArticleType), schema.ArticleTypes)
	}
	if !a.ReviewStatus.Valid() {
		return requireOneOf("review_status", string(a.ReviewStatus), schema.ReviewStatuses)
	}
	if err := requireText("purpose", a.Purpose, 0); err != nil {
		return err
	}
	if err := requireText("source", a.Source, 0); err != nil {
		return err
	}
	if a.Slug == "" {
		return invalid("slug", "cannot be empty")
	}
	if a.WordCount < 0 {
		return invalid("word_count", "must not be negative")
	}
	for i, img := range a.Images {
		if strings.TrimSpace(img.URL) == "" {
			return invalid("images", "image %d has no url", i)
		}
	}
	return nil
}
