package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jonesrussell/blog-reviewer/internal/domain"
	"github.com/jonesrussell/blog-reviewer/internal/schema"
)

func validArticle() domain.Article {
	return domain.Article{
		Title:        "Getting Started with Go",
		Content:      "Go is a small language with a large standard library.",
		ArticleType:  domain.ArticleDraft,
		ReviewStatus: domain.StatusPending,
		Purpose:      "tutorial",
		Source:       "manual",
	}
}

func validAuthor() domain.Author {
	return domain.Author{
		Name:           "Test Author",
		Email:          "test@example.com",
		Bio:            "Writes about Go.",
		ExpertiseAreas: []string{"go"},
		WritingStyle: domain.WritingStyle{
			Tone:              "professional",
			Voice:             "active",
			SentenceStructure: "varied",
		},
	}
}

func validReview() domain.Review {
	return domain.Review{
		ArticleID:      bson.NewObjectID(),
		Version:        1,
		Purpose:        domain.PurposeQualityAssessment,
		TargetAudience: domain.AudienceDevelopers,
		ReviewConfig:   domain.DefaultReviewConfig(),
		Status:         domain.StatusPending,
	}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()

	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrValidation)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Field
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{"Getting Started with Go", "getting-started-with-go"},
		{"  Hello, World!  ", "hello-world"},
		{"snake_case_title", "snake-case-title"},
		{"--Already-Slugged--", "already-slugged"},
		{"C++ & Rust?", "c--rust"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.Slugify(tt.title))
		})
	}
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, domain.CountWords("   "))
	assert.Equal(t, 4, domain.CountWords("one two\tthree\nfour"))
}

func TestArticle_Normalize(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Title = "  Getting Started with Go "
	a.Tags = []string{" go ", "", "intro"}
	a.Normalize()

	assert.Equal(t, "Getting Started with Go", a.Title)
	assert.Equal(t, "getting-started-with-go", a.Slug)
	assert.Equal(t, 10, a.WordCount)
	assert.Equal(t, []string{"go", "intro"}, a.Tags)
	require.NoError(t, a.Validate())
}

func TestArticle_NormalizeKeepsExplicitSlug(t *testing.T) {
	t.Parallel()

	a := validArticle()
	a.Slug = "custom"
	a.Normalize()

	assert.Equal(t, "custom", a.Slug)
}

func TestArticle_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*domain.Article)
		field  string
	}{
		{"empty title", func(a *domain.Article) { a.Title = " " }, "title"},
		{"long title", func(a *domain.Article) { a.Title = strings.Repeat("x", 501) }, "title"},
		{"empty content", func(a *domain.Article) { a.Content = "" }, "content"},
		{"bad type", func(a *domain.Article) { a.ArticleType = "deleted" }, "article_type"},
		{"bad status", func(a *domain.Article) { a.ReviewStatus = "done" }, "review_status"},
		{"no purpose", func(a *domain.Article) { a.Purpose = "" }, "purpose"},
		{"no source", func(a *domain.Article) { a.Source = "" }, "source"},
		{"no slug", func(a *domain.Article) { a.Slug = "" }, "slug"},
		{"negative words", func(a *domain.Article) { a.WordCount = -1 }, "word_count"},
		{"image without url", func(a *domain.Article) { a.Images = []domain.ArticleImage{{AltText: "x"}} }, "images"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := validArticle()
			a.Slug = "getting-started-with-go"
			tt.mutate(&a)
			assert.Equal(t, tt.field, fieldOf(t, a.Validate()))
		})
	}
}

func TestAuthor_Validate(t *testing.T) {
	t.Parallel()

	a := validAuthor()
	require.NoError(t, a.Validate())

	tests := []struct {
		name   string
		mutate func(*domain.Author)
		field  string
	}{
		{"empty name", func(a *domain.Author) { a.Name = "" }, "name"},
		{"long name", func(a *domain.Author) { a.Name = strings.Repeat("n", 201) }, "name"},
		{"bad email", func(a *domain.Author) { a.Email = "not-an-email" }, "email"},
		{"short tld", func(a *domain.Author) { a.Email = "a@b.c" }, "email"},
		{"empty bio", func(a *domain.Author) { a.Bio = "" }, "bio"},
		{"blank expertise", func(a *domain.Author) { a.ExpertiseAreas = []string{" "} }, "expertise_areas"},
		{"no tone", func(a *domain.Author) { a.WritingStyle.Tone = "" }, "writing_style.tone"},
		{"no voice", func(a *domain.Author) { a.WritingStyle.Voice = "" }, "writing_style.voice"},
		{"no structure", func(a *domain.Author) { a.WritingStyle.SentenceStructure = "" }, "writing_style.sentence_structure"},
		{"bad link", func(a *domain.Author) { a.SocialLinks = &domain.SocialLinks{GitHub: "github.com/x"} }, "social_links.github"},
		{"negative total", func(a *domain.Author) { a.TotalArticles = -1 }, "total_articles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := validAuthor()
			tt.mutate(&a)
			assert.Equal(t, tt.field, fieldOf(t, a.Validate()))
		})
	}
}

func TestAuthor_Normalize(t *testing.T) {
	t.Parallel()

	a := validAuthor()
	a.Email = " test@example.com "
	a.ExpertiseAreas = []string{" go", "", "databases "}
	a.Normalize()

	assert.Equal(t, "test@example.com", a.Email)
	assert.Equal(t, []string{"go", "databases"}, a.ExpertiseAreas)
}

func TestDevelopmentAuthor(t *testing.T) {
	t.Parallel()

	a := domain.DevelopmentAuthor()
	require.NoError(t, a.Validate())
	assert.Equal(t, schema.SeedAuthorEmail, a.Email)
	assert.True(t, a.ID.IsZero())
	assert.True(t, a.CreatedAt.IsZero())

	// Each call hands out its own copy.
	a.ExpertiseAreas[0] = "changed"
	assert.Equal(t, "technology", domain.DevelopmentAuthor().ExpertiseAreas[0])
}

func TestReview_Validate(t *testing.T) {
	t.Parallel()

	r := validReview()
	require.NoError(t, r.Validate())

	over := 101.0
	tests := []struct {
		name   string
		mutate func(*domain.Review)
		field  string
	}{
		{"no article", func(r *domain.Review) { r.ArticleID = bson.ObjectID{} }, "article_id"},
		{"zero version", func(r *domain.Review) { r.Version = 0 }, "version"},
		{"bad purpose", func(r *domain.Review) { r.Purpose = "vibes" }, "purpose"},
		{"bad audience", func(r *domain.Review) { r.TargetAudience = "everyone" }, "target_audience"},
		{"max score", func(r *domain.Review) { r.ReviewConfig.MaxScore = 0 }, "review_config.max_score"},
		{"zero config", func(r *domain.Review) { r.ReviewConfig = domain.ReviewConfig{} }, "review_config.max_score"},
		{"bad status", func(r *domain.Review) { r.Status = "queued" }, "status"},
		{"overall out of range", func(r *domain.Review) { r.Scores = &domain.ReviewScore{OverallScore: -1} }, "scores.overall_score"},
		{"component out of range", func(r *domain.Review) {
			r.Scores = &domain.ReviewScore{OverallScore: 80, StyleScore: &over}
		}, "scores.style_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := validReview()
			tt.mutate(&r)
			assert.Equal(t, tt.field, fieldOf(t, r.Validate()))
		})
	}
}

func TestDefaultReviewConfig(t *testing.T) {
	t.Parallel()

	cfg := domain.DefaultReviewConfig()
	assert.True(t, cfg.CheckGrammar)
	assert.True(t, cfg.CheckStyle)
	assert.True(t, cfg.CheckTechnicalAccuracy)
	assert.True(t, cfg.CheckReadability)
	assert.Equal(t, 100, cfg.MaxScore)
}

func TestStatusValid(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.StatusInProgress.Valid())
	assert.False(t, domain.ReviewStatus("unknown").Valid())
	assert.True(t, domain.ArticleArchived.Valid())
	assert.False(t, domain.ArticleType("").Valid())
}
