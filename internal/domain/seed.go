package domain

import "github.com/jonesrussell/blog-reviewer/internal/schema"

// DevelopmentAuthor returns the author seeded into fresh databases. ID and
// timestamps are left for the store to fill.
func DevelopmentAuthor() *Author {
	return &Author{
		Name:           "Test Author",
		Email:          schema.SeedAuthorEmail,
		Bio:            "A test author for development purposes",
		ExpertiseAreas: []string{"technology", "programming"},
		WritingStyle: WritingStyle{
			Tone:              "professional",
			Voice:             "active",
			SentenceStructure: "varied",
		},
		SocialLinks: &SocialLinks{
			Twitter:  "https://twitter.com/testauthor",
			LinkedIn: "https://linkedin.com/in/testauthor",
		},
	}
}
