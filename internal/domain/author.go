package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	maxNameLength = 200
	maxBioLength  = 1000
)

// WritingStyle captures how an author usually writes.
type WritingStyle struct {
	Tone              string `bson:"tone"               json:"tone"`
	Voice             string `bson:"voice"              json:"voice"`
	SentenceStructure string `bson:"sentence_structure" json:"sentence_structure"`
}

// SocialLinks are optional profile URLs.
type SocialLinks struct {
	Twitter  string `bson:"twitter,omitempty"  json:"twitter,omitempty"`
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	GitHub   string `bson:"github,omitempty"   json:"github,omitempty"`
	Website  string `bson:"website,omitempty"  json:"website,omitempty"`
}

// Author is a blog writer profile.
type Author struct {
	ID             bson.ObjectID `bson:"_id,omitempty"          json:"id"`
	Name           string        `bson:"name"                   json:"name"`
	Email          string        `bson:"email"                  json:"email"`
	Bio            string        `bson:"bio"                    json:"bio"`
	ExpertiseAreas []string      `bson:"expertise_areas"        json:"expertise_areas"`
	WritingStyle   WritingStyle  `bson:"writing_style"          json:"writing_style"`
	SocialLinks    *SocialLinks  `bson:"social_links,omitempty" json:"social_links,omitempty"`
	TotalArticles  int           `bson:"total_articles"         json:"total_articles"`
	CreatedAt      time.Time     `bson:"created_at"             json:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at"             json:"updated_at"`
}

// Normalize trims text fields and drops blank expertise areas.
func (a *Author) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.TrimSpace(a.Email)
	a.Bio = strings.TrimSpace(a.Bio)
	a.ExpertiseAreas = trimAll(a.ExpertiseAreas)
}

// Validate checks the fields the authors collection requires.
func (a *Author) Validate() error {
	if err := requireText("name", a.Name, maxNameLength); err != nil {
		return err
	}
	if !emailRe.MatchString(a.Email) {
		return invalid("email", "must be a valid email address")
	}
	if err := requireText("bio", a.Bio, maxBioLength); err != nil {
		return err
	}
	if len(trimAll(a.ExpertiseAreas)) == 0 {
		return invalid("expertise_areas", "at least one expertise area is required")
	}
	if err := a.WritingStyle.validate(); err != nil {
		return err
	}
	if a.SocialLinks != nil {
		if err := a.SocialLinks.validate(); err != nil {
			return err
		}
	}
	if a.TotalArticles < 0 {
		return invalid("total_articles", "must not be negative")
	}
	return nil
}

func (w WritingStyle) validate() error {
	if strings.TrimSpace(w.Tone) == "" {
		return invalid("writing_style.tone", "is required")
	}
	if strings.TrimSpace(w.Voice) == "" {
		return invalid("writing_style.voice", "is required")
	}
	if strings.TrimSpace(w.SentenceStructure) == "" {
		return invalid("writing_style.sentence_structure", "is required")
	}
	return nil
}

func (s SocialLinks) validate() error {
	links := []struct{ field, url string }{
		{"social_links.twitter", s.Twitter},
		{"social_links.linkedin", s.LinkedIn},
		{"social_links.github", s.GitHub},
		{"social_links.website", s.Website},
	}
	for _, l := range links {
		if l.url == "" {
			continue
		}
		if !strings.HasPrefix(l.url, "http://") && !strings.HasPrefix(l.url, "https://") {
			return invalid(l.field, "must start with http:// or https://")
		}
	}
	return nil
}
