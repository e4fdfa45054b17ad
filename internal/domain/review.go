package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jonesrussell/blog-reviewer/internal/schema"
)

// ReviewPurpose is what a review is asked to assess.
type ReviewPurpose string

const (
	PurposeQualityAssessment  ReviewPurpose = "quality_assessment"
	PurposeContentImprovement ReviewPurpose = "content_improvement"
	PurposeFactChecking       ReviewPurpose = "fact_checking"
	PurposeStyleReview        ReviewPurpose = "style_review"
)

// ReviewPurposes lists the accepted purposes.
var ReviewPurposes = []string{
	string(PurposeQualityAssessment),
	string(PurposeContentImprovement),
	string(PurposeFactChecking),
	string(PurposeStyleReview),
}

// TargetAudience is the readership a review optimises for.
type TargetAudience string

const (
	AudienceGeneral       TargetAudience = "general"
	AudienceDevelopers    TargetAudience = "developers"
	AudienceManagers      TargetAudience = "managers"
	AudienceStudents      TargetAudience = "students"
	AudienceProfessionals TargetAudience = "professionals"
)

// TargetAudiences lists the accepted audiences.
var TargetAudiences = []string{
	string(AudienceGeneral),
	string(AudienceDevelopers),
	string(AudienceManagers),
	string(AudienceStudents),
	string(AudienceProfessionals),
}

const (
	minScore    = 0
	maxScore    = 100
	minMaxScore = 1
)

// ReviewConfig selects the checks a review runs.
type ReviewConfig struct {
	CheckGrammar           bool `bson:"check_grammar"            json:"check_grammar"`
	CheckStyle             bool `bson:"check_style"              json:"check_style"`
	CheckTechnicalAccuracy bool `bson:"check_technical_accuracy" json:"check_technical_accuracy"`
	CheckReadability       bool `bson:"check_readability"        json:"check_readability"`
	MaxScore               int  `bson:"max_score"                json:"max_score"`
}

// DefaultReviewConfig enables every check on a 100 point scale.
func DefaultReviewConfig() ReviewConfig {
	return ReviewConfig{
		CheckGrammar:           true,
		CheckStyle:             true,
		CheckTechnicalAccuracy: true,
		CheckReadability:       true,
		MaxScore:               maxScore,
	}
}

// ReviewScore holds the outcome of a completed review.
type ReviewScore struct {
	OverallScore     float64  `bson:"overall_score"               json:"overall_score"`
	GrammarScore     *float64 `bson:"grammar_score,omitempty"     json:"grammar_score,omitempty"`
	StyleScore       *float64 `bson:"style_score,omitempty"       json:"style_score,omitempty"`
	TechnicalScore   *float64 `bson:"technical_score,omitempty"   json:"technical_score,omitempty"`
	ReadabilityScore *float64 `bson:"readability_score,omitempty" json:"readability_score,omitempty"`
	Feedback         []string `bson:"feedback,omitempty"          json:"feedback,omitempty"`
	Suggestions      []string `bson:"suggestions,omitempty"       json:"suggestions,omitempty"`
}

// Review is one versioned review of an article. (ArticleID, Version) is unique.
type Review struct {
	ID             bson.ObjectID  `bson:"_id,omitempty"          json:"id"`
	ArticleID      bson.ObjectID  `bson:"article_id"             json:"article_id"`
	Version        int            `bson:"version"                json:"version"`
	Purpose        ReviewPurpose  `bson:"purpose"                json:"purpose"`
	TargetAudience TargetAudience `bson:"target_audience"        json:"target_audience"`
	ReviewConfig   ReviewConfig   `bson:"review_config"          json:"review_config"`
	Status         ReviewStatus   `bson:"status"                 json:"status"`
	Scores         *ReviewScore   `bson:"scores,omitempty"       json:"scores,omitempty"`
	CreatedAt      time.Time      `bson:"created_at"             json:"created_at"`
	UpdatedAt      time.Time      `bson:"updated_at"             json:"updated_at"`
	CompletedAt    *time.Time     `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// Validate checks the fields the reviews collection requires.
func (r *Review) Validate() error {
	if r.ArticleID.IsZero() {
		return invalid("article_id", "is required")
	}
	if r.Version < 1 {
		return invalid("version", "must be at least 1")
	}
	if err := requireOneOf("purpose", string(r.Purpose), ReviewPurposes); err != nil {
		return err
	}
	if err := requireOneOf("target_audience", string(r.TargetAudience), TargetAudiences); err != nil {
		return err
	}
	if r.ReviewConfig.MaxScore < minMaxScore || r.ReviewConfig.MaxScore > maxScore {
		return invalid("review_config.max_score", "must be between %d and %d", minMaxScore, maxScore)
	}
	if !r.Status.Valid() {
		return requireOneOf("status", string(r.Status), schema.ReviewStatuses)
	}
	if r.Scores != nil {
		return r.Scores.validate()
	}
	return nil
}

func (s *ReviewScore) validate() error {
	if err := requireRange("scores.overall_score", s.OverallScore, minScore, maxScore); err != nil {
		return err
	}
	optional := []struct {
		field string
		value *float64
	}{
		{"scores.grammar_score", s.GrammarScore},
		{"scores.style_score", s.StyleScore},
		{"scores.technical_score", s.TechnicalScore},
		{"scores.readability_score", s.ReadabilityScore},
	}
	for _, o := range optional {
		if o.value == nil {
			continue
		}
		if err := requireRange(o.field, *o.value, minScore, maxScore); err != nil {
			return err
		}
	}
	return nil
}
