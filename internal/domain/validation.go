// Package domain defines the blog-reviewer records stored in MongoDB and the
// client-side rules applied before they are written.
package domain

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/jonesrussell/blog-reviewer/internal/schema"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports an invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) true for any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var emailRe = regexp.MustCompile(schema.EmailPattern)

func requireText(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "cannot be empty")
	}
	if maxLen > 0 && len([]rune(value)) > maxLen {
		return invalid(field, "must be at most %d characters", maxLen)
	}
	return nil
}

func requireOneOf(field, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return invalid(field, "must be one of: %s", strings.Join(allowed, ", "))
	}
	return nil
}

func requireRange(field string, value, lo, hi float64) error {
	if value < lo || value > hi {
		return invalid(field, "must be between %g and %g", lo, hi)
	}
	return nil
}

// trimAll trims every entry and drops the blank ones.
func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
