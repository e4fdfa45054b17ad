package bootstrap

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonesrussell/blog-reviewer/internal/schema"
)

// Report summarises a successful run.
type Report struct {
	Database           string
	CollectionsCreated []string
	ValidatorsSynced   []string
	IndexesEnsured     int
	SeedInserted       bool
	SeedSkipped        bool
	Duration           time.Duration
}

// Summary lines printed after a successful run.
const (
	LineCompleted   = "MongoDB initialization completed successfully!"
	LineIndexes     = "Indexes created for optimal performance"
	LineSeed         = "Test author created for development"
	LineSeedExisting = "Test author already present"
	LineSeedSkipped  = "Test author skipped"
)

// Lines returns the confirmation lines for the run. Lines one to four are
// fixed; the last one tells whether the seed was inserted, already there or
// skipped.
func (r *Report) Lines() []string {
	seed := LineSeedExisting
	switch {
	case r.SeedSkipped:
		seed = LineSeedSkipped
	case r.SeedInserted:
		seed = LineSeed
	}
	return []string{
		LineCompleted,
		"Database: " + r.Database,
		"Collections created: " + strings.Join(schema.Names(), ", "),
		LineIndexes,
		seed,
	}
}

// WriteSummary writes the confirmation lines to w, one per line.
func (r *Report) WriteSummary(w io.Writer) error {
	for _, line := range r.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
