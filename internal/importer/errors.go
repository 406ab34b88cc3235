package importer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCategories is returned when the category snapshot is empty. Bulk
// import requires at least one pre-existing category.
var ErrNoCategories = errors.New("no categories configured: create at least one category before importing")

// MissingColumnsError is fatal to the whole import: one or more required
// field keys are absent from the header map. No rows are processed.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// AggregateError is the batch-level outcome when at least one row failed.
// Committed is the number of rows that were successfully inserted and kept:
// callers must inspect it to distinguish "partially committed with errors"
// from "nothing committed".
type AggregateError struct {
	Committed int
	Errors    []RowError
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("import completed with %d error(s), %d row(s) committed", len(e.Errors), e.Committed)
}

// Report renders the aggregate failure in the wire shape the HTTP layer
// returns to the client.
func (e *AggregateError) Report() *Report {
	return &Report{
		Success:   false,
		Processed: e.Committed,
		Errors:    e.Errors,
		Message:   fmt.Sprintf("Imported %d product(s) with %d error(s)", e.Committed, len(e.Errors)),
	}
}
