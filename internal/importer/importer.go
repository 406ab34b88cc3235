// Package importer implements bulk ingestion of tabular product data into
// the catalog. It takes an ordered set of header-labeled rows (already
// decoded from CSV or XLSX by the upload handler), validates every row,
// resolves category names against a snapshot of existing categories, and
// inserts the valid rows inside a single database transaction.
package importer

import (
	"context"

	"github.com/google/uuid"
)

// Row is one spreadsheet data row keyed by the raw column header, exactly as
// written in the sheet. Cell values may be strings, numbers, or nil for
// empty cells; the extractor is tolerant of all of them.
type Row map[string]interface{}

// Category is the snapshot view of a catalog category used for name
// resolution during an import.
type Category struct {
	ID   uuid.UUID
	Name string
}

// ValidatedRecord is a row that passed all validation checks and is ready
// for insertion. It carries the resolved category ID, not the name.
type ValidatedRecord struct {
	Row        int // 1-based display row number in the sheet
	Name       string
	CategoryID uuid.UUID
	Price      float64
	Stock      int
}

// RowError is a validation or insert failure attributable to exactly one
// input row. Row is the 1-based display row number as a spreadsheet user
// would see it (data index + 2, accounting for the header row).
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Report is the terminal artifact of an import, rendered verbatim by the
// HTTP layer.
type Report struct {
	Success   bool       `json:"success"`
	Processed int        `json:"processed"`
	Errors    []RowError `json:"errors,omitempty"`
	Message   string     `json:"message"`
}

// CategoryLister reads all categories as of call time. The import takes one
// snapshot through it and never re-queries mid-batch.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]Category, error)
}

// Tx is the transactional scope an import runs under. A failed insert must
// not poison the transaction: later inserts and the final commit must still
// be possible.
type Tx interface {
	InsertProduct(ctx context.Context, rec ValidatedRecord) error
	Commit() error
	Rollback() error
}

// Store is the persistence collaborator required by the Coordinator.
type Store interface {
	CategoryLister
	Begin(ctx context.Context) (Tx, error)
}
