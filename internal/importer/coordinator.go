package importer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Coordinator orchestrates one bulk import end to end: header check,
// category snapshot, per-row validation, transactional insert, and the final
// commit/rollback decision.
type Coordinator struct {
	store Store
	log   logrus.FieldLogger
}

func NewCoordinator(store Store, log logrus.FieldLogger) *Coordinator {
	return &Coordinator{store: store, log: log}
}

// Import runs the full pipeline over the raw headers and rows of one sheet.
//
// Fatal failures (missing columns, empty category snapshot, transaction
// open/commit failure) return a nil report and insert nothing. Row-scoped
// failures never abort the batch: they accumulate and surface as an
// *AggregateError at the end. Per the decision policy, a batch where at
// least one row succeeded is committed even when other rows failed; the
// AggregateError carries the committed count so callers can tell partial
// commits apart from full rollbacks.
func (c *Coordinator) Import(ctx context.Context, headers []string, rows []Row) (*Report, error) {
	headerMap := BuildHeaderMap(headers)
	if missing := headerMap.MissingFields(); len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	resolver, err := NewCategoryResolver(ctx, c.store)
	if err != nil {
		return nil, err
	}

	tx, err := c.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open import transaction: %w", err)
	}
	committed := false
	defer func() {
		// Guarantees release on every exit path, including panics and
		// early fatal returns.
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var (
		records   []ValidatedRecord
		rowErrors []RowError
	)
	for i, row := range rows {
		rec := ExtractRecord(row, headerMap)
		validated, rowErr := ValidateRow(rec, i+2, resolver)
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}
		records = append(records, validated)
	}

	// Insert-time failures (uniqueness, FK violations, timeouts on a single
	// statement) demote the record to a row error instead of aborting the
	// batch.
	inserted := 0
	for _, rec := range records {
		if err := tx.InsertProduct(ctx, rec); err != nil {
			c.log.WithError(err).WithField("row", rec.Row).Warn("product insert failed during import")
			rowErrors = append(rowErrors, RowError{
				Row:     rec.Row,
				Message: fmt.Sprintf("Failed to insert product: %v", err),
			})
			continue
		}
		inserted++
	}

	if inserted == 0 && len(rows) > 0 {
		// Every row errored: nothing worth keeping. The deferred rollback
		// discards the transaction.
		c.log.WithField("rows", len(rows)).Warn("import rolled back: all rows failed")
		return nil, &AggregateError{Committed: 0, Errors: rowErrors}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import transaction: %w", err)
	}
	committed = true

	if len(rowErrors) > 0 {
		c.log.WithFields(logrus.Fields{
			"rows":      len(rows),
			"committed": inserted,
			"errors":    len(rowErrors),
		}).Warn("import committed with row errors")
		return nil, &AggregateError{Committed: inserted, Errors: rowErrors}
	}

	c.log.WithFields(logrus.Fields{
		"rows":      len(rows),
		"committed": inserted,
	}).Info("import completed")
	return &Report{
		Success:   true,
		Processed: inserted,
		Message:   fmt.Sprintf("Successfully imported %d product(s)", inserted),
	}, nil
}
