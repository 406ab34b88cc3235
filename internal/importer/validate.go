package importer

import (
	"fmt"
	"math"
	"strings"
)

// ValidateRow applies the business rules to one extracted record. rowNumber
// is the 1-based display row (data index + 2). Checks short-circuit at the
// first failure so a row carries at most one error:
//
//  1. product_name and category_name must be non-empty
//  2. price must parse and be > 0
//  3. stock must parse and be >= 0
//  4. category_name must resolve against the snapshot
func ValidateRow(rec ExtractedRecord, rowNumber int, resolver *CategoryResolver) (ValidatedRecord, *RowError) {
	if rec.Name == "" || rec.CategoryName == "" {
		return ValidatedRecord{}, &RowError{Row: rowNumber, Message: "Missing product_name or category_name"}
	}
	if math.IsNaN(rec.Price) || rec.Price <= 0 {
		return ValidatedRecord{}, &RowError{Row: rowNumber, Message: "Price must be a number greater than 0"}
	}
	if math.IsNaN(rec.Stock) || rec.Stock < 0 {
		return ValidatedRecord{}, &RowError{Row: rowNumber, Message: "Stock must be a number greater than or equal to 0"}
	}

	categoryID, ok := resolver.Resolve(rec.CategoryName)
	if !ok {
		return ValidatedRecord{}, &RowError{
			Row: rowNumber,
			Message: fmt.Sprintf("Category '%s' not found. Known categories: %s",
				rec.CategoryName, strings.Join(resolver.Names(), ", ")),
		}
	}

	return ValidatedRecord{
		Row:        rowNumber,
		Name:       rec.Name,
		CategoryID: categoryID,
		Price:      rec.Price,
		Stock:      int(rec.Stock),
	}, nil
}
