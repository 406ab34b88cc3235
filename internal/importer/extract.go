package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExtractedRecord holds the four required fields of one row after coercion
// but before validation. Price and Stock are NaN when the cell could not be
// parsed as a number; the validator turns that into a row error.
type ExtractedRecord struct {
	Name         string
	CategoryName string
	Price        float64
	Stock        float64
}

// ExtractRecord pulls the required fields out of a row using the header map.
// Text fields are stringified and trimmed; numeric fields are coerced with
// parseNumber. Never fails: bad values surface as empty strings or NaN.
func ExtractRecord(row Row, headers HeaderMap) ExtractedRecord {
	return ExtractedRecord{
		Name:         strings.TrimSpace(cellString(row[headers[FieldProductName]])),
		CategoryName: strings.TrimSpace(cellString(row[headers[FieldCategoryName]])),
		Price:        parseNumber(row[headers[FieldPrice]], true),
		Stock:        parseNumber(row[headers[FieldStock]], false),
	}
}

// cellString converts a cell value to its string representation. Empty and
// missing cells become "".
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}

// parseNumber coerces a cell to a number. Numeric cells are used as-is.
// String cells are stripped down to [0-9.-] (decimal) or [0-9-] (integer)
// before parsing; an empty string after stripping parses to 0. Anything
// that still fails to parse yields NaN.
func parseNumber(v interface{}, decimal bool) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	}

	s := stripNonNumeric(cellString(v), decimal)
	if s == "" {
		return 0
	}
	if decimal {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return math.NaN()
	}
	return float64(n)
}

func stripNonNumeric(s string, keepDot bool) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' || (keepDot && r == '.') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
