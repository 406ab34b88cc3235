package importer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testHeaderMap() HeaderMap {
	return BuildHeaderMap([]string{"Product Name", "Category Name", "Price", "Stock"})
}

func TestExtractRecord_TrimsTextFields(t *testing.T) {
	row := Row{
		"Product Name":  "  Widget  ",
		"Category Name": "\tTools ",
		"Price":         "9.99",
		"Stock":         "5",
	}

	rec := ExtractRecord(row, testHeaderMap())

	assert.Equal(t, "Widget", rec.Name)
	assert.Equal(t, "Tools", rec.CategoryName)
	assert.Equal(t, 9.99, rec.Price)
	assert.Equal(t, 5.0, rec.Stock)
}

func TestExtractRecord_MissingCellsBecomeEmpty(t *testing.T) {
	rec := ExtractRecord(Row{}, testHeaderMap())

	assert.Equal(t, "", rec.Name)
	assert.Equal(t, "", rec.CategoryName)
	assert.Equal(t, 0.0, rec.Price)
	assert.Equal(t, 0.0, rec.Stock)
}

func TestExtractRecord_NumericCellsUsedAsIs(t *testing.T) {
	row := Row{
		"Product Name":  "Widget",
		"Category Name": "Tools",
		"Price":         19.5,
		"Stock":         7,
	}

	rec := ExtractRecord(row, testHeaderMap())

	assert.Equal(t, 19.5, rec.Price)
	assert.Equal(t, 7.0, rec.Stock)
}

func TestParseNumber_StripsCurrencyAndSeparators(t *testing.T) {
	assert.Equal(t, 1299.99, parseNumber("$1,299.99", true))
	assert.Equal(t, -1.0, parseNumber("-1", true))
	assert.Equal(t, 150.0, parseNumber(" 150 units", false))
}

func TestParseNumber_EmptyAfterStrippingIsZero(t *testing.T) {
	assert.Equal(t, 0.0, parseNumber("", true))
	assert.Equal(t, 0.0, parseNumber("abc", true))
	assert.Equal(t, 0.0, parseNumber(nil, false))
}

func TestParseNumber_UnparseableIsNaN(t *testing.T) {
	assert.True(t, math.IsNaN(parseNumber("1.2.3", true)))
	assert.True(t, math.IsNaN(parseNumber("-", true)))
	assert.True(t, math.IsNaN(parseNumber("1-2", false)))
}

func TestParseNumber_StockDropsDecimalPoint(t *testing.T) {
	// Integer charset keeps only [0-9-], so "5.5" collapses to "55".
	assert.Equal(t, 55.0, parseNumber("5.5", false))
}
