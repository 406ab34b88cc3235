package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already canonical", "product_name", "product_name"},
		{"mixed case", "Product Name", "product_name"},
		{"surrounding whitespace", "  Category Name  ", "category_name"},
		{"internal whitespace run", "Product\t Name", "product_name"},
		{"upper case", "PRICE", "price"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHeader(tt.raw))
		})
	}
}

func TestNormalizeHeader_Idempotent(t *testing.T) {
	for _, raw := range []string{" Product Name ", "STOCK", "price"} {
		once := NormalizeHeader(raw)
		assert.Equal(t, once, NormalizeHeader(once))
	}
}

func TestBuildHeaderMap(t *testing.T) {
	m := BuildHeaderMap([]string{" Product Name ", "Category Name", "Price", "Stock"})

	assert.Equal(t, " Product Name ", m[FieldProductName])
	assert.Equal(t, "Category Name", m[FieldCategoryName])
	assert.Equal(t, "Price", m[FieldPrice])
	assert.Equal(t, "Stock", m[FieldStock])
	assert.Empty(t, m.MissingFields())
}

func TestBuildHeaderMap_FirstOccurrenceWins(t *testing.T) {
	m := BuildHeaderMap([]string{"Price", " PRICE ", "price"})

	assert.Len(t, m, 1)
	assert.Equal(t, "Price", m[FieldPrice])
}

func TestBuildHeaderMap_Empty(t *testing.T) {
	m := BuildHeaderMap(nil)

	assert.Empty(t, m)
	assert.Equal(t, []string{"product_name", "category_name", "price", "stock"}, m.MissingFields())
}

func TestHeaderMap_MissingFields_ListsOnlyAbsent(t *testing.T) {
	m := BuildHeaderMap([]string{"Product Name", "Stock", "Notes"})

	assert.Equal(t, []string{"category_name", "price"}, m.MissingFields())
}
