package importer

import "strings"

// Canonical field keys required in every import sheet.
const (
	FieldProductName  = "product_name"
	FieldCategoryName = "category_name"
	FieldPrice        = "price"
	FieldStock        = "stock"
)

// RequiredFields returns the canonical field keys every sheet must carry,
// in reporting order.
func RequiredFields() []string {
	return []string{FieldProductName, FieldCategoryName, FieldPrice, FieldStock}
}

// HeaderMap maps a canonical field key to the raw header string the field
// appears under in the sheet. Built once per import.
type HeaderMap map[string]string

// NormalizeHeader canonicalizes a raw header: trim, lowercase, and collapse
// internal whitespace runs to underscores, so "  Product Name " and
// "product_name" both normalize to "product_name". Idempotent.
func NormalizeHeader(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(raw))), "_")
}

// BuildHeaderMap builds the canonical-key lookup from the raw headers of the
// first sheet row. If two raw headers normalize to the same key, the first
// one in column order wins. An empty header list yields an empty map; the
// missing required keys are diagnosed by MissingFields.
func BuildHeaderMap(headers []string) HeaderMap {
	m := make(HeaderMap, len(headers))
	for _, h := range headers {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		if _, ok := m[key]; !ok {
			m[key] = h
		}
	}
	return m
}

// MissingFields returns the required field keys absent from the map, in
// canonical order. Checked once per import since the map is row-independent.
func (m HeaderMap) MissingFields() []string {
	var missing []string
	for _, key := range RequiredFields() {
		if _, ok := m[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
