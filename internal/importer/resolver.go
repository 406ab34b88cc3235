package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CategoryResolver is the in-memory category snapshot taken once at the
// start of an import. Lookups are case-insensitive. The snapshot is
// immutable after load: categories created while an import is running are
// not visible to it.
type CategoryResolver struct {
	byName map[string]uuid.UUID
	names  []string
}

// NewCategoryResolver loads all categories through the lister. Returns
// ErrNoCategories when the store holds none.
func NewCategoryResolver(ctx context.Context, lister CategoryLister) (*CategoryResolver, error) {
	categories, err := lister.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	r := &CategoryResolver{
		byName: make(map[string]uuid.UUID, len(categories)),
		names:  make([]string, 0, len(categories)),
	}
	for _, c := range categories {
		key := strings.ToLower(c.Name)
		if _, ok := r.byName[key]; ok {
			continue
		}
		r.byName[key] = c.ID
		r.names = append(r.names, c.Name)
	}
	return r, nil
}

// Resolve looks up a category by name, case-insensitively. The caller is
// expected to have trimmed the name already.
func (r *CategoryResolver) Resolve(name string) (uuid.UUID, bool) {
	id, ok := r.byName[strings.ToLower(name)]
	return id, ok
}

// Names returns all known category names in snapshot order, for error
// messages that enumerate the valid choices.
func (r *CategoryResolver) Names() []string {
	return r.names
}
