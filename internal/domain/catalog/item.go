package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variation is a selectable sub-option of a catalog item (size, sweetness, etc.)
// with its own price delta.
type Variation struct {
	Name       string
	ExtraPrice decimal.Decimal
}

// Item represents a sellable catalog entry. The catalog is read-only to the
// ordering core; items are fetched per branch through the Provider.
type Item struct {
	Key         string
	DisplayName string
	BasePrice   decimal.Decimal
	Category    string
	Variations  []Variation
}

// HasVariations returns true if the item requires a variation choice
func (i *Item) HasVariations() bool {
	return len(i.Variations) > 0
}

// VariationNames returns the declared variation names in order
func (i *Item) VariationNames() []string {
	names := make([]string, len(i.Variations))
	for idx, v := range i.Variations {
		names[idx] = v.Name
	}
	return names
}

// VariationByName finds a variation by normalized name comparison
func (i *Item) VariationByName(name string) (*Variation, bool) {
	want := Normalize(name)
	for idx := range i.Variations {
		if Normalize(i.Variations[idx].Name) == want {
			return &i.Variations[idx], true
		}
	}
	return nil, false
}

// UnitPrice returns base price plus the variation extra, if any
func (i *Item) UnitPrice(variation *Variation) decimal.Decimal {
	if variation == nil {
		return i.BasePrice
	}
	return i.BasePrice.Add(variation.ExtraPrice)
}

// Provider supplies the current catalog for a branch. Implementations may be
// backed by the database or an external cache; this core only consumes
// current values.
type Provider interface {
	Fetch(ctx context.Context, branchID uuid.UUID) ([]Item, error)
}
