// Package model contains domain models passed between layers.
package model

import "github.com/okian/ecoscore/internal/domain/catalog"

// Category is a raw categorical value. Valid is false when the caller sent null.
type Category struct {
	Value string
	Valid bool
}

// Text returns a present categorical value.
func Text(s string) Category { return Category{Value: s, Valid: true} }

// Null returns an explicitly null categorical value.
func Null() Category { return Category{} }

// MaterialRecord is a validated input: every catalog field is present and
// values are stored in catalog order.
type MaterialRecord struct {
	Numeric     [catalog.NumericCount]float64
	Categorical [catalog.CategoricalCount]Category
}

// NormalizedRecord is a MaterialRecord after categorical canonicalization.
type NormalizedRecord struct {
	Numeric     [catalog.NumericCount]float64
	Categorical [catalog.CategoricalCount]string
}

// Values returns the record as a name-keyed map, mainly for diagnostics.
func (r NormalizedRecord) Values() map[string]any {
	out := make(map[string]any, catalog.FieldCount)
	for _, f := range catalog.NumericFields() {
		out[f.Name] = r.Numeric[f.Index]
	}
	for _, f := range catalog.CategoricalFields() {
		out[f.Name] = r.Categorical[f.Index]
	}
	return out
}
