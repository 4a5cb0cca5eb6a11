// Package validation turns a raw, name-keyed record into a typed
// model.MaterialRecord.
//
// Every catalog field is checked and all failures are reported together in a
// single *Error, in catalog order. Keys that are not in the catalog are ignored.
package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/okian/ecoscore/internal/domain/catalog"
	"github.com/okian/ecoscore/internal/domain/model"
)

const maxPercent = 100

// Validate checks raw against the catalog. A categorical key that is present
// with a null value is accepted and left for the normalizer; an absent key is
// always an error.
func Validate(raw map[string]any) (model.MaterialRecord, error) {
	var (
		rec  model.MaterialRecord
		errs []FieldError
	)

	for _, f := range catalog.NumericFields() {
		v, reason := numeric(raw, f)
		if reason != "" {
			errs = append(errs, FieldError{Field: f.Name, Reason: reason})
			continue
		}
		rec.Numeric[f.Index] = v
	}

	for _, f := range catalog.CategoricalFields() {
		v, reason := categorical(raw, f)
		if reason != "" {
			errs = append(errs, FieldError{Field: f.Name, Reason: reason})
			continue
		}
		rec.Categorical[f.Index] = v
	}

	if len(errs) > 0 {
		return model.MaterialRecord{}, &Error{Fields: errs}
	}
	return rec, nil
}

func numeric(raw map[string]any, f catalog.Field) (float64, string) {
	v, ok := raw[f.Name]
	if !ok {
		return 0, ReasonMissing
	}
	if v == nil {
		return 0, ReasonNull
	}

	x, ok := toFloat(v)
	if !ok {
		return 0, ReasonNotNumber
	}
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0):
		return 0, ReasonNotFinite
	case x < 0:
		return 0, ReasonNegative
	case f.Percent && x > maxPercent:
		return 0, ReasonAbove100
	}
	return x, ""
}

// toFloat accepts JSON numbers and numeric strings. Booleans are not numbers.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		x, err := t.Float64()
		return x, err == nil
	case string:
		x, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return x, err == nil
	default:
		return 0, false
	}
}

func categorical(raw map[string]any, f catalog.Field) (model.Category, string) {
	v, ok := raw[f.Name]
	if !ok {
		return model.Category{}, ReasonMissing
	}

	switch t := v.(type) {
	case nil:
		return model.Null(), ""
	case string:
		return model.Text(t), ""
	default:
		return model.Category{}, ReasonNotString
	}
}
