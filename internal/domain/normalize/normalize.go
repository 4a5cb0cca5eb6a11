// Package normalize canonicalizes categorical values to the form the
// prediction pipeline was fit on.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/ecoscore/internal/domain/catalog"
	"github.com/okian/ecoscore/internal/domain/model"
)

// Unknown replaces null categorical values.
const Unknown = "unknown"

// Value trims and lowercases c, or returns Unknown when c is null.
// The result is a fixed point: Value(model.Text(Value(c))) == Value(c).
func Value(c model.Category) string {
	if !c.Valid {
		return Unknown
	}
	return Text(c.Value)
}

// Text trims surrounding whitespace and lowercases s without locale rules.
func Text(s string) string {
	s = strings.TrimSpace(s)
	if isLowerASCII(s) {
		return s
	}
	// cases.Caser is stateful; one per call.
	return strings.TrimSpace(cases.Lower(language.Und).String(s))
}

// Record applies Value to every categorical field and copies numeric fields.
func Record(rec model.MaterialRecord) model.NormalizedRecord {
	var out model.NormalizedRecord
	out.Numeric = rec.Numeric
	for i := 0; i < catalog.CategoricalCount; i++ {
		out.Categorical[i] = Value(rec.Categorical[i])
	}
	return out
}

func isLowerASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 || ('A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
