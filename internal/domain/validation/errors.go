package validation

import (
	"errors"
	"strings"
)

// ErrInvalidRecord is the kind shared by every validation failure.
var ErrInvalidRecord = errors.New("invalid material record")

// Reasons reported per field.
const (
	ReasonMissing   = "field required"
	ReasonNull      = "must not be null"
	ReasonNotNumber = "must be a number"
	ReasonNotFinite = "must be a finite number"
	ReasonNegative  = "must be greater than or equal to 0"
	ReasonAbove100  = "must be less than or equal to 100"
	ReasonNotString = "must be a string"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error lists every invalid field of a record, in catalog order.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(ErrInvalidRecord.Error())
	for i, f := range e.Fields {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(f.Field)
		b.WriteString(": ")
		b.WriteString(f.Reason)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return ErrInvalidRecord }

// Has reports whether field was rejected.
func (e *Error) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
