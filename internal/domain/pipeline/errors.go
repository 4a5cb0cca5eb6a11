package pipeline

import (
	"errors"
	"fmt"
)

// ErrInference is the kind shared by every inference failure.
var ErrInference = errors.New("inference failed")

// Stages of the pipeline an InferenceError can originate from.
const (
	StageTransform = "transform"
	StagePredict   = "predict"
)

// InferenceError reports that the loaded artifact could not score a
// well-formed record. It is not retried.
type InferenceError struct {
	Stage string
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInference, e.Stage, e.Err)
}

func (e *InferenceError) Unwrap() []error { return []error{ErrInference, e.Err} }
