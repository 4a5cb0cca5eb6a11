package artifact

import "errors"

// Sentinel kinds for artifact errors.
var (
	// ErrLoad wraps every failure to read, parse or check an artifact.
	ErrLoad = errors.New("artifact load failed")
	// ErrUnknownCategory is returned by Transform when a column uses
	// handle_unknown "error" and the value was not seen during fitting.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrWidth is returned when a feature vector does not match the model.
	ErrWidth = errors.New("feature width mismatch")
)
