package smoketest

import "errors"

// Sentinel kinds for smoke-run failures.
var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrNotHealthy       = errors.New("service not healthy")
	ErrInconsistent     = errors.New("inconsistent prediction")
)
