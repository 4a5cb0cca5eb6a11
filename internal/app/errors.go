package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNoPipeline = errors.New("no prediction pipeline configured")
	ErrNotStarted = errors.New("service not started")
	ErrStopped    = errors.New("service stopped; the pipeline was released")
)
