package service

import "errors"

// Sentinel error kinds for the service.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrBatchTooLarge  = errors.New("batch too large")
	ErrInvalidRequest = errors.New("invalid valuation request")
	ErrNoStore        = errors.New("no reference data store configured")
)
