package service

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoLoader   = errors.New("service has no dataset loader")
)
