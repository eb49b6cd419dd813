package repository

import "errors"

// Sentinel kinds for snapshot lookups.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidLimit     = errors.New("invalid leaderboard limit")
	ErrNoSnapshot       = errors.New("no snapshot published yet")
	ErrUnknownCriterion = errors.New("unknown ranking criterion")
)
