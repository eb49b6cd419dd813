package rating

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingRating    = errors.New("missing sub-score")
	ErrNonNumericRating = errors.New("non-numeric sub-score")
	ErrUnknownSchema    = errors.New("unknown rating schema")
	ErrInvalidSchema    = errors.New("invalid rating schema")
)

// RatingError reports which sub-score of which schema failed.
type RatingError struct {
	Field  string
	Schema string
	Err    error
}

func (e *RatingError) Error() string {
	return fmt.Sprintf("schema %s: field %q: %v", e.Schema, e.Field, e.Err)
}

func (e *RatingError) Unwrap() error { return e.Err }
