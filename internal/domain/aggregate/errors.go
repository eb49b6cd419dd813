package aggregate

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingCreator   = errors.New("missing creator")
	ErrDuplicateID      = errors.New("duplicate level id within category")
	ErrRatingOutOfRange = errors.New("sub-score outside [0,10]")
)
