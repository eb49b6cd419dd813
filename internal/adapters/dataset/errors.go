package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrFetch          = errors.New("fetch dataset")
	ErrSourceNotFound = errors.New("dataset source not found")
	ErrDecode         = errors.New("decode dataset")
	ErrInvalidRecord  = errors.New("invalid record")
)
