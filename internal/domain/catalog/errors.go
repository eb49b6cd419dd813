package catalog

import "errors"

// ErrUnknownSort is returned for a sort order other than recent or rated.
var ErrUnknownSort = errors.New("unknown sort order")
