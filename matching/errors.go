package matching

import "errors"

// ErrEmptyRoster indicates there are no taskers to choose from.
var ErrEmptyRoster = errors.New("no taskers available")
