package roster

import "errors"

// ErrUnknownPlace indicates a place name did not match any sample place.
var ErrUnknownPlace = errors.New("unknown place")
