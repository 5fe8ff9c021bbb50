package core

import "errors"

// ErrInvalidBounds is returned for bounding boxes whose minimum corner exceeds
// the maximum corner or which contain NaN coordinates.
var ErrInvalidBounds = errors.New("invalid bounding box")
