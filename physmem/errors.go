package physmem

import (
	errors "github.com/juju/errors"
)

var (
	ErrZeroSize    = errors.New("image needs at least one frame")
	ErrOutOfBounds = errors.New("frame range outside image bounds")
)
