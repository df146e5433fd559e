package bitmap

import (
	errors "github.com/juju/errors"
)

var (
	ErrBufferTooSmall  = errors.New("buffer too small for requested frame count")
	ErrNoContiguousRun = errors.New("no contiguous run of free frames found")
)
