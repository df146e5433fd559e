package framepool

import (
	errors "github.com/juju/errors"

	"github.com/ipfs/go-framepool/bitmap"
)

var (
	// ErrOutOfSpace means the pool holds fewer free frames than requested.
	ErrOutOfSpace = errors.New("not enough free frames in pool")

	// ErrNoContiguousRun means enough frames are free but no run of
	// the requested length exists.
	ErrNoContiguousRun = bitmap.ErrNoContiguousRun

	ErrZeroFrames      = errors.New("requested zero frames")
	ErrOutOfRange      = errors.New("frame range outside pool bounds")
	ErrFrameNotManaged = errors.New("frame not managed by any registered pool")
	ErrNotSequenceHead = errors.New("frame is not the head of a sequence")
	ErrTooManyPools    = errors.New("pool registry is full")
	ErrPoolOverlap     = errors.New("pool range overlaps an already registered pool")
)
