// Package bitmap implements a packed two-bit-per-frame state map.
//
// Two bits are enough to tell a free frame from an allocated one and,
// for allocated frames, whether the frame heads a contiguous sequence
// or belongs to the tail of one. The map lives in a caller supplied
// byte window, so it can be placed inside the very memory it tracks.
package bitmap

import (
	errors "github.com/juju/errors"
)

// State is the allocation state of a single frame.
type State uint8

const (
	// Free frames are available for allocation.
	Free State = iota
	// Used frames belong to the tail of an allocated sequence.
	Used
	// HeadOfSequence marks the first frame of a sequence.
	HeadOfSequence
	// Reserved frames belong to the tail of an inaccessible range
	// and are never reclaimed by a release walk.
	Reserved
)

func (s State) String() string {
	switch s {
	case Free:
		return "Free"
	case Used:
		return "Used"
	case HeadOfSequence:
		return "HeadOfSequence"
	case Reserved:
		return "Reserved"
	}
	return "Invalid"
}

// Bitmap is a two-bit-per-frame state map over a byte window.
type Bitmap struct {
	buf     []byte
	nframes uint64
}

// Size returns the number of bytes needed to track nframes frames.
func Size(nframes uint64) uint64 {
	return (nframes*bitsPerFrame + 7) / 8
}

// Open creates a Bitmap over buf without touching its contents.
// The buffer has to be at least Size(nframes) bytes.
func Open(buf []byte, nframes uint64) (*Bitmap, error) {
	if uint64(len(buf)) < Size(nframes) {
		return nil, errors.Trace(ErrBufferTooSmall)
	}

	return &Bitmap{
		buf:     buf,
		nframes: nframes,
	}, nil
}

// Format creates a Bitmap over buf and resets every frame to Free.
func Format(buf []byte, nframes uint64) (*Bitmap, error) {
	b, err := Open(buf, nframes)
	if err != nil {
		return nil, errors.Trace(err)
	}

	for i := uint64(0); i < Size(nframes); i++ {
		b.buf[i] = byte(0)
	}

	return b, nil
}

// Frames returns the number of frames the map tracks.
func (b *Bitmap) Frames() uint64 {
	return b.nframes
}

// Get returns the state of the frame at offset i.
func (b *Bitmap) Get(i uint64) State {
	ix := i / framesPerByte
	pos := (i % framesPerByte) * bitsPerFrame
	return State(b.buf[ix] >> pos & stateMask)
}

// Set stores the state of the frame at offset i, leaving its byte
// neighbours untouched.
func (b *Bitmap) Set(i uint64, s State) {
	ix := i / framesPerByte
	pos := (i % framesPerByte) * bitsPerFrame
	b.buf[ix] = b.buf[ix]&^(stateMask<<pos) | byte(s)<<pos
}

// FindRun returns the offset of the lowest run of n consecutive Free
// frames. The scan is first fit from offset 0, so ties always resolve
// to the lowest address.
func (b *Bitmap) FindRun(n uint64) (uint64, error) {
	if n == 0 || n > b.nframes {
		return 0, errors.Trace(ErrNoContiguousRun)
	}

	var run uint64
	for i := uint64(0); i < b.nframes; i++ {
		if b.Get(i) != Free {
			run = 0
			continue
		}
		run++
		if run == n {
			return i + 1 - n, nil
		}
	}

	return 0, errors.Trace(ErrNoContiguousRun)
}
