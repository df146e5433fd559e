package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeMap(t *testing.T, nframes uint64) *Bitmap {
	b, err := Format(make([]byte, Size(nframes)), nframes)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSize(t *testing.T) {
	assert.EqualValues(t, 0, Size(0), "zero frames need no bytes")
	assert.EqualValues(t, 1, Size(1), "one frame still takes a byte")
	assert.EqualValues(t, 1, Size(4), "four frames pack into one byte")
	assert.EqualValues(t, 2, Size(5), "fifth frame spills into next byte")
	assert.EqualValues(t, 4096, Size(16384), "16k frames take a full 4k frame")
}

func TestOpenTooSmall(t *testing.T) {
	b, err := Open(make([]byte, 2), 16)
	assert.EqualError(t, err, ErrBufferTooSmall.Error(),
		"should have caught undersized buffer")
	assert.Nil(t, b, "should be nil")
}

func TestFormatClearsBuffer(t *testing.T) {
	buf := make([]byte, Size(32))
	for i := range buf {
		buf[i] = 0xff
	}

	b, err := Format(buf, 32)
	assert.NoError(t, err, "Format should not error")
	for i := uint64(0); i < 32; i++ {
		assert.Equal(t, Free, b.Get(i), "every frame should be Free after Format")
	}
}

func TestStateRoundTrip(t *testing.T) {
	b := makeMap(t, 64)

	for _, s := range []State{Free, Used, HeadOfSequence, Reserved} {
		b.Set(17, s)
		assert.Equal(t, s, b.Get(17), "state should round trip")
	}
}

func TestSetLeavesNeighboursAlone(t *testing.T) {
	b := makeMap(t, 8)

	// frames 4..7 share a byte with nothing else set
	b.Set(5, Reserved)
	b.Set(6, HeadOfSequence)

	assert.Equal(t, Free, b.Get(4), "neighbour should stay Free")
	assert.Equal(t, Reserved, b.Get(5), "state should stick")
	assert.Equal(t, HeadOfSequence, b.Get(6), "state should stick")
	assert.Equal(t, Free, b.Get(7), "neighbour should stay Free")

	b.Set(5, Free)
	assert.Equal(t, HeadOfSequence, b.Get(6), "clearing 5 should not touch 6")
}

func TestFindRunFirstFit(t *testing.T) {
	b := makeMap(t, 16)

	// two sufficient runs: [3,6) and [9,16); first fit picks the lower
	b.Set(0, HeadOfSequence)
	b.Set(1, Used)
	b.Set(2, Used)
	b.Set(6, HeadOfSequence)
	b.Set(7, Used)
	b.Set(8, Used)

	off, err := b.FindRun(3)
	assert.NoError(t, err, "a run of 3 exists")
	assert.EqualValues(t, 3, off, "first fit should pick the lowest run")

	off, err = b.FindRun(5)
	assert.NoError(t, err, "a run of 5 exists")
	assert.EqualValues(t, 9, off, "only the tail run holds 5 frames")
}

func TestFindRunNoRun(t *testing.T) {
	b := makeMap(t, 8)

	// every second frame taken, longest free run is 1
	for i := uint64(0); i < 8; i += 2 {
		b.Set(i, HeadOfSequence)
	}

	_, err := b.FindRun(2)
	assert.EqualError(t, err, ErrNoContiguousRun.Error(),
		"fragmented map should not satisfy a run of 2")

	off, err := b.FindRun(1)
	assert.NoError(t, err, "single frames are still free")
	assert.EqualValues(t, 1, off, "lowest free frame wins")
}

func TestFindRunZeroAndOversized(t *testing.T) {
	b := makeMap(t, 8)

	_, err := b.FindRun(0)
	assert.EqualError(t, err, ErrNoContiguousRun.Error(), "zero length run is invalid")

	_, err = b.FindRun(9)
	assert.EqualError(t, err, ErrNoContiguousRun.Error(), "run longer than the map cannot exist")

	off, err := b.FindRun(8)
	assert.NoError(t, err, "run spanning the whole map is fine")
	assert.EqualValues(t, 0, off, "whole-map run starts at 0")
}
