// Package consts holds the compile-time geometry of the allocator.
package consts

const (
	// FrameSize is the size in bytes of a single physical frame.
	FrameSize = 4096

	// MaxPools is the maximum number of frame pools that can be
	// registered for global release lookup at the same time.
	MaxPools = 10
)
