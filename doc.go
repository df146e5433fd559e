// Package framepool implements a contiguous physical frame allocator.
//
// A FramePool tracks the allocation state of a fixed range of physical
// frames with two bits per frame and satisfies multi-frame requests
// with physically contiguous runs, which callers like DMA buffers and
// page table structures depend on. A Registry maps absolute frame
// numbers back to their owning pool, so a sequence can be released
// knowing only the number of its head frame.
//
// The allocator does no locking of its own. Callers in concurrent or
// interrupt driven environments must serialize access to each pool and
// to the registry; at most one mutation may be in flight per pool at
// any instant.
package framepool
