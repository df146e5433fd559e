package framepool

import (
	errors "github.com/juju/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/ipfs/go-framepool/bitmap"
	"github.com/ipfs/go-framepool/consts"
	"github.com/ipfs/go-framepool/physmem"
)

// FramePool manages the allocation state of a contiguous range of
// physical frames inside a memory image. Multi-frame requests are
// always satisfied by physically contiguous runs.
type FramePool struct {
	baseFrame  uint64
	nframes    uint64
	freeFrames uint64

	id uuid.UUID
	bm *bitmap.Bitmap
}

// New creates a pool over frames [baseFrameNo, baseFrameNo+nframes) of
// mem. The state bitmap is placed at frame infoFrameNo of the image;
// passing 0 hosts it inside the pool's own leading frames instead,
// consuming them from the pool's free space.
//
// The pool registers with reg so its frames can be released through
// Registry.ReleaseFrames; a nil reg builds an unregistered pool that
// is only reachable directly. Ranges of distinct pools must not
// overlap.
func New(mem *physmem.Mem, reg *Registry, baseFrameNo, nframes, infoFrameNo uint64) (*FramePool, error) {
	if nframes == 0 {
		return nil, errors.Trace(ErrZeroFrames)
	}

	infoFrames := NeededInfoFrames(nframes)
	selfHosted := infoFrameNo == 0
	if selfHosted {
		infoFrameNo = baseFrameNo
	}

	win, err := mem.Range(infoFrameNo, infoFrames)
	if err != nil {
		return nil, errors.Annotate(err, "info frame window")
	}

	bm, err := bitmap.Format(win, nframes)
	if err != nil {
		return nil, errors.Trace(err)
	}

	p := &FramePool{
		baseFrame:  baseFrameNo,
		nframes:    nframes,
		freeFrames: nframes,
		id:         uuid.NewV4(),
		bm:         bm,
	}

	if selfHosted {
		// The bitmap sits in the pool's own first frames; take them
		// out of circulation before anything can allocate them. Used
		// without a head keeps them unreleasable.
		for off := uint64(0); off < infoFrames; off++ {
			p.bm.Set(off, bitmap.Used)
		}
		p.freeFrames -= infoFrames
	}

	if reg != nil {
		if err := reg.register(p); err != nil {
			return nil, errors.Trace(err)
		}
	}

	log.Infof("pool %s initialized: frames [%d, %d), %d free",
		p.id, p.baseFrame, p.baseFrame+p.nframes, p.freeFrames)

	return p, nil
}

// BaseFrame returns the absolute number of the first managed frame.
func (p *FramePool) BaseFrame() uint64 {
	return p.baseFrame
}

// Frames returns the number of frames the pool manages.
func (p *FramePool) Frames() uint64 {
	return p.nframes
}

// FreeFrames returns the number of frames currently free.
func (p *FramePool) FreeFrames() uint64 {
	return p.freeFrames
}

// ID returns the pool's identity, stamped at construction.
func (p *FramePool) ID() uuid.UUID {
	return p.id
}

// Contains reports whether the absolute frame number falls inside the
// pool's managed range.
func (p *FramePool) Contains(frameNo uint64) bool {
	return frameNo >= p.baseFrame && frameNo < p.baseFrame+p.nframes
}

// State returns the allocation state of an absolute frame number.
func (p *FramePool) State(frameNo uint64) (bitmap.State, error) {
	if !p.Contains(frameNo) {
		return bitmap.Free, errors.Trace(ErrOutOfRange)
	}
	return p.bm.Get(frameNo - p.baseFrame), nil
}

// GetFrames allocates n physically contiguous frames and returns the
// absolute number of the first one. The search is first fit, so the
// lowest-addressed sufficient run always wins. On failure the bitmap
// and the free count are left untouched; ErrOutOfSpace means too few
// free frames overall, ErrNoContiguousRun means the free frames are
// too fragmented.
func (p *FramePool) GetFrames(n uint64) (uint64, error) {
	if n == 0 {
		return 0, errors.Trace(ErrZeroFrames)
	}
	if p.freeFrames < n {
		return 0, errors.Trace(ErrOutOfSpace)
	}

	start, err := p.bm.FindRun(n)
	if err != nil {
		return 0, errors.Trace(err)
	}

	p.bm.Set(start, bitmap.HeadOfSequence)
	for off := start + 1; off < start+n; off++ {
		p.bm.Set(off, bitmap.Used)
	}
	p.freeFrames -= n

	return p.baseFrame + start, nil
}

// MarkInaccessible carves the absolute range [baseFrameNo,
// baseFrameNo+n) out of the pool so GetFrames can never hand it out,
// e.g. for firmware-reserved regions or externally hosted info frames.
// No searching happens; the caller names the exact range and it is
// expected to be free. The head becomes a sequence head and the tail
// frames become Reserved: releasing the head later reclaims only the
// head, the tail stays carved out for the life of the pool.
func (p *FramePool) MarkInaccessible(baseFrameNo, n uint64) error {
	if n == 0 {
		return errors.Trace(ErrZeroFrames)
	}
	if !p.Contains(baseFrameNo) || !p.Contains(baseFrameNo+n-1) {
		return errors.Trace(ErrOutOfRange)
	}

	off := baseFrameNo - p.baseFrame
	p.bm.Set(off, bitmap.HeadOfSequence)
	for i := off + 1; i < off+n; i++ {
		p.bm.Set(i, bitmap.Reserved)
	}
	p.freeFrames -= n

	return nil
}

// ReleaseFrames frees the sequence headed by the absolute frame number
// frameNo, which must have been returned by GetFrames. The walk frees
// the head and every following Used frame; a Free, HeadOfSequence or
// Reserved frame ends the sequence. Passing a frame that is not a
// sequence head is a programming error in the caller, reported as
// ErrNotSequenceHead with the pool left untouched.
func (p *FramePool) ReleaseFrames(frameNo uint64) error {
	if !p.Contains(frameNo) {
		log.Errorf("release of frame %d: pool %s does not manage it", frameNo, p.id)
		return errors.Trace(ErrFrameNotManaged)
	}

	off := frameNo - p.baseFrame
	if p.bm.Get(off) != bitmap.HeadOfSequence {
		log.Errorf("release of frame %d: %s, not a sequence head", frameNo, p.bm.Get(off))
		return errors.Trace(ErrNotSequenceHead)
	}

	p.bm.Set(off, bitmap.Free)
	p.freeFrames++

	for off++; off < p.nframes; off++ {
		if p.bm.Get(off) != bitmap.Used {
			break
		}
		p.bm.Set(off, bitmap.Free)
		p.freeFrames++
	}

	return nil
}

// NeededInfoFrames returns how many whole frames the state bitmap for
// a pool of nframes frames occupies. Pool owners use it to decide how
// much space to reserve for externally hosted bitmaps.
func NeededInfoFrames(nframes uint64) uint64 {
	return (bitmap.Size(nframes) + consts.FrameSize - 1) / consts.FrameSize
}
