package framepool

import (
	"sort"

	errors "github.com/juju/errors"

	"github.com/ipfs/go-framepool/consts"
)

// Registry resolves an absolute frame number to the pool that owns it,
// so a sequence can be released knowing nothing but its head frame
// number. Pools are kept sorted by base frame and looked up by binary
// search. At most consts.MaxPools pools can be registered.
type Registry struct {
	pools []*FramePool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Pools returns the number of registered pools.
func (r *Registry) Pools() int {
	return len(r.pools)
}

func (r *Registry) register(p *FramePool) error {
	if len(r.pools) == consts.MaxPools {
		return errors.Trace(ErrTooManyPools)
	}

	i := sort.Search(len(r.pools), func(i int) bool {
		return r.pools[i].baseFrame > p.baseFrame
	})
	if i > 0 && r.pools[i-1].Contains(p.baseFrame) {
		return errors.Trace(ErrPoolOverlap)
	}
	if i < len(r.pools) && p.Contains(r.pools[i].baseFrame) {
		return errors.Trace(ErrPoolOverlap)
	}

	r.pools = append(r.pools, nil)
	copy(r.pools[i+1:], r.pools[i:])
	r.pools[i] = p

	return nil
}

// Lookup returns the registered pool whose range contains the absolute
// frame number, or nil when no pool does.
func (r *Registry) Lookup(frameNo uint64) *FramePool {
	i := sort.Search(len(r.pools), func(i int) bool {
		return r.pools[i].baseFrame > frameNo
	})
	if i == 0 {
		return nil
	}
	if p := r.pools[i-1]; p.Contains(frameNo) {
		return p
	}
	return nil
}

// ReleaseFrames frees a previously allocated sequence given only the
// absolute frame number of its head. A frame no registered pool
// manages is a programming error in the memory management layer and is
// reported as ErrFrameNotManaged.
func (r *Registry) ReleaseFrames(frameNo uint64) error {
	p := r.Lookup(frameNo)
	if p == nil {
		log.Errorf("release of frame %d: no registered pool manages it", frameNo)
		return errors.Trace(ErrFrameNotManaged)
	}
	return errors.Trace(p.ReleaseFrames(frameNo))
}
