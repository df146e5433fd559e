// Package physmem models a machine's physical memory as a flat
// mmap-ed image addressed in FrameSize units by absolute frame number.
// Frame pools place their state bitmaps inside it, either in frames
// they manage themselves or in frames reserved for that purpose.
package physmem

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
	errors "github.com/juju/errors"

	"github.com/ipfs/go-framepool/consts"
)

// Mem is a physical memory image.
type Mem struct {
	mm      mmap.MMap
	fi      *os.File
	nframes uint64
}

// Anonymous maps a zero-filled image of nframes frames with no file
// behind it.
func Anonymous(nframes uint64) (*Mem, error) {
	if nframes == 0 {
		return nil, errors.Trace(ErrZeroSize)
	}

	mm, err := mmap.MapRegion(nil, int(nframes*consts.FrameSize), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, errors.Trace(err)
	}

	return &Mem{
		mm:      mm,
		nframes: nframes,
	}, nil
}

// Open maps a file-backed image, creating the file when it does not
// exist. The file is truncated to nframes whole frames either way.
func Open(path string, nframes uint64) (*Mem, error) {
	if nframes == 0 {
		return nil, errors.Trace(ErrZeroSize)
	}

	fi, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Trace(err)
		}

		fi, err = os.Create(path)
		if err != nil {
			return nil, errors.Trace(err)
		}
	}

	if err := fi.Truncate(int64(nframes * consts.FrameSize)); err != nil {
		fi.Close()
		return nil, errors.Trace(err)
	}

	mm, err := mmap.Map(fi, mmap.RDWR, 0)
	if err != nil {
		fi.Close()
		return nil, errors.Trace(err)
	}

	return &Mem{
		mm:      mm,
		fi:      fi,
		nframes: nframes,
	}, nil
}

// Frames returns the number of frames in the image.
func (m *Mem) Frames() uint64 {
	return m.nframes
}

// Frame returns the backing bytes of a single frame.
func (m *Mem) Frame(no uint64) ([]byte, error) {
	return m.Range(no, 1)
}

// Range returns the backing bytes of count consecutive frames starting
// at frame no.
func (m *Mem) Range(no, count uint64) ([]byte, error) {
	if count == 0 || no+count < no || no+count > m.nframes {
		return nil, errors.Trace(ErrOutOfBounds)
	}
	return m.mm[no*consts.FrameSize : (no+count)*consts.FrameSize], nil
}

// Close unmaps the image and closes the backing file when present.
func (m *Mem) Close() error {
	if err := m.mm.Unmap(); err != nil {
		return errors.Trace(err)
	}
	if m.fi != nil {
		return errors.Trace(m.fi.Close())
	}
	return nil
}
