// Package loader is the run-time consumer of a packed image: it slices
// individual program bytes out of the blob segment by directory index and
// can spread every program into fixed-size execution slots.
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/minikern/imagepack/lib/directory"
	"github.com/minikern/imagepack/lib/logger"
)

// Loader reads program bytes out of a decoded image. It takes the directory
// by explicit injection; there is no ambient global table. All methods are
// pure reads and safe for concurrent use.
type Loader struct {
	dir  *directory.Directory
	data []byte
	base uint64
}

// New creates a Loader over a directory and its blob segment. data[0] must
// correspond to the directory's first boundary address.
func New(dir *directory.Directory, data []byte) (*Loader, error) {
	span := dir.Span()
	if uint64(len(data)) < span.Size() {
		return nil, fmt.Errorf("%w: have %d bytes, directory spans %d",
			ErrImageMismatch, len(data), span.Size())
	}
	return &Loader{dir: dir, data: data, base: span.Start}, nil
}

// Count returns the number of embedded programs.
func (l *Loader) Count() int {
	return l.dir.Count()
}

// ProgramBytes returns the raw bytes of program i. An out-of-range index
// surfaces as ErrUnknownProgram so the caller can refuse to schedule the
// program instead of crashing.
func (l *Loader) ProgramBytes(i int) ([]byte, error) {
	r, err := l.dir.RangeOf(i)
	if err != nil {
		if errors.Is(err, directory.ErrIndexOutOfRange) {
			return nil, fmt.Errorf("%w: index %d", ErrUnknownProgram, i)
		}
		return nil, err
	}
	return l.data[r.Start-l.base : r.End-l.base], nil
}

// Spread copies every program into dst at fixed-size slots: program i lands
// at offset i*slotSize with the rest of its slot zeroed, ready for a kernel
// that stages each program at base + i*limit before running it.
func (l *Loader) Spread(dst []byte, slotSize int) error {
	if slotSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSlotSize, slotSize)
	}
	if need := l.dir.Count() * slotSize; len(dst) < need {
		return fmt.Errorf("%w: destination holds %d bytes, need %d",
			ErrImageMismatch, len(dst), need)
	}

	for i := 0; i < l.dir.Count(); i++ {
		src, err := l.ProgramBytes(i)
		if err != nil {
			return err
		}
		if len(src) > slotSize {
			return fmt.Errorf("%w: program %d is %d bytes, slot is %d",
				ErrProgramTooLarge, i, len(src), slotSize)
		}
		slot := dst[i*slotSize : (i+1)*slotSize]
		clear(slot)
		copy(slot, src)
	}
	return nil
}

// LogInfo logs the directory contents at boot: the program count and each
// program's address range.
func (l *Loader) LogInfo(ctx context.Context) {
	log := logger.FromContext(ctx)
	log.Info("embedded programs", "count", l.dir.Count())

	i := 0
	for r := range l.dir.All() {
		log.Info("program", "index", i, "range", r.String(), "bytes", r.Size())
		i++
	}
}
