package wmf

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// maxHandle is the largest handle that still fits the 16-bit object count of
// the main header.
const maxHandle = 0xFFFF

// HandleTable hands out object handles the way a playback device fills its
// object table: always the lowest free slot. Handle 0 is never issued; the
// object index used in records is handle-1.
type HandleTable struct {
	used      *bitset.BitSet
	allocated uint32
	chunk     uint32
	lolimit   uint32 // lowest slot that may be free
	hilimit   uint32 // highest slot in use
	peak      uint32 // highest hilimit seen
}

// NewHandleTable creates a table with initSize slots that grows by chunk.
func NewHandleTable(initSize, chunk uint32) (*HandleTable, error) {
	if initSize < 1 || chunk < 1 {
		return nil, fmt.Errorf("%w: handle table size %d chunk %d", ErrInvalidArgument, initSize, chunk)
	}
	return &HandleTable{
		used:      bitset.New(uint(initSize)),
		allocated: initSize,
		chunk:     chunk,
		lolimit:   1,
	}, nil
}

// Insert claims the lowest free handle.
func (t *HandleTable) Insert() (uint32, error) {
	if t.lolimit > maxHandle {
		return 0, fmt.Errorf("%w: all %d handles in use", ErrTooManyObjects, maxHandle)
	}
	if t.lolimit >= t.allocated-1 {
		t.allocated += t.chunk
	}
	h := t.lolimit
	t.used.Set(uint(h))
	if h > t.hilimit {
		t.hilimit = h
	}
	t.peak = max(t.peak, t.hilimit)

	next, ok := t.used.NextClear(uint(h) + 1)
	if !ok {
		next = t.used.Len()
	}
	t.lolimit = uint32(next)
	return h, nil
}

// Delete releases h. Handle 0, handles past the table and free slots are
// rejected without changing the table.
func (t *HandleTable) Delete(h uint32) error {
	if !t.Contains(h) {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	t.used.Clear(uint(h))
	if h < t.lolimit {
		t.lolimit = h
	}
	for t.hilimit > 0 && !t.used.Test(uint(t.hilimit)) {
		t.hilimit--
	}
	return nil
}

// Contains reports whether h is currently in use.
func (t *HandleTable) Contains(h uint32) bool {
	return h != 0 && h < t.allocated && t.used.Test(uint(h))
}

// Peak is the highest handle ever in use at one time.
func (t *HandleTable) Peak() uint32 { return t.peak }

// HighWater is the highest handle currently in use, 0 when empty.
func (t *HandleTable) HighWater() uint32 { return t.hilimit }

// LowWater is the handle the next Insert will return, barring growth.
func (t *HandleTable) LowWater() uint32 { return t.lolimit }

// InUse counts the live handles.
func (t *HandleTable) InUse() uint32 { return uint32(t.used.Count()) }

// Allocated is the current table capacity in slots, slot 0 included.
func (t *HandleTable) Allocated() uint32 { return t.allocated }
