package pager

import (
	"errors"
	"fmt"
)

// ───────────────────────────────────────────────────────────────────────────
// Heap page — a slotted directory over one Page
// ───────────────────────────────────────────────────────────────────────────
//
// Layout within a Page's PageSize bytes:
//
//   [0:32]              common header (see page.go)
//   [32:lower]          tuple area, growing UP from HeaderSize
//   ... free space ...
//   [upper:PageSize]    slot directory, growing DOWN from PageSize
//
// Slot i occupies bytes [PageSize-(i+1)*4, PageSize-i*4):
//   [0:2] off  (uint16) — byte offset of the tuple (left as is on delete)
//   [2:4] len  (uint16) — tuple length; 0 means the slot is a tombstone
//
// SlotCount = (PageSize - upper) / 4. slot_count never shrinks on delete,
// so slot numbers stay stable across deletes and compaction — essential for
// callers holding on to a slot number as a stable row reference.

const slotSize = 4

var (
	// ErrOutOfSpace is returned by InsertTuple when the tuple plus its slot
	// entry would not fit in the page's remaining free space.
	ErrOutOfSpace = errors.New("heap page: out of space")

	// ErrOutOfRange is returned when a slot index is not less than the
	// page's current slot count.
	ErrOutOfRange = errors.New("heap page: slot index out of range")
)

// HeapPage wraps a *Page and provides slotted-directory tuple operations.
type HeapPage struct {
	p *Page
}

// NewEmptyHeap initializes a fresh Page as an empty heap page.
func NewEmptyHeap(id PageID) *HeapPage {
	return &HeapPage{p: New(id, KindHeap)}
}

// WrapHeap adopts an existing Page (e.g. just read from disk) as a heap page.
func WrapHeap(p *Page) *HeapPage { return &HeapPage{p: p} }

// Page returns the underlying Page.
func (h *HeapPage) Page() *Page { return h.p }

// SlotCount returns the number of slots, including tombstones.
func (h *HeapPage) SlotCount() int {
	return (PageSize - h.p.Upper()) / slotSize
}

func (h *HeapPage) slotOffset(i int) int { return PageSize - (i+1)*slotSize }

func (h *HeapPage) getSlot(i int) (off, length uint16) {
	so := h.slotOffset(i)
	return h.p.ReadU16(so), h.p.ReadU16(so + 2)
}

func (h *HeapPage) setSlot(i int, off, length uint16) {
	so := h.slotOffset(i)
	h.p.WriteU16(so, off)
	h.p.WriteU16(so+2, length)
}

// InsertTuple copies bytes into the tuple area and appends a new slot
// pointing at them. Returns the new slot number, which equals the
// pre-insert slot count.
func (h *HeapPage) InsertTuple(data []byte) (int, error) {
	needed := len(data) + slotSize
	if needed > h.p.FreeSpace() {
		return -1, fmt.Errorf("%w: need %d bytes, have %d", ErrOutOfSpace, needed, h.p.FreeSpace())
	}

	lower := h.p.Lower()
	buf := h.p.Bytes()
	copy(buf[lower:lower+len(data)], data)

	slotNo := h.SlotCount()
	h.p.SetUpper(h.p.Upper() - slotSize)
	h.setSlot(slotNo, uint16(lower), uint16(len(data)))
	h.p.SetLower(lower + len(data))

	h.p.RecomputeChecksum()
	return slotNo, nil
}

// ReadTuple returns the tuple bytes for slot_no, or nil with ok=false if
// slot_no is out of range or the slot is a tombstone.
func (h *HeapPage) ReadTuple(slotNo int) ([]byte, bool) {
	if slotNo < 0 || slotNo >= h.SlotCount() {
		return nil, false
	}
	off, length := h.getSlot(slotNo)
	if length == 0 {
		return nil, false
	}
	buf := h.p.Bytes()
	return buf[off : off+length], true
}

// DeleteTuple turns slotNo into a tombstone (len := 0, off preserved).
// Idempotent on already-dead slots. Does not reclaim space.
func (h *HeapPage) DeleteTuple(slotNo int) error {
	if slotNo < 0 || slotNo >= h.SlotCount() {
		return fmt.Errorf("%w: slot %d, have %d slots", ErrOutOfRange, slotNo, h.SlotCount())
	}
	off, _ := h.getSlot(slotNo)
	h.setSlot(slotNo, off, 0)
	h.p.RecomputeChecksum()
	return nil
}

// Compact rebuilds the tuple area by copying only live tuples to the bottom
// of the tuple region in ascending slot order, preserving every live slot's
// index and bytes while reclaiming space left by tombstones.
func (h *HeapPage) Compact() {
	sc := h.SlotCount()
	type live struct {
		slot int
		data []byte
	}
	rows := make([]live, 0, sc)
	for i := 0; i < sc; i++ {
		if data, ok := h.ReadTuple(i); ok {
			cp := make([]byte, len(data))
			copy(cp, data)
			rows = append(rows, live{slot: i, data: cp})
		}
	}

	cursor := HeaderSize
	buf := h.p.Bytes()
	for _, r := range rows {
		copy(buf[cursor:cursor+len(r.data)], r.data)
		h.setSlot(r.slot, uint16(cursor), uint16(len(r.data)))
		cursor += len(r.data)
	}
	h.p.SetLower(cursor)
	h.p.RecomputeChecksum()
}

// tombstoneCount is a small helper used by tests asserting Compact's effect
// on FreeSpace.
func (h *HeapPage) tombstoneCount() int {
	n := 0
	for i := 0; i < h.SlotCount(); i++ {
		_, length := h.getSlot(i)
		if length == 0 {
			n++
		}
	}
	return n
}
