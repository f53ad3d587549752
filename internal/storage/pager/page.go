// Package pager implements the fixed-size page layer of heapql's storage
// engine: an 8 KiB byte buffer with a 32-byte header, a CRC-32 checksum, and
// the free-space bookkeeping the slotted heap page builds on.
//
// What: PageID identity, the on-page header layout, and CRC-32 checksum
// computation/verification.
// How: Every multi-byte header field is little-endian, written directly into
// the backing buffer via encoding/binary — no intermediate struct is kept in
// sync with the bytes on disk; Page always reads straight from buf.
// Why: A byte-exact, struct-free header keeps Page trivially serializable —
// the buffer IS the on-disk representation, so there is nothing to marshal.
package pager

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// ───────────────────────────────────────────────────────────────────────────
// Constants
// ───────────────────────────────────────────────────────────────────────────

const (
	// PageSize is the fixed size of every page, in bytes.
	PageSize = 8192

	// HeaderSize is the size of the common page header in bytes.
	// Layout:
	//   [0:4]   checksum    (uint32 LE) — CRC-32/IEEE of bytes [4, PageSize)
	//   [4:12]  page_id     (uint64 LE) — PageID, see below
	//   [12:20] page_lsn    (uint64 LE) — reserved log sequence number
	//   [20:22] page_flags  (uint16 LE) — PageKind
	//   [22:24] lower       (uint16 LE) — end of used tuple area
	//   [24:26] upper       (uint16 LE) — start of slot directory
	//   [26:32] reserved    (6 bytes, zero-padded)
	HeaderSize = 32
)

// ───────────────────────────────────────────────────────────────────────────
// PageKind
// ───────────────────────────────────────────────────────────────────────────

// PageKind identifies what a page's body holds.
type PageKind uint16

const (
	KindHeap  PageKind = 1
	KindIndex PageKind = 2
	KindMeta  PageKind = 4
)

func (k PageKind) String() string {
	switch k {
	case KindHeap:
		return "Heap"
	case KindIndex:
		return "Index"
	case KindMeta:
		return "Meta"
	default:
		return fmt.Sprintf("Unknown(0x%04x)", uint16(k))
	}
}

// ───────────────────────────────────────────────────────────────────────────
// PageID
// ───────────────────────────────────────────────────────────────────────────

// PageID is a 64-bit identifier encoding (file_id, page_no): the high 32
// bits select a backing file, the low 32 bits are the page's ordinal within
// that file. Equality and ordering are lexicographic on (file_id, page_no).
type PageID uint64

// NewPageID packs a file id and page number into a PageID.
func NewPageID(fileID, pageNo uint32) PageID {
	return PageID(uint64(fileID)<<32 | uint64(pageNo))
}

// FileID returns the high 32 bits.
func (p PageID) FileID() uint32 { return uint32(p >> 32) }

// PageNo returns the low 32 bits.
func (p PageID) PageNo() uint32 { return uint32(p) }

func (p PageID) String() string {
	return fmt.Sprintf("(%d,%d)", p.FileID(), p.PageNo())
}

// LSN is a reserved log sequence number; no WAL is implemented, so this
// field is carried but never interpreted.
type LSN uint64

// ───────────────────────────────────────────────────────────────────────────
// CRC-32 (IEEE, zlib-compatible)
// ───────────────────────────────────────────────────────────────────────────

// ieeeTable is the standard CRC-32/IEEE polynomial table — the same
// checksum zlib's crc32() and crc32fast produce.
var ieeeTable = crc32.MakeTable(crc32.IEEE)

// computeChecksum hashes bytes [4, PageSize) of buf; bytes [0,4) are
// excluded from the hash whatever their contents.
func computeChecksum(buf []byte) uint32 {
	h := crc32.New(ieeeTable)
	h.Write(buf[4:])
	return h.Sum32()
}

// ───────────────────────────────────────────────────────────────────────────
// Page
// ───────────────────────────────────────────────────────────────────────────

// Page wraps a fixed PageSize-byte buffer and gives access to the common
// header fields. It never allocates beyond its one buffer.
type Page struct {
	buf []byte
}

// New zeroes a fresh buffer, writes a header for id/kind with lower=HeaderSize
// and upper=PageSize, and computes a valid checksum.
func New(id PageID, kind PageKind) *Page {
	p := &Page{buf: make([]byte, PageSize)}
	p.writePageID(id)
	p.SetFlags(kind)
	p.SetLower(HeaderSize)
	p.SetUpper(PageSize)
	p.RecomputeChecksum()
	return p
}

// Wrap adopts an existing PageSize-byte buffer (e.g. one just read from
// disk) without modifying it.
func Wrap(buf []byte) *Page {
	if len(buf) != PageSize {
		panic(fmt.Sprintf("pager: buffer length %d != PageSize %d", len(buf), PageSize))
	}
	return &Page{buf: buf}
}

// Bytes returns the underlying buffer.
func (p *Page) Bytes() []byte { return p.buf }

func (p *Page) writePageID(id PageID) {
	binary.LittleEndian.PutUint64(p.buf[4:12], uint64(id))
}

// PageID reads the owning PageID out of the header.
func (p *Page) PageID() PageID {
	return PageID(binary.LittleEndian.Uint64(p.buf[4:12]))
}

// LSN returns the reserved log sequence number field.
func (p *Page) LSN() LSN {
	return LSN(binary.LittleEndian.Uint64(p.buf[12:20]))
}

// SetLSN writes the reserved log sequence number field.
func (p *Page) SetLSN(lsn LSN) {
	binary.LittleEndian.PutUint64(p.buf[12:20], uint64(lsn))
}

// Flags returns the page kind.
func (p *Page) Flags() PageKind {
	return PageKind(binary.LittleEndian.Uint16(p.buf[20:22]))
}

// SetFlags writes the page kind.
func (p *Page) SetFlags(k PageKind) {
	binary.LittleEndian.PutUint16(p.buf[20:22], uint16(k))
}

// Lower returns the offset of the end of the used tuple area.
func (p *Page) Lower() int { return int(p.readU16(22)) }

// SetLower writes the lower pointer.
func (p *Page) SetLower(v int) { p.writeU16(22, uint16(v)) }

// Upper returns the offset of the start of the slot directory.
func (p *Page) Upper() int { return int(p.readU16(24)) }

// SetUpper writes the upper pointer.
func (p *Page) SetUpper(v int) { p.writeU16(24, uint16(v)) }

// FreeSpace is the number of bytes available between the tuple area and the
// slot directory: Upper - Lower.
func (p *Page) FreeSpace() int { return p.Upper() - p.Lower() }

// ReadU16 reads a little-endian uint16 at an arbitrary byte offset.
func (p *Page) ReadU16(off int) uint16 { return p.readU16(off) }

// WriteU16 writes a little-endian uint16 at an arbitrary byte offset.
func (p *Page) WriteU16(off int, v uint16) { p.writeU16(off, v) }

func (p *Page) readU16(off int) uint16 {
	return binary.LittleEndian.Uint16(p.buf[off : off+2])
}

func (p *Page) writeU16(off int, v uint16) {
	binary.LittleEndian.PutUint16(p.buf[off:off+2], v)
}

// RecomputeChecksum zeroes bytes [0,4), hashes bytes [4,PageSize), and
// writes the digest little-endian into bytes [0,4).
func (p *Page) RecomputeChecksum() {
	p.buf[0], p.buf[1], p.buf[2], p.buf[3] = 0, 0, 0, 0
	c := computeChecksum(p.buf)
	binary.LittleEndian.PutUint32(p.buf[0:4], c)
}

// VerifyChecksum reports whether the stored checksum matches the computed
// CRC-32 of bytes [4, PageSize).
func (p *Page) VerifyChecksum() bool {
	stored := binary.LittleEndian.Uint32(p.buf[0:4])
	return stored == computeChecksum(p.buf)
}
