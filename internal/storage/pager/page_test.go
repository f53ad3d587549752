package pager

import "testing"

func TestNewPageChecksumAndFreeSpace(t *testing.T) {
	p := New(NewPageID(1, 0), KindHeap)
	if !p.VerifyChecksum() {
		t.Fatal("freshly created page should verify")
	}
	if got, want := p.FreeSpace(), PageSize-HeaderSize; got != want {
		t.Fatalf("FreeSpace() = %d, want %d", got, want)
	}
}

func TestRecomputeChecksumAfterHeaderWrite(t *testing.T) {
	p := New(NewPageID(1, 0), KindHeap)
	p.SetLSN(42)
	p.RecomputeChecksum()
	if !p.VerifyChecksum() {
		t.Fatal("checksum should verify after recompute")
	}
}

func TestBitFlipBreaksChecksum(t *testing.T) {
	p := New(NewPageID(1, 0), KindHeap)
	buf := p.Bytes()
	buf[100] ^= 0x01
	if p.VerifyChecksum() {
		t.Fatal("single bit flip in body must break checksum verification")
	}
}

func TestPageIDRoundTrip(t *testing.T) {
	for _, tc := range []struct{ f, n uint32 }{
		{0, 0}, {1, 0}, {0, 1}, {1, 5}, {0xFFFFFFFF, 0xFFFFFFFF},
	} {
		id := NewPageID(tc.f, tc.n)
		if id.FileID() != tc.f || id.PageNo() != tc.n {
			t.Fatalf("NewPageID(%d,%d) round-trip = (%d,%d)", tc.f, tc.n, id.FileID(), id.PageNo())
		}
	}
}

func TestPageIDOrdering(t *testing.T) {
	a := NewPageID(1, 5)
	b := NewPageID(1, 6)
	c := NewPageID(2, 0)
	if !(a < b && b < c) {
		t.Fatalf("expected lexicographic ordering on (file_id, page_no), got a=%d b=%d c=%d", a, b, c)
	}
}

func TestWrapPanicsOnWrongSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic wrapping a short buffer")
		}
	}()
	Wrap(make([]byte, 10))
}
