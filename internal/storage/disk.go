package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/relstore/heapql/internal/storage/pager"
)

// ───────────────────────────────────────────────────────────────────────────
// DiskManager
// ───────────────────────────────────────────────────────────────────────────
//
// What: Maps (file_id, page_no) to a byte range inside a per-file backing
// store named base_<file_id>.db under a configured data directory.
// How: Files are opened lazily on first use and kept open for the
// DiskManager's lifetime; pages are located by page_no * PageSize and read
// or written with a single ReadAt/WriteAt, matching tinySQL's own
// backend_disk.go pattern of one small, explicit file per logical unit
// rather than a shared heap-allocated cache.
// Why: This is the simplest mapping that satisfies spec's file format and
// keeps allocate/read/write trivially auditable — there is no WAL, no
// buffer pool, and no free-list to reason about.
//
// AllocatePage calls on one DiskManager are serialized by its mutex, which
// is held across the length check and the append. Two DiskManagers (or
// processes) allocating in the same file_id are not coordinated and would
// race on the file's length; the caller is assumed to serialize writes
// externally.
type DiskManager struct {
	mu   sync.Mutex
	dir  string
	open map[uint32]*os.File
}

// NewDiskManager creates a DiskManager rooted at dir, creating the
// directory if it does not already exist.
func NewDiskManager(dir string) (*DiskManager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk manager: create data dir: %w", err)
	}
	return &DiskManager{
		dir:  dir,
		open: make(map[uint32]*os.File),
	}, nil
}

func fileName(fileID uint32) string {
	return fmt.Sprintf("base_%d.db", fileID)
}

// fileFor returns the open *os.File for fileID, opening (and creating, if
// necessary) it on first use.
func (dm *DiskManager) fileFor(fileID uint32) (*os.File, error) {
	if f, ok := dm.open[fileID]; ok {
		return f, nil
	}
	path := filepath.Join(dm.dir, fileName(fileID))
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("disk manager: open %s: %w", path, err)
	}
	dm.open[fileID] = f
	return f, nil
}

// AllocatePage opens (creating if missing) the file for fileID, appends
// PageSize zero bytes at its current end, and returns the PageID of the new
// page. Not idempotent, and not safe under concurrent allocators on the
// same file.
func (dm *DiskManager) AllocatePage(fileID uint32) (pager.PageID, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	f, err := dm.fileFor(fileID)
	if err != nil {
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("disk manager: stat: %w", err)
	}
	pageNo := uint32(info.Size() / pager.PageSize)

	zero := make([]byte, pager.PageSize)
	if _, err := f.WriteAt(zero, info.Size()); err != nil {
		return 0, fmt.Errorf("disk manager: allocate page: %w", err)
	}
	return pager.NewPageID(fileID, pageNo), nil
}

// ReadPage seeks to the page's offset in its owning file and reads exactly
// PageSize bytes. Returns ErrChecksumMismatch (wrapping the PageID) if the
// page fails checksum verification; any other I/O error surfaces as-is.
func (dm *DiskManager) ReadPage(id pager.PageID) (*pager.Page, error) {
	dm.mu.Lock()
	f, err := dm.fileFor(id.FileID())
	dm.mu.Unlock()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, pager.PageSize)
	off := int64(id.PageNo()) * pager.PageSize
	if _, err := f.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("disk manager: read page %s: %w", id, err)
	}

	p := pager.Wrap(buf)
	if !p.VerifyChecksum() {
		return nil, fmt.Errorf("%w: page %s", ErrChecksumMismatch, id)
	}
	return p, nil
}

// WritePage writes the page's buffer at its computed offset in its owning
// file. It does not fsync.
func (dm *DiskManager) WritePage(p *pager.Page) error {
	id := p.PageID()
	dm.mu.Lock()
	f, err := dm.fileFor(id.FileID())
	dm.mu.Unlock()
	if err != nil {
		return err
	}
	off := int64(id.PageNo()) * pager.PageSize
	if _, err := f.WriteAt(p.Bytes(), off); err != nil {
		return fmt.Errorf("disk manager: write page %s: %w", id, err)
	}
	return nil
}

// Sync fsyncs the data directory (a metadata sync). Individual file fsyncs
// are not performed, matching the reference's documented durability gap —
// callers requiring tighter durability should fsync affected files
// themselves before calling Sync.
func (dm *DiskManager) Sync() error {
	dir, err := os.Open(dm.dir)
	if err != nil {
		return fmt.Errorf("disk manager: open data dir: %w", err)
	}
	defer dir.Close()
	if err := dir.Sync(); err != nil {
		return fmt.Errorf("disk manager: sync data dir: %w", err)
	}
	return nil
}

// Close closes all open backing files.
func (dm *DiskManager) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	var first error
	for id, f := range dm.open {
		if err := f.Close(); err != nil && first == nil {
			first = fmt.Errorf("disk manager: close file_id %d: %w", id, err)
		}
	}
	dm.open = make(map[uint32]*os.File)
	return first
}

// PageCount returns how many PageSize-byte pages exist in fileID's backing
// file (0 if the file does not yet exist).
func (dm *DiskManager) PageCount(fileID uint32) (uint32, error) {
	dm.mu.Lock()
	f, err := dm.fileFor(fileID)
	dm.mu.Unlock()
	if err != nil {
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("disk manager: stat: %w", err)
	}
	return uint32(info.Size() / pager.PageSize), nil
}
