// Package catalog is the stub table registry the planner consults to turn
// a table name into a schema and a backing file_id.
//
// What: An in-memory map from lower-cased table name to TableInfo
// (file_id, schema, page count).
// How: A plain map guarded by a mutex, the same shape as tinySQL's own
// in-memory catalog.Catalog before it grows a B+Tree-backed persistent
// form — heapql has no DDL, so there is nothing to persist.
// Why: Resolves spec's Open Question 1 (the SeqScan hard-coded to
// file_id=1): every table now has its own file_id and schema, and Open
// Question 2 (scan termination via error): the catalog tracks each table's
// page count so a scan can terminate positively instead of treating a read
// error as end-of-file.
package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/relstore/heapql/internal/storage"
)

// TableInfo is what the catalog knows about one table.
type TableInfo struct {
	FileID    uint32
	Schema    storage.Schema
	PageCount uint32
}

// Catalog maps table names to TableInfo.
type Catalog struct {
	mu        sync.RWMutex
	tables    map[string]TableInfo
	sessionID uuid.UUID
}

// New creates an empty Catalog, stamped with a fresh session id used for
// diagnostic correlation (printed in the REPL banner).
func New() *Catalog {
	return &Catalog{
		tables:    make(map[string]TableInfo),
		sessionID: uuid.New(),
	}
}

// SessionID identifies this catalog instance for diagnostic output.
func (c *Catalog) SessionID() uuid.UUID { return c.sessionID }

// Register adds or replaces a table's catalog entry.
func (c *Catalog) Register(name string, fileID uint32, schema storage.Schema) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[strings.ToLower(name)] = TableInfo{FileID: fileID, Schema: schema}
}

// ErrCatalogMiss-wrapping lookup: Lookup returns the TableInfo registered
// for name, or an error wrapping ErrCatalogMiss if no such table exists.
func (c *Catalog) Lookup(name string) (TableInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.tables[strings.ToLower(name)]
	if !ok {
		return TableInfo{}, fmt.Errorf("%w: table %q", ErrCatalogMiss, name)
	}
	return info, nil
}

// SetPageCount records how many pages a table's backing file currently has,
// so SeqScan can stop after that many pages instead of treating a read
// error as end-of-scan. The disk manager does not call it: callers (the
// REPL at startup, tests) set it from DiskManager.PageCount.
func (c *Catalog) SetPageCount(name string, pages uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.ToLower(name)
	info := c.tables[key]
	info.PageCount = pages
	c.tables[key] = info
}

// Tables returns the registered table names, for REPL introspection.
func (c *Catalog) Tables() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.tables))
	for name := range c.tables {
		out = append(out, name)
	}
	return out
}

// DefaultUsersSchema is the stub schema spec.md §4.5 describes: a fixed
// {id: Integer NOT NULL, name: Varchar(255) NULLABLE} shape, kept available
// under this name for the sample-data scenarios (S1-S3) and for callers
// that want the old single-schema behavior without registering their own.
func DefaultUsersSchema() storage.Schema {
	return storage.NewSchema(
		storage.Column{Name: "id", Type: storage.TypeInteger, Nullable: false},
		storage.Column{Name: "name", Type: storage.TypeVarchar, MaxLen: 255, Nullable: true},
	)
}
