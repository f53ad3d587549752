// Command heapql-init populates a fresh data directory with the sample
// "users" table spec.md's S1 scenario describes: ten rows, id=1..10,
// name drawn from {Alice, Bob, ..., Jack}, written to file_id 1 starting
// at page 0.
//
// This is explicitly an out-of-core-scope "thin collaborator" per
// spec.md §1 — it exists only so cmd/heapql has something to SELECT from
// without a CREATE TABLE / INSERT surface, which this engine does not
// implement.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/relstore/heapql/internal/catalog"
	"github.com/relstore/heapql/internal/config"
	"github.com/relstore/heapql/internal/storage"
	"github.com/relstore/heapql/internal/storage/pager"
)

var sampleNames = []string{"Alice", "Bob", "Carol", "Dave", "Eve", "Frank", "Grace", "Heidi", "Ivan", "Jack"}

var flagDataDir = flag.String("data-dir", "", "data directory to initialize (overrides config/env default)")
var flagConfig = flag.String("config", "heapql.yaml", "path to config file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, "heapql-init:", err)
		os.Exit(1)
	}
	dir := cfg.DataDir
	if *flagDataDir != "" {
		dir = *flagDataDir
	}

	if err := run(dir); err != nil {
		fmt.Fprintln(os.Stderr, "heapql-init:", err)
		os.Exit(1)
	}
	fmt.Printf("initialized %q: table users, file_id 1, %d rows\n", dir, len(sampleNames))
}

func run(dataDir string) error {
	dm, err := storage.NewDiskManager(dataDir)
	if err != nil {
		return err
	}
	defer dm.Close()

	schema := catalog.DefaultUsersSchema()

	pageID, err := dm.AllocatePage(1)
	if err != nil {
		return fmt.Errorf("allocate page 0: %w", err)
	}
	heap := pager.NewEmptyHeap(pageID)

	for i, name := range sampleNames {
		row := storage.Row{storage.NewInteger(int32(i + 1)), storage.NewVarchar(name)}
		data, err := storage.EncodeRow(schema, row)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i+1, err)
		}
		if _, err := heap.InsertTuple(data); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	if err := dm.WritePage(heap.Page()); err != nil {
		return fmt.Errorf("write page 0: %w", err)
	}
	return dm.Sync()
}
