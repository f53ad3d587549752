// Command heapql is a blocking REPL over the storage engine: it reads one
// SQL statement per line from stdin, plans and executes it against a data
// directory, and prints the resulting rows.
//
// This mirrors tinySQL's own cmd/repl/main.go shape (flag-configured,
// bufio.Scanner over stdin, a handful of dot/meta commands, a pluggable
// output format) trimmed to the SELECT-only surface this engine exposes:
// no DSN, no multi-statement buffering on ';', no HTML/beautiful modes.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/relstore/heapql/internal/catalog"
	"github.com/relstore/heapql/internal/config"
	"github.com/relstore/heapql/internal/engine"
	"github.com/relstore/heapql/internal/storage"
	"github.com/relstore/heapql/internal/storage/pager"
)

var flagDataDir = flag.String("data-dir", "", "data directory (overrides config/env default)")
var flagConfig = flag.String("config", "heapql.yaml", "path to config file")
var flagCacheSize = flag.Int("cache-size", 256, "max number of parsed queries to cache")

func main() {
	flag.Parse()

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, "heapql:", err)
		os.Exit(1)
	}
	dir := cfg.DataDir
	if *flagDataDir != "" {
		dir = *flagDataDir
	}

	dm, err := storage.NewDiskManager(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "heapql:", err)
		os.Exit(1)
	}
	defer dm.Close()

	cat := catalog.New()
	bootstrapCatalog(dm, cat)

	runREPL(dm, cat, engine.NewQueryCache(*flagCacheSize))
}

// bootstrapCatalog registers the sample "users" table against whatever is
// already on disk in file_id 1 — populated, if at all, by a prior run of
// cmd/heapql-init. There is no persisted catalog (spec.md names no catalog
// file format), so every process re-derives it at startup.
func bootstrapCatalog(dm *storage.DiskManager, cat *catalog.Catalog) {
	schema := catalog.DefaultUsersSchema()
	cat.Register("users", 1, schema)
	if pages, err := dm.PageCount(1); err == nil {
		cat.SetPageCount("users", pages)
	}
}

func runREPL(dm *storage.DiskManager, cat *catalog.Catalog, cache *engine.QueryCache) {
	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 1024), 1024*1024)

	format := "table"
	interactive := false
	if fi, err := os.Stdin.Stat(); err == nil {
		interactive = (fi.Mode() & os.ModeCharDevice) != 0
	}

	if interactive {
		fmt.Printf("heapql REPL (session %s). Type 'help' for commands.\n", cat.SessionID())
	}

	for {
		if interactive {
			fmt.Print("heapql> ")
		}
		if !sc.Scan() {
			return
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "help":
			printHelp()
			continue
		case line == "clear" || line == "cls":
			fmt.Print("\033[H\033[2J")
			continue
		case line == "exit" || line == "quit":
			return
		case line == `\stats`:
			printStats(dm, cat)
			continue
		case strings.HasPrefix(line, `\format `):
			format = strings.TrimSpace(strings.TrimPrefix(line, `\format `))
			fmt.Printf("output format set to %q\n", format)
			continue
		}

		runStatement(dm, cat, cache, line, format)
	}
}

func printHelp() {
	fmt.Println(`heapql meta commands:
  help            show this message
  clear, cls      clear the screen
  exit, quit      leave the REPL
  \stats          show per-table page counts and file sizes
  \format FMT     set output format: table, yaml

Anything else is parsed as a SELECT statement.`)
}

func printStats(dm *storage.DiskManager, cat *catalog.Catalog) {
	for _, name := range cat.Tables() {
		info, err := cat.Lookup(name)
		if err != nil {
			continue
		}
		totalBytes := uint64(info.PageCount) * uint64(pager.PageSize)
		fmt.Printf("%s: file_id=%d pages=%d size=%s\n",
			name, info.FileID, info.PageCount, humanize.Bytes(totalBytes))
	}
}

func runStatement(dm *storage.DiskManager, cat *catalog.Catalog, cache *engine.QueryCache, sql, format string) {
	compiled, err := cache.Compile(sql)
	if err != nil {
		fmt.Println("ERR:", err)
		return
	}
	sel, ok := compiled.Statement.(*engine.SelectStatement)
	if !ok {
		fmt.Println("ERR: only SELECT statements are supported")
		return
	}

	plan, err := engine.Plan(cat, sel)
	if err != nil {
		fmt.Println("ERR:", err)
		return
	}
	iter, err := engine.Execute(dm, plan)
	if err != nil {
		fmt.Println("ERR:", err)
		return
	}
	rows, err := engine.RunToRows(iter)
	if err != nil {
		fmt.Println("ERR:", err)
		return
	}

	cols := plan.OutputSchema().Columns
	switch strings.ToLower(format) {
	case "yaml":
		printYAML(cols, rows)
	default:
		printTable(cols, rows)
	}
}

func printTable(cols []storage.Column, rows []storage.Row) {
	names := make([]string, len(cols))
	widths := make([]int, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		widths[i] = len(c.Name)
	}
	cellStrings := make([][]string, len(rows))
	for r, row := range rows {
		cellStrings[r] = make([]string, len(cols))
		for i, v := range row {
			s := v.String()
			cellStrings[r][i] = s
			if len(s) > widths[i] {
				widths[i] = len(s)
			}
		}
	}

	printRow(names, widths)
	sep := make([]string, len(cols))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	printRow(sep, widths)
	for _, cs := range cellStrings {
		printRow(cs, widths)
	}
}

func printRow(cells []string, widths []int) {
	for i, c := range cells {
		fmt.Print(padRight(c, widths[i]))
		if i < len(cells)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func printYAML(cols []storage.Column, rows []storage.Row) {
	out := make([]map[string]any, len(rows))
	for r, row := range rows {
		m := make(map[string]any, len(cols))
		for i, c := range cols {
			v := row[i]
			if v.IsNull() {
				m[c.Name] = nil
			} else {
				m[c.Name] = v.String()
			}
		}
		out[r] = m
	}
	enc, err := yaml.Marshal(out)
	if err != nil {
		fmt.Println("ERR:", err)
		return
	}
	os.Stdout.Write(enc)
}
