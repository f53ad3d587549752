// Package engine: physical plan.
//
// What: The PhysicalPlan tree the planner lowers a SelectStatement into,
// and that the executor walks Volcano-style (each node pulls rows from its
// child one at a time).
// How: A small closed set of node kinds — SeqScan, Filter, Projection,
// Limit — matching the operators spec.md §4.5 names, each carrying the
// output Schema the executor needs to decode/construct rows.
// Why: Keeping the plan tree separate from the AST lets the planner resolve
// column names and propagate types once, so the executor never has to look
// anything up by name at row time.
package engine

import "github.com/relstore/heapql/internal/storage"

// PhysicalPlan is the marker interface for all physical operator nodes.
type PhysicalPlan interface {
	// OutputSchema describes the columns each row produced by this node
	// carries, in order.
	OutputSchema() storage.Schema
	isPlan()
}

// SeqScanPlan reads every tuple of a table's heap pages in file order.
type SeqScanPlan struct {
	TableName string
	FileID    uint32
	PageCount uint32
	Schema    storage.Schema
}

func (p *SeqScanPlan) OutputSchema() storage.Schema { return p.Schema }
func (*SeqScanPlan) isPlan()                        {}

// FilterPlan discards rows for which Predicate does not evaluate to true.
type FilterPlan struct {
	Input     PhysicalPlan
	Predicate Expression
}

func (p *FilterPlan) OutputSchema() storage.Schema { return p.Input.OutputSchema() }
func (*FilterPlan) isPlan()                        {}

// ProjExpr is one resolved projection column: the expression to evaluate
// against each input row, and the output column it produces.
type ProjExpr struct {
	Expr   Expression
	Column storage.Column
}

// ProjectionPlan evaluates Exprs against each input row to build output
// rows with the given Schema.
type ProjectionPlan struct {
	Input  PhysicalPlan
	Exprs  []ProjExpr
	Schema storage.Schema
}

func (p *ProjectionPlan) OutputSchema() storage.Schema { return p.Schema }
func (*ProjectionPlan) isPlan()                        {}

// LimitPlan stops production after at most N rows.
type LimitPlan struct {
	Input PhysicalPlan
	N     uint32
}

func (p *LimitPlan) OutputSchema() storage.Schema { return p.Input.OutputSchema() }
func (*LimitPlan) isPlan()                         {}
