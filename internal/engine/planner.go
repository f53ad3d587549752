// Package engine: planner.
//
// What: Lowers a parsed *SelectStatement into a PhysicalPlan tree, resolving
// table/column names against the catalog and synthesizing the output
// Schema a Projection produces.
// How: A single top-down pass building SeqScan -> Filter -> Projection ->
// Limit, the same fixed pipeline shape tinySQL's own planner assembles for
// a single-table query, with no cost-based choices to make since this
// engine has exactly one access path (SeqScan) and no joins.
// Why: Resolving names and types once at plan time — rather than at every
// row during execution — is what lets the executor stay a pure value
// evaluator with no schema lookups in its hot path. This is also where
// spec.md's Open Questions 1-3 get resolved: table resolution goes through
// the catalog instead of a hard-coded file_id, and a SELECT without a FROM
// is explicitly rejected rather than silently scanning nothing.
package engine

import (
	"errors"
	"fmt"

	"github.com/relstore/heapql/internal/catalog"
	"github.com/relstore/heapql/internal/storage"
)

// ErrSelectWithoutFrom is returned by Plan when a SelectStatement has no
// FROM clause. The grammar accepts "SELECT 42" as a statement (resolving
// spec.md's ambiguity about whether FROM is mandatory), but this engine has
// no notion of evaluating an expression against zero rows, so planning it
// is explicitly unsupported rather than silently producing one row.
var ErrSelectWithoutFrom = errors.New("plan: SELECT without FROM is not supported")

// ErrTypeMismatch is returned when an expression's operand types cannot be
// reconciled (e.g. comparing a Varchar to a Boolean).
var ErrTypeMismatch = errors.New("plan: type mismatch")

// Plan lowers stmt into a PhysicalPlan against the given catalog.
func Plan(cat *catalog.Catalog, stmt *SelectStatement) (PhysicalPlan, error) {
	if stmt.From == "" {
		return nil, ErrSelectWithoutFrom
	}

	info, err := cat.Lookup(stmt.From)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	var plan PhysicalPlan = &SeqScanPlan{
		TableName: stmt.From,
		FileID:    info.FileID,
		PageCount: info.PageCount,
		Schema:    info.Schema,
	}

	if stmt.Where != nil {
		predType, err := resolveType(stmt.Where, info.Schema)
		if err != nil {
			return nil, err
		}
		if predType != storage.TypeBoolean {
			return nil, fmt.Errorf("%w: WHERE predicate must be boolean, got %s", ErrTypeMismatch, predType)
		}
		plan = &FilterPlan{Input: plan, Predicate: stmt.Where}
	}

	projPlan, err := planProjection(plan, stmt.SelectList, info.Schema)
	if err != nil {
		return nil, err
	}
	plan = projPlan

	if stmt.Limit != nil {
		plan = &LimitPlan{Input: plan, N: *stmt.Limit}
	}

	return plan, nil
}

func planProjection(input PhysicalPlan, items []SelectItem, schema storage.Schema) (PhysicalPlan, error) {
	if len(items) == 1 && items[0].Wildcard {
		exprs := make([]ProjExpr, schema.Len())
		for i := 0; i < schema.Len(); i++ {
			col := schema.Column(i)
			exprs[i] = ProjExpr{Expr: &ColumnExpr{Name: col.Name}, Column: col}
		}
		return &ProjectionPlan{Input: input, Exprs: exprs, Schema: schema}, nil
	}

	exprs := make([]ProjExpr, len(items))
	cols := make([]storage.Column, len(items))
	for i, item := range items {
		typ, err := resolveType(item.Expr, schema)
		if err != nil {
			return nil, err
		}
		name := item.Alias
		if name == "" {
			name = projectionName(item.Expr)
		}
		col := storage.Column{Name: name, Type: typ, Nullable: true}
		exprs[i] = ProjExpr{Expr: item.Expr, Column: col}
		cols[i] = col
	}
	return &ProjectionPlan{Input: input, Exprs: exprs, Schema: storage.NewSchema(cols...)}, nil
}

// projectionName synthesizes a column name for an unaliased projected
// expression: the column name itself for a bare ColumnExpr, "literal" for a
// literal, and "expr" for anything computed, per spec.md §4.6's naming
// convention for unnamed result columns.
func projectionName(e Expression) string {
	switch v := e.(type) {
	case *ColumnExpr:
		return v.Name
	case *LiteralExpr:
		return "literal"
	default:
		return "expr"
	}
}

// resolveType computes the DataType an expression evaluates to, resolving
// column references against schema and propagating types through operators
// per spec.md's Open Question 3: arithmetic on two Integers yields Integer,
// '+' on two Varchars yields Varchar (concatenation), every comparison and
// logical operator yields Boolean.
func resolveType(e Expression, schema storage.Schema) (storage.DataType, error) {
	switch v := e.(type) {
	case *LiteralExpr:
		switch v.Value.Kind {
		case LiteralInteger:
			return storage.TypeInteger, nil
		case LiteralVarchar:
			return storage.TypeVarchar, nil
		case LiteralBoolean:
			return storage.TypeBoolean, nil
		}
		return 0, fmt.Errorf("%w: unknown literal kind", ErrTypeMismatch)

	case *ColumnExpr:
		idx, err := schema.Index(v.Name)
		if err != nil {
			return 0, fmt.Errorf("plan: %w", err)
		}
		return schema.Column(idx).Type, nil

	case *BinaryExpr:
		left, err := resolveType(v.Left, schema)
		if err != nil {
			return 0, err
		}
		right, err := resolveType(v.Right, schema)
		if err != nil {
			return 0, err
		}
		return resolveBinaryType(v.Op, left, right)

	default:
		return 0, fmt.Errorf("%w: unknown expression node %T", ErrTypeMismatch, e)
	}
}

func resolveBinaryType(op BinaryOperator, left, right storage.DataType) (storage.DataType, error) {
	switch op {
	case OpAnd, OpOr:
		if left != storage.TypeBoolean || right != storage.TypeBoolean {
			return 0, fmt.Errorf("%w: %s requires boolean operands, got %s and %s", ErrTypeMismatch, op, left, right)
		}
		return storage.TypeBoolean, nil

	case OpEq, OpNe:
		if left != right {
			return 0, fmt.Errorf("%w: cannot compare %s with %s", ErrTypeMismatch, left, right)
		}
		return storage.TypeBoolean, nil

	case OpLt, OpLe, OpGt, OpGe:
		if left != right {
			return 0, fmt.Errorf("%w: cannot compare %s with %s", ErrTypeMismatch, left, right)
		}
		if left == storage.TypeBoolean {
			return 0, fmt.Errorf("%w: %s does not support boolean operands, only = and <>", ErrTypeMismatch, op)
		}
		return storage.TypeBoolean, nil

	case OpAdd:
		if left == storage.TypeInteger && right == storage.TypeInteger {
			return storage.TypeInteger, nil
		}
		if left == storage.TypeVarchar && right == storage.TypeVarchar {
			return storage.TypeVarchar, nil
		}
		return 0, fmt.Errorf("%w: '+' requires two Integers or two Varchars, got %s and %s", ErrTypeMismatch, left, right)

	case OpSub, OpMul, OpDiv:
		if left != storage.TypeInteger || right != storage.TypeInteger {
			return 0, fmt.Errorf("%w: %s requires integer operands, got %s and %s", ErrTypeMismatch, op, left, right)
		}
		return storage.TypeInteger, nil

	default:
		return 0, fmt.Errorf("%w: unknown operator %s", ErrTypeMismatch, op)
	}
}
