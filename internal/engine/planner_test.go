package engine

import (
	"errors"
	"testing"

	"github.com/relstore/heapql/internal/catalog"
	"github.com/relstore/heapql/internal/storage"
)

func testCatalog() *catalog.Catalog {
	cat := catalog.New()
	cat.Register("users", 1, catalog.DefaultUsersSchema())
	cat.SetPageCount("users", 2)
	return cat
}

func TestPlanSeqScanWildcard(t *testing.T) {
	cat := testCatalog()
	stmt, err := Parse("SELECT * FROM users")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	plan, err := Plan(cat, stmt.(*SelectStatement))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	proj, ok := plan.(*ProjectionPlan)
	if !ok {
		t.Fatalf("expected top-level ProjectionPlan, got %T", plan)
	}
	if _, ok := proj.Input.(*SeqScanPlan); !ok {
		t.Fatalf("expected ProjectionPlan input to be SeqScanPlan, got %T", proj.Input)
	}
	if proj.Schema.Len() != 2 {
		t.Fatalf("expected 2 output columns, got %d", proj.Schema.Len())
	}
}

func TestPlanSelectWithoutFromUnsupported(t *testing.T) {
	cat := testCatalog()
	stmt, err := Parse("SELECT 42")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Plan(cat, stmt.(*SelectStatement))
	if !errors.Is(err, ErrSelectWithoutFrom) {
		t.Fatalf("expected ErrSelectWithoutFrom, got %v", err)
	}
}

func TestPlanUnknownTable(t *testing.T) {
	cat := testCatalog()
	stmt, err := Parse("SELECT * FROM ghosts")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Plan(cat, stmt.(*SelectStatement))
	if !errors.Is(err, catalog.ErrCatalogMiss) {
		t.Fatalf("expected ErrCatalogMiss, got %v", err)
	}
}

func TestPlanWhereClauseBuildsFilter(t *testing.T) {
	cat := testCatalog()
	stmt, err := Parse("SELECT * FROM users WHERE id = 5")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	plan, err := Plan(cat, stmt.(*SelectStatement))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	proj := plan.(*ProjectionPlan)
	if _, ok := proj.Input.(*FilterPlan); !ok {
		t.Fatalf("expected FilterPlan under projection, got %T", proj.Input)
	}
}

func TestPlanWherePredicateMustBeBoolean(t *testing.T) {
	cat := testCatalog()
	stmt, err := Parse("SELECT * FROM users WHERE id")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Plan(cat, stmt.(*SelectStatement))
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestPlanLimit(t *testing.T) {
	cat := testCatalog()
	stmt, err := Parse("SELECT * FROM users LIMIT 3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	plan, err := Plan(cat, stmt.(*SelectStatement))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	limit, ok := plan.(*LimitPlan)
	if !ok || limit.N != 3 {
		t.Fatalf("expected LimitPlan{N:3}, got %+v", plan)
	}
}

func TestPlanProjectionTypePropagation(t *testing.T) {
	cat := testCatalog()
	stmt, err := Parse("SELECT id, id = 5, name FROM users")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	plan, err := Plan(cat, stmt.(*SelectStatement))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	proj := plan.(*ProjectionPlan)
	cols := proj.Schema.Columns
	if cols[0].Type != storage.TypeInteger {
		t.Fatalf("expected column 0 Integer, got %s", cols[0].Type)
	}
	if cols[1].Type != storage.TypeBoolean {
		t.Fatalf("expected column 1 Boolean, got %s", cols[1].Type)
	}
	if cols[2].Type != storage.TypeVarchar {
		t.Fatalf("expected column 2 Varchar, got %s", cols[2].Type)
	}
}

func TestPlanMismatchedComparison(t *testing.T) {
	cat := testCatalog()
	stmt, err := Parse("SELECT * FROM users WHERE name = 5")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Plan(cat, stmt.(*SelectStatement))
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestPlanRejectsOrderedBooleanComparison(t *testing.T) {
	cat := testCatalog()
	stmt, err := Parse("SELECT * FROM users WHERE (id = 5) < (id = 6)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = Plan(cat, stmt.(*SelectStatement))
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch for ordered boolean comparison, got %v", err)
	}
}
