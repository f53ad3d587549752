package catalog

import (
	"errors"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	c := New()
	schema := DefaultUsersSchema()
	c.Register("Users", 1, schema)

	info, err := c.Lookup("users")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if info.FileID != 1 || info.Schema.Len() != 2 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestLookupMiss(t *testing.T) {
	c := New()
	_, err := c.Lookup("ghost")
	if !errors.Is(err, ErrCatalogMiss) {
		t.Fatalf("expected ErrCatalogMiss, got %v", err)
	}
}

func TestSetPageCount(t *testing.T) {
	c := New()
	c.Register("users", 1, DefaultUsersSchema())
	c.SetPageCount("users", 3)
	info, _ := c.Lookup("users")
	if info.PageCount != 3 {
		t.Fatalf("PageCount = %d, want 3", info.PageCount)
	}
}

func TestSessionIDStable(t *testing.T) {
	c := New()
	id1 := c.SessionID()
	id2 := c.SessionID()
	if id1 != id2 {
		t.Fatal("SessionID should be stable across calls")
	}
}
