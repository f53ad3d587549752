package storage

import (
	"errors"
	"testing"
)

func usersSchema() Schema {
	return NewSchema(
		Column{Name: "id", Type: TypeInteger, Nullable: false},
		Column{Name: "name", Type: TypeVarchar, MaxLen: 255, Nullable: true},
	)
}

func TestEncodeDecodeRowRoundTrip(t *testing.T) {
	schema := usersSchema()
	row := Row{NewInteger(5), NewVarchar("Eve")}

	data, err := EncodeRow(schema, row)
	if err != nil {
		t.Fatalf("EncodeRow: %v", err)
	}
	got, err := DecodeRow(schema, data)
	if err != nil {
		t.Fatalf("DecodeRow: %v", err)
	}
	if got[0].I != 5 || got[1].S != "Eve" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestEncodeRowRejectsNull(t *testing.T) {
	schema := usersSchema()
	_, err := EncodeRow(schema, Row{NewInteger(1), Null})
	if !errors.Is(err, ErrNullNotStorable) {
		t.Fatalf("expected ErrNullNotStorable, got %v", err)
	}
}

func TestDecodeRowTruncated(t *testing.T) {
	schema := usersSchema()
	_, err := DecodeRow(schema, []byte{1, 0, 0}) // too short for even the integer
	if !errors.Is(err, ErrTruncatedTuple) {
		t.Fatalf("expected ErrTruncatedTuple, got %v", err)
	}
}

func TestDecodeRowRejectsInvalidUTF8(t *testing.T) {
	schema := NewSchema(Column{Name: "name", Type: TypeVarchar, MaxLen: 255})
	// Length-prefixed body with a lone continuation byte, never valid UTF-8.
	data := []byte{1, 0, 0, 0, 0x80}
	_, err := DecodeRow(schema, data)
	if !errors.Is(err, ErrUtf8) {
		t.Fatalf("expected ErrUtf8, got %v", err)
	}
}

func TestDecodeRowIgnoresTrailingBytes(t *testing.T) {
	schema := NewSchema(Column{Name: "id", Type: TypeInteger})
	data, _ := EncodeRow(schema, Row{NewInteger(9)})
	data = append(data, 0xDE, 0xAD, 0xBE, 0xEF)
	got, err := DecodeRow(schema, data)
	if err != nil {
		t.Fatalf("DecodeRow: %v", err)
	}
	if got[0].I != 9 {
		t.Fatalf("got %+v", got)
	}
}

func TestBooleanEncoding(t *testing.T) {
	schema := NewSchema(Column{Name: "flag", Type: TypeBoolean})
	data, err := EncodeRow(schema, Row{NewBoolean(true)})
	if err != nil {
		t.Fatalf("EncodeRow: %v", err)
	}
	if len(data) != 1 || data[0] == 0 {
		t.Fatalf("expected single nonzero byte, got %v", data)
	}
	got, err := DecodeRow(schema, data)
	if err != nil {
		t.Fatalf("DecodeRow: %v", err)
	}
	if !got[0].B {
		t.Fatal("expected true")
	}
}
