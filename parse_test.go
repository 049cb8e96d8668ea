// Copyright ©2026 The wirefmt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wirefmt

import (
	"bytes"
	"errors"
	"testing"
)

// dumpString renders v through DumpValue, for failure messages that
// need to show a whole value tree rather than one mismatched field.
func dumpString(v Value) string {
	var buf bytes.Buffer
	DumpValue(&buf, v)
	return buf.String()
}

func TestParseStructRoundTripS1(t *testing.T) {
	fields := tenBoolFields(Field{Name: "f5", Type: UInt8Type})
	layout := PackStruct(fields)

	in := []byte{
		0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x87, 0xCD, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
	}

	got, err := ParseStructWithLayout(NewCursor(in), fields, layout)
	if err != nil {
		t.Fatalf("ParseStructWithLayout: %v", err)
	}

	want := []bool{true, true, true, false, false, false, false, false, true, false, true}
	for i, w := range want {
		if i == 5 {
			continue
		}
		v, ok := got.FieldAt(i)
		if !ok {
			t.Fatalf("field %d missing from parsed value", i)
		}
		if bv, ok := v.(BoolValue); !ok || bool(bv) != w {
			t.Errorf("field %d = %v, want BoolValue(%t)", i, v, w)
		}
	}
	v, _ := got.FieldAt(5)
	if iv, ok := v.(IntValue); !ok || iv.Uint64() != 0xCD {
		t.Errorf("field 5 = %v, want UInt8(0xCD)", v)
	}
}

// TestParseStructRoundTripNested round-trips scenario S4 end to end:
// serialize an outer struct with a nested struct pointer, then parse it
// back and check the nested value survives intact.
func TestParseStructRoundTripNested(t *testing.T) {
	inner := Struct{Fields: []Field{{Name: "y", Type: UInt32Type}}}
	outer := Struct{Fields: []Field{
		{Name: "x", Type: UInt32Type},
		{Name: "inner", Type: inner},
	}}
	layout := PackStruct(outer.Fields)

	sv := StructValue{Fields: []NamedValue{
		{Name: "x", Value: UInt32(7)},
		{Name: "inner", Value: StructValue{Fields: []NamedValue{{Name: "y", Value: UInt32(9)}}}},
	}}

	var buf []byte
	if err := SerializeStruct(&buf, sv, layout); err != nil {
		t.Fatalf("SerializeStruct: %v", err)
	}

	got, err := ParseStruct(NewCursor(buf), outer)
	if err != nil {
		t.Fatalf("ParseStruct: %v", err)
	}

	x, _ := got.FieldAt(0)
	if x != UInt32(7) {
		t.Errorf("x = %v, want UInt32(7)\nparsed value:\n%s", x, dumpString(got))
	}
	innerVal, ok := got.FieldAt(1)
	if !ok {
		t.Fatal("inner field missing")
	}
	innerSV, ok := innerVal.(StructValue)
	if !ok {
		t.Fatalf("inner field is a %T, want StructValue", innerVal)
	}
	y, _ := innerSV.FieldAt(0)
	if y != UInt32(9) {
		t.Errorf("y = %v, want UInt32(9)\ninner value:\n%s", y, dumpString(innerSV))
	}
}

// TestParseStructTruncated is scenario S5: truncating S1's 16-byte
// buffer to 15 bytes must surface UnexpectedEndOfInput, not a silent
// short read.
func TestParseStructTruncated(t *testing.T) {
	fields := tenBoolFields(Field{Name: "f5", Type: UInt8Type})
	layout := PackStruct(fields)

	in := []byte{
		0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x87, 0xCD, 0x02, 0x00, 0x00, 0x00, 0x00,
	}
	if len(in) != 15 {
		t.Fatalf("test fixture has %d bytes, want 15", len(in))
	}

	_, err := ParseStructWithLayout(NewCursor(in), fields, layout)
	var wireErr *WireError
	if !errors.As(err, &wireErr) || wireErr.Kind != UnexpectedEndOfInput {
		t.Errorf("err = %v, want a WireError with Kind UnexpectedEndOfInput", err)
	}
}

// TestParseStructHeaderLies is scenario S6: a forged header claiming a
// smaller body than the layout actually occupies must be rejected with
// HeaderSizeMismatch rather than silently truncating the parse.
func TestParseStructHeaderLies(t *testing.T) {
	fields := tenBoolFields(Field{Name: "f5", Type: UInt8Type})
	layout := PackStruct(fields)

	in := []byte{
		0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x87, 0xCD, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
	}

	_, err := ParseStructWithLayout(NewCursor(in), fields, layout)
	var wireErr *WireError
	if !errors.As(err, &wireErr) || wireErr.Kind != HeaderSizeMismatch {
		t.Errorf("err = %v, want a WireError with Kind HeaderSizeMismatch", err)
	}
}

// TestParseStructSkipsTrailingFields checks the version-skew case: a
// header declaring more bytes than this layout's known fields occupy
// must have the extra trailing bytes skipped as unchecked padding,
// never rejected as a mismatch, since a newer producer may have
// appended fields this consumer's layout doesn't know about.
func TestParseStructSkipsTrailingFields(t *testing.T) {
	fields := []Field{{Name: "a", Type: UInt32Type}}
	layout := PackStruct(fields)

	in := []byte{
		0x18, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // size=24, version=0
		0x07, 0x00, 0x00, 0x00, // a = 7
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, // unknown trailing field
	}

	got, err := ParseStructWithLayout(NewCursor(in), fields, layout)
	if err != nil {
		t.Fatalf("ParseStructWithLayout: %v", err)
	}
	a, _ := got.FieldAt(0)
	if a != UInt32(7) {
		t.Errorf("a = %v, want UInt32(7)", a)
	}
}

// TestSerializeStructOrdinalOutOfRange checks that serializing a value
// with fewer fields than its layout references is rejected rather than
// panicking: the layout and the value it describes can drift apart
// whenever a StructValue is hand-built instead of parsed.
func TestSerializeStructOrdinalOutOfRange(t *testing.T) {
	layout := PackStruct([]Field{{Name: "a", Type: UInt32Type}, {Name: "b", Type: UInt32Type}})
	sv := StructValue{Fields: []NamedValue{{Name: "a", Value: UInt32(42)}}}

	var buf []byte
	err := SerializeStruct(&buf, sv, layout)
	var wireErr *WireError
	if !errors.As(err, &wireErr) || wireErr.Kind != OrdinalOutOfRange {
		t.Errorf("err = %v, want a WireError with Kind OrdinalOutOfRange", err)
	}
}

func TestSerializeStructTypeMismatch(t *testing.T) {
	fields := []Field{{Name: "a", Type: UInt32Type}}
	layout := PackStruct(fields)
	sv := StructValue{Fields: []NamedValue{{Name: "a", Value: BoolValue(true)}}}

	var buf []byte
	err := SerializeStruct(&buf, sv, layout)
	var wireErr *WireError
	if !errors.As(err, &wireErr) || wireErr.Kind != TypeMismatch {
		t.Errorf("err = %v, want a WireError with Kind TypeMismatch", err)
	}
}
