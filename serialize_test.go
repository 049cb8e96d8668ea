// Copyright ©2026 The wirefmt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wirefmt

import (
	"bytes"
	"testing"
)

// tenBoolFields returns the eleven-field shape shared by S1 and S2: five
// bools, one scalar at ordinal 5, then five more bools.
func tenBoolFields(scalar Field) []Field {
	return []Field{
		{Name: "f0", Type: Bool{}},
		{Name: "f1", Type: Bool{}},
		{Name: "f2", Type: Bool{}},
		{Name: "f3", Type: Bool{}},
		{Name: "f4", Type: Bool{}},
		scalar,
		{Name: "f6", Type: Bool{}},
		{Name: "f7", Type: Bool{}},
		{Name: "f8", Type: Bool{}},
		{Name: "f9", Type: Bool{}},
		{Name: "f10", Type: Bool{}},
	}
}

func boolValues(bits ...bool) []Value {
	vals := make([]Value, len(bits))
	for i, b := range bits {
		vals[i] = BoolValue(b)
	}
	return vals
}

func TestSerializeStructS1(t *testing.T) {
	fields := tenBoolFields(Field{Name: "f5", Type: UInt8Type})
	layout := PackStruct(fields)

	b := boolValues(true, true, true, false, false, true, false, false, true, false, true)
	b[5] = UInt8(0xCD)
	sv := StructValue{Fields: []NamedValue{
		{Name: "f0", Value: b[0]}, {Name: "f1", Value: b[1]}, {Name: "f2", Value: b[2]},
		{Name: "f3", Value: b[3]}, {Name: "f4", Value: b[4]}, {Name: "f5", Value: b[5]},
		{Name: "f6", Value: b[6]}, {Name: "f7", Value: b[7]}, {Name: "f8", Value: b[8]},
		{Name: "f9", Value: b[9]}, {Name: "f10", Value: b[10]},
	}}

	var out []byte
	if err := SerializeStruct(&out, sv, layout); err != nil {
		t.Fatalf("SerializeStruct: %v", err)
	}

	want := []byte{
		0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x87, 0xCD, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	if !bytes.Equal(out, want) {
		t.Errorf("SerializeStruct = % x, want % x", out, want)
	}
}

func TestSerializeStructS2(t *testing.T) {
	fields := tenBoolFields(Field{Name: "f5", Type: UInt16Type})
	layout := PackStruct(fields)

	bits := []bool{true, false, true, true, false, false, true, false, true, true, true}
	sv := StructValue{Fields: []NamedValue{
		{Name: "f0", Value: BoolValue(bits[0])}, {Name: "f1", Value: BoolValue(bits[1])},
		{Name: "f2", Value: BoolValue(bits[2])}, {Name: "f3", Value: BoolValue(bits[3])},
		{Name: "f4", Value: BoolValue(bits[4])}, {Name: "f5", Value: UInt16(0xCDEF)},
		{Name: "f6", Value: BoolValue(bits[6])}, {Name: "f7", Value: BoolValue(bits[7])},
		{Name: "f8", Value: BoolValue(bits[8])}, {Name: "f9", Value: BoolValue(bits[9])},
		{Name: "f10", Value: BoolValue(bits[10])},
	}}

	var out []byte
	if err := SerializeStruct(&out, sv, layout); err != nil {
		t.Fatalf("SerializeStruct: %v", err)
	}

	want := []byte{
		0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xAD, 0x03, 0xEF, 0xCD, 0x00, 0x00, 0x00, 0x00,
	}
	if !bytes.Equal(out, want) {
		t.Errorf("SerializeStruct = % x, want % x", out, want)
	}
}

func TestSerializeStructPureIntegers(t *testing.T) {
	fields := []Field{
		{Name: "a", Type: UInt32Type},
		{Name: "b", Type: UInt8Type},
		{Name: "c", Type: UInt16Type},
	}
	layout := PackStruct(fields)
	sv := StructValue{Fields: []NamedValue{
		{Name: "a", Value: UInt32(1)},
		{Name: "b", Value: UInt8(2)},
		{Name: "c", Value: UInt16(3)},
	}}

	var out []byte
	if err := SerializeStruct(&out, sv, layout); err != nil {
		t.Fatalf("SerializeStruct: %v", err)
	}

	if len(out) != 16 {
		t.Fatalf("SerializeStruct produced %d bytes, want 16", len(out))
	}
	if got := out[0]; got != 0x10 {
		t.Errorf("header size low byte = %#x, want 0x10", got)
	}

	parsed, err := ParseStruct(NewCursor(out), Struct{Fields: fields})
	if err != nil {
		t.Fatalf("ParseStruct: %v", err)
	}
	a, _ := parsed.FieldAt(0)
	bb, _ := parsed.FieldAt(1)
	c, _ := parsed.FieldAt(2)
	if a != UInt32(1) || bb != UInt8(2) || c != UInt16(3) {
		t.Errorf("round-trip = (%v, %v, %v), want (1, 2, 3)", a, bb, c)
	}
}

// TestSerializeStructNested is scenario S4: a struct with one inline
// Leaf followed by a Pointer to a nested struct. It checks that the
// pointer slot's raw offset, read back out of the buffer, is the exact
// byte distance to where the nested block actually starts.
func TestSerializeStructNested(t *testing.T) {
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

	var out []byte
	if err := SerializeStruct(&out, sv, layout); err != nil {
		t.Fatalf("SerializeStruct: %v", err)
	}

	const ptrLoc = 16 // 8-byte header + 4-byte Leaf + 4-byte pad to 8-byte pointer alignment
	if len(out) < ptrLoc+8 {
		t.Fatalf("serialized buffer too short: %d bytes", len(out))
	}
	var rawOffset uint64
	for i := 7; i >= 0; i-- {
		rawOffset = rawOffset<<8 | uint64(out[ptrLoc+i])
	}
	if rawOffset != 8 {
		t.Errorf("pointer raw offset = %d, want 8 (nested block starts at %d)", rawOffset, ptrLoc+8)
	}
	if len(out) != ptrLoc+8+16 {
		t.Errorf("total length = %d, want %d (24-byte outer block + 16-byte inner block)", len(out), ptrLoc+8+16)
	}
}
