// Copyright ©2026 The wirefmt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wirefmt

import "fmt"

// NominalType is a type as declared in an IDL file, independent of how it
// is laid out on the wire. The concrete implementations are Bool, Int,
// Str, Array, and Struct. The set is closed: callers switch on the
// concrete type, not on a Kind tag, mirroring how the rest of this
// package treats the type algebra as a small closed hierarchy.
type NominalType interface {
	isNominalType()
	String() string
}

// Bool is the boolean scalar type.
type Bool struct{}

func (Bool) isNominalType() {}
func (Bool) String() string { return "bool" }

// Int is an integer scalar type of the given byte width (1, 2, 4, or 8)
// and signedness. The eight combinations of Width and Signed are the
// eight integer primitives the format supports.
type Int struct {
	Width  int
	Signed bool
}

func (Int) isNominalType() {}

func (t Int) String() string {
	prefix := "u"
	if t.Signed {
		prefix = ""
	}
	return fmt.Sprintf("%sint%d", prefix, t.Width*8)
}

// Convenience constructors for the eight integer primitives.
var (
	Int8Type   = Int{Width: 1, Signed: true}
	Int16Type  = Int{Width: 2, Signed: true}
	Int32Type  = Int{Width: 4, Signed: true}
	Int64Type  = Int{Width: 8, Signed: true}
	UInt8Type  = Int{Width: 1, Signed: false}
	UInt16Type = Int{Width: 2, Signed: false}
	UInt32Type = Int{Width: 4, Signed: false}
	UInt64Type = Int{Width: 8, Signed: false}
)

// Str is the string scalar type. On the wire it is packed identically to
// Array{Elem: UInt8Type}.
type Str struct{}

func (Str) isNominalType() {}
func (Str) String() string  { return "string" }

// Array is a sized or unsized array type. Length is nil for an unsized
// array; otherwise it holds the declared element count.
type Array struct {
	Elem   NominalType
	Length *int
}

func (Array) isNominalType() {}

func (t Array) String() string {
	if t.Length == nil {
		return fmt.Sprintf("%s[]", t.Elem)
	}
	return fmt.Sprintf("%s[%d]", t.Elem, *t.Length)
}

// SizedArray returns an Array type with a fixed element count n.
func SizedArray(elem NominalType, n int) Array {
	return Array{Elem: elem, Length: &n}
}

// UnsizedArray returns an Array type with no fixed element count.
func UnsizedArray(elem NominalType) Array {
	return Array{Elem: elem}
}

// Field is one named, typed member of a Struct, in declaration order.
// Its FieldOrdinal is implicit in its position: the ordinal of
// Struct.Fields[i] is i.
type Field struct {
	Name string
	Type NominalType
}

// FieldOrdinal is the zero-based index of a field within its declaring
// struct. Ordinals are assigned in declaration order and survive
// packing: the packer may reorder fields on the wire, but every wire
// element it produces still records the ordinals of the source fields
// it carries.
type FieldOrdinal = int

// Struct is a nominal struct type: an ordered sequence of named, typed
// fields.
type Struct struct {
	Fields []Field
}

func (Struct) isNominalType() {}

func (t Struct) String() string {
	return fmt.Sprintf("struct{%d fields}", len(t.Fields))
}

// Value is a value inhabiting a NominalType. The concrete
// implementations are BoolValue, IntValue, StringValue, ArrayValue, and
// StructValue, mirroring the NominalType hierarchy one-for-one.
//
// Invariant: a StructValue's field list is parallel to its type's field
// list, in declaration order (ordinal = index). Invariant: every
// element of an ArrayValue has the same nominal type.
type Value interface {
	isValue()
	String() string
}

// BoolValue is a boolean value.
type BoolValue bool

func (BoolValue) isValue() {}

func (v BoolValue) String() string { return fmt.Sprintf("%t", bool(v)) }

// IntValue is an integer value. Bits holds the value's two's-complement
// representation in its low Width*8 bits; Int64 decodes it as signed and
// Uint64 as unsigned, whatever Signed says.
type IntValue struct {
	Width  int
	Signed bool
	Bits   uint64
}

func (IntValue) isValue() {}

func (v IntValue) String() string {
	if v.Signed {
		return fmt.Sprintf("%d", v.Int64())
	}
	return fmt.Sprintf("%d", v.Uint64())
}

// Int64 returns v sign-extended to int64. It is only meaningful when
// v.Signed is true.
func (v IntValue) Int64() int64 {
	shift := 64 - uint(v.Width)*8
	return int64(v.Bits<<shift) >> shift
}

// Uint64 returns v masked to its declared width as a uint64.
func (v IntValue) Uint64() uint64 {
	if v.Width >= 8 {
		return v.Bits
	}
	return v.Bits & (1<<(uint(v.Width)*8) - 1)
}

// Type returns the NominalType this value was constructed to inhabit.
func (v IntValue) Type() Int { return Int{Width: v.Width, Signed: v.Signed} }

func mask(width int) uint64 {
	if width >= 8 {
		return ^uint64(0)
	}
	return 1<<(uint(width)*8) - 1
}

// Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, and UInt64 construct
// IntValues of the corresponding primitive type.
func Int8(v int8) IntValue   { return IntValue{Width: 1, Signed: true, Bits: uint64(uint8(v))} }
func Int16(v int16) IntValue { return IntValue{Width: 2, Signed: true, Bits: uint64(uint16(v))} }
func Int32(v int32) IntValue { return IntValue{Width: 4, Signed: true, Bits: uint64(uint32(v))} }
func Int64(v int64) IntValue {
	return IntValue{Width: 8, Signed: true, Bits: uint64(v)}
}
func UInt8(v uint8) IntValue   { return IntValue{Width: 1, Signed: false, Bits: uint64(v) & mask(1)} }
func UInt16(v uint16) IntValue { return IntValue{Width: 2, Signed: false, Bits: uint64(v) & mask(2)} }
func UInt32(v uint32) IntValue { return IntValue{Width: 4, Signed: false, Bits: uint64(v) & mask(4)} }
func UInt64(v uint64) IntValue {
	return IntValue{Width: 8, Signed: false, Bits: v}
}

// StringValue is a UTF-8 string value.
type StringValue string

func (StringValue) isValue() {}

func (v StringValue) String() string { return string(v) }

// ArrayValue is an ordered sequence of values of a common element type.
type ArrayValue struct {
	Elements []Value
}

func (ArrayValue) isValue() {}

func (v ArrayValue) String() string { return fmt.Sprintf("[%d elements]", len(v.Elements)) }

// NamedValue pairs a struct field's name with its value, in declaration
// order.
type NamedValue struct {
	Name  string
	Value Value
}

// StructValue is an ordered sequence of named field values.
type StructValue struct {
	Fields []NamedValue
}

func (StructValue) isValue() {}

func (v StructValue) String() string { return fmt.Sprintf("struct{%d fields}", len(v.Fields)) }

// FieldAt returns the value at FieldOrdinal ord, and false if ord is out
// of range.
func (v StructValue) FieldAt(ord FieldOrdinal) (Value, bool) {
	if ord < 0 || ord >= len(v.Fields) {
		return nil, false
	}
	return v.Fields[ord].Value, true
}
