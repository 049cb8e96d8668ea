// Copyright ©2026 The wirefmt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wirefmt

import (
	"encoding/binary"
	"unicode/utf8"
)

// headerSize is the size in bytes of a struct or array block's fixed
// header: two little-endian uint32 fields (size_in_bytes and version,
// or size_in_bytes and element_count for arrays).
const headerSize = 8

// nestedBlock records a pointer wire element whose pointee has not yet
// been written. ptrLoc is the byte offset, within the output buffer, of
// the 8-byte pointer slot to back-patch once the pointee's start offset
// is known.
type nestedBlock struct {
	ptrLoc  int
	name    string
	ordinal FieldOrdinal
	value   Value
	pointee PointeeType
}

// SerializeStruct appends the wire encoding of value (including any
// nested struct/array blocks it transitively points to) to *dst,
// according to layout.
//
// On error, *dst may contain a partially written, non-conforming
// buffer; callers must discard it rather than trying to reuse it.
func SerializeStruct(dst *[]byte, value StructValue, layout StructLayout) error {
	base := len(*dst)
	*dst = append(*dst, make([]byte, headerSize)...)

	var queue []nestedBlock
	for _, ne := range layout.Elements {
		if err := serializeElement(dst, value, ne, &queue); err != nil {
			return err
		}
	}
	padBuffer(dst, 8)

	bytesWritten := len(*dst) - base
	putUint32(*dst, base, uint32(bytesWritten))
	// Bytes [base+4:base+8] are the version field, already zero.

	return drainQueue(dst, queue)
}

// serializeElement writes one struct-level wire element, looking up its
// source value(s) from value by ordinal.
func serializeElement(dst *[]byte, value StructValue, ne NamedElement, queue *[]nestedBlock) error {
	switch e := ne.Element.(type) {
	case Leaf:
		v, err := lookupOrdinal(value, e.Ordinal, ne.Name)
		if err != nil {
			return err
		}
		padBuffer(dst, e.Alignment())
		return writeLeaf(dst, v, e.Type, ne.Name, e.Ordinal)
	case Bitfield:
		padBuffer(dst, 1)
		b, err := packBitfieldByte(value, e, ne.Name)
		if err != nil {
			return err
		}
		*dst = append(*dst, b)
		return nil
	case Pointer:
		v, err := lookupOrdinal(value, e.Ordinal, ne.Name)
		if err != nil {
			return err
		}
		return enqueuePointer(dst, queue, v, e.Pointee, ne.Name, e.Ordinal)
	default:
		panic("wirefmt: unknown WireElement implementation")
	}
}

// lookupOrdinal resolves a field ordinal against value, reporting
// OrdinalOutOfRange if it does not exist.
func lookupOrdinal(value StructValue, ordinal FieldOrdinal, name string) (Value, error) {
	v, ok := value.FieldAt(ordinal)
	if !ok {
		return nil, &WireError{Kind: OrdinalOutOfRange, Field: name, Ordinal: ordinal,
			Detail: "wire element references a field beyond the supplied value"}
	}
	return v, nil
}

// writeLeaf appends the little-endian encoding of v, which must be an
// IntValue of exactly t's width and signedness.
func writeLeaf(dst *[]byte, v Value, t Int, name string, ordinal FieldOrdinal) error {
	iv, ok := v.(IntValue)
	if !ok || iv.Width != t.Width || iv.Signed != t.Signed {
		return &WireError{Kind: TypeMismatch, Field: name, Ordinal: ordinal,
			Detail: "expected " + t.String() + ", got " + describeValue(v)}
	}
	bits := iv.Bits
	for i := 0; i < t.Width; i++ {
		*dst = append(*dst, byte(bits))
		bits >>= 8
	}
	return nil
}

// packBitfieldByte builds the single byte for a Bitfield wire element by
// reading a boolean from value at each occupied slot.
func packBitfieldByte(value StructValue, bf Bitfield, name string) (byte, error) {
	var b byte
	for i, slot := range bf.Slots {
		if slot == nil {
			break
		}
		v, err := lookupOrdinal(value, *slot, name)
		if err != nil {
			return 0, err
		}
		bv, ok := v.(BoolValue)
		if !ok {
			return 0, &WireError{Kind: TypeMismatch, Field: name, Ordinal: *slot,
				Detail: "expected bool, got " + describeValue(v)}
		}
		if bv {
			b |= 1 << uint(i)
		}
	}
	return b, nil
}

// enqueuePointer reserves the 8-byte pointer slot for a Pointer wire
// element and records its pointee to be written after the enclosing
// block's inline body is complete.
func enqueuePointer(dst *[]byte, queue *[]nestedBlock, v Value, pointee PointeeType, name string, ordinal FieldOrdinal) error {
	padBuffer(dst, 8)
	ptrLoc := len(*dst)
	*dst = append(*dst, make([]byte, 8)...)
	*queue = append(*queue, nestedBlock{ptrLoc: ptrLoc, name: name, ordinal: ordinal, value: v, pointee: pointee})
	return nil
}

// drainQueue writes each queued nested block in enqueue order, back-
// patching its pointer slot with the byte distance to where the block
// actually ends up starting.
func drainQueue(dst *[]byte, queue []nestedBlock) error {
	for _, nb := range queue {
		delta := len(*dst) - nb.ptrLoc
		putUint64(*dst, nb.ptrLoc, uint64(delta))

		switch p := nb.pointee.(type) {
		case StructPointee:
			sv, ok := nb.value.(StructValue)
			if !ok {
				return &WireError{Kind: TypeMismatch, Field: nb.name, Ordinal: nb.ordinal,
					Detail: "expected struct, got " + describeValue(nb.value)}
			}
			if err := SerializeStruct(dst, sv, p.Layout); err != nil {
				return err
			}
		case ArrayPointee:
			if err := serializeArray(dst, nb.value, p, nb.name, nb.ordinal); err != nil {
				return err
			}
		default:
			panic("wirefmt: unknown PointeeType implementation")
		}
	}
	return nil
}

// serializeArray appends the wire encoding of an array or string block
// (header, elements, padding, then transitively nested blocks) to *dst.
func serializeArray(dst *[]byte, value Value, pointee ArrayPointee, name string, ordinal FieldOrdinal) error {
	elements, err := arrayElementsFor(value, pointee, name, ordinal)
	if err != nil {
		return err
	}
	if pointee.Kind == KindSized && len(elements) != pointee.SizedLen {
		return &WireError{Kind: ArraySizeMismatch, Field: name, Ordinal: ordinal,
			Detail: "declared length does not match value length"}
	}

	base := len(*dst)
	*dst = append(*dst, make([]byte, headerSize)...)

	var queue []nestedBlock
	for i, ev := range elements {
		if err := serializeArrayElement(dst, ev, pointee.Elem, &queue, name, i); err != nil {
			return err
		}
	}
	padBuffer(dst, 8)

	bytesWritten := len(*dst) - base
	putUint32(*dst, base, uint32(bytesWritten))
	putUint32(*dst, base+4, uint32(len(elements)))

	return drainQueue(dst, queue)
}

// arrayElementsFor extracts the per-element value sequence for an array
// pointee, honoring the String/Array(UInt8) duality: a string or byte
// array value are both accepted when Kind is KindString.
func arrayElementsFor(value Value, pointee ArrayPointee, name string, ordinal FieldOrdinal) ([]Value, error) {
	if pointee.Kind == KindString {
		switch v := value.(type) {
		case StringValue:
			s := string(v)
			elems := make([]Value, len(s))
			for i := 0; i < len(s); i++ {
				elems[i] = UInt8(s[i])
			}
			return elems, nil
		case ArrayValue:
			return v.Elements, nil
		default:
			return nil, &WireError{Kind: TypeMismatch, Field: name, Ordinal: ordinal,
				Detail: "expected string or byte array, got " + describeValue(value)}
		}
	}
	av, ok := value.(ArrayValue)
	if !ok {
		return nil, &WireError{Kind: TypeMismatch, Field: name, Ordinal: ordinal,
			Detail: "expected array, got " + describeValue(value)}
	}
	return av.Elements, nil
}

// serializeArrayElement writes one element of an array block. Array
// elements are packed via PackType(elemType, 0), so a Leaf/Bitfield
// element here never carries more than ordinal 0.
func serializeArrayElement(dst *[]byte, v Value, elem WireElement, queue *[]nestedBlock, arrayName string, index int) error {
	switch e := elem.(type) {
	case Leaf:
		padBuffer(dst, e.Alignment())
		return writeLeaf(dst, v, e.Type, arrayName, index)
	case Bitfield:
		padBuffer(dst, 1)
		bv, ok := v.(BoolValue)
		if !ok {
			return &WireError{Kind: TypeMismatch, Field: arrayName, Ordinal: index,
				Detail: "expected bool, got " + describeValue(v)}
		}
		var b byte
		if bv {
			b = 1
		}
		*dst = append(*dst, b)
		return nil
	case Pointer:
		return enqueuePointer(dst, queue, v, e.Pointee, arrayName, index)
	default:
		panic("wirefmt: unknown WireElement implementation")
	}
}

func padBuffer(dst *[]byte, alignment int) {
	n := bytesToAlign(len(*dst), alignment)
	if n > 0 {
		*dst = append(*dst, make([]byte, n)...)
	}
}

func putUint32(buf []byte, at int, v uint32) {
	binary.LittleEndian.PutUint32(buf[at:at+4], v)
}

func putUint64(buf []byte, at int, v uint64) {
	binary.LittleEndian.PutUint64(buf[at:at+8], v)
}

func describeValue(v Value) string {
	if v == nil {
		return "<nil>"
	}
	switch v.(type) {
	case BoolValue:
		return "bool"
	case IntValue:
		return v.(IntValue).Type().String()
	case StringValue:
		return "string"
	case ArrayValue:
		return "array"
	case StructValue:
		return "struct"
	default:
		return "unknown value"
	}
}

// validUTF8 reports whether b is well-formed UTF-8, used by the
// deserializer when materializing a String pointee.
func validUTF8(b []byte) bool {
	return utf8.Valid(b)
}
