// Copyright ©2026 The wirefmt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wirefmt

// pendingPointer records a Pointer wire element read during inline-body
// parsing whose pointee has not yet been resolved: ptrLoc is the
// absolute buffer offset the pointer itself occupied, rawOffset is the
// 64-bit value read from it, and ordinal is the index into the owning
// values slice (a field ordinal for a struct, an element index for an
// array) that the resolved value belongs at.
type pendingPointer struct {
	ordinal   int
	pointee   PointeeType
	ptrLoc    int
	rawOffset uint64
}

// ParseStruct reads a struct value of type t from c, including every
// nested struct and array block it transitively points to.
//
// t supplies the field names the wire format itself never carries; its
// wire layout is derived the same way SerializeStruct's caller would
// derive it, via PackStruct, so a value serialized against one copy of
// t can always be parsed back against another structurally identical
// one.
func ParseStruct(c *Cursor, t Struct) (StructValue, error) {
	return ParseStructWithLayout(c, t.Fields, PackStruct(t.Fields))
}

// ParseStructWithLayout reads one struct block (header, inline body,
// then its nested blocks in declaration order) starting at the
// cursor's current position, against a layout already produced by
// PackStruct. Callers that parse many values against the same struct
// type should pack it once and reuse the layout, rather than calling
// ParseStruct repeatedly.
func ParseStructWithLayout(c *Cursor, fields []Field, layout StructLayout) (StructValue, error) {
	base := c.pos

	declaredSize, err := c.readUint32()
	if err != nil {
		return StructValue{}, err
	}
	if _, err := c.readUint32(); err != nil { // version, unused by this core
		return StructValue{}, err
	}

	values := make([]Value, len(fields))
	var pending []pendingPointer

	for _, ne := range layout.Elements {
		switch e := ne.Element.(type) {
		case Leaf:
			bits, err := c.readUintWidth(e.Type.Width)
			if err != nil {
				return StructValue{}, err
			}
			values[e.Ordinal] = IntValue{Width: e.Type.Width, Signed: e.Type.Signed, Bits: bits}
		case Bitfield:
			b, err := c.readUint8()
			if err != nil {
				return StructValue{}, err
			}
			for i, slot := range e.Slots {
				if slot == nil {
					break
				}
				values[*slot] = BoolValue(b&(1<<uint(i)) != 0)
			}
		case Pointer:
			if err := c.skipToAlignment(8); err != nil {
				return StructValue{}, err
			}
			ptrLoc := c.pos
			raw, err := c.readUint64()
			if err != nil {
				return StructValue{}, err
			}
			pending = append(pending, pendingPointer{ordinal: e.Ordinal, pointee: e.Pointee, ptrLoc: ptrLoc, rawOffset: raw})
		default:
			panic("wirefmt: unknown WireElement implementation")
		}
	}

	// A producer built against a newer version of this struct may have
	// appended trailing fields this layout doesn't know about; skip
	// exactly the bytes declaredSize still accounts for, unchecked,
	// rather than assuming the body ends on the next 8-byte boundary.
	consumed := c.pos - base
	if consumed > int(declaredSize) {
		return StructValue{}, &WireError{Kind: HeaderSizeMismatch,
			Detail: "struct header declared a smaller size than its known fields occupy"}
	}
	if _, err := c.take(int(declaredSize) - consumed); err != nil {
		return StructValue{}, err
	}

	if err := resolvePointers(c, pending, values); err != nil {
		return StructValue{}, err
	}

	out := make([]NamedValue, len(fields))
	for i, f := range fields {
		out[i] = NamedValue{Name: f.Name, Value: values[i]}
	}
	return StructValue{Fields: out}, nil
}

// parseArrayBody reads one array or string block starting at the
// cursor's current position, according to pointee.
func parseArrayBody(c *Cursor, pointee ArrayPointee) (Value, error) {
	base := c.pos

	declaredSize, err := c.readUint32()
	if err != nil {
		return nil, err
	}
	count, err := c.readUint32()
	if err != nil {
		return nil, err
	}
	if pointee.Kind == KindSized && int(count) != pointee.SizedLen {
		return nil, &WireError{Kind: ArraySizeMismatch,
			Detail: "on-wire element count does not match the array's declared length"}
	}

	elements := make([]Value, count)
	var pending []pendingPointer

	for i := 0; i < int(count); i++ {
		switch e := pointee.Elem.(type) {
		case Leaf:
			bits, err := c.readUintWidth(e.Type.Width)
			if err != nil {
				return nil, err
			}
			elements[i] = IntValue{Width: e.Type.Width, Signed: e.Type.Signed, Bits: bits}
		case Bitfield:
			b, err := c.readUint8()
			if err != nil {
				return nil, err
			}
			elements[i] = BoolValue(b&1 != 0)
		case Pointer:
			if err := c.skipToAlignment(8); err != nil {
				return nil, err
			}
			ptrLoc := c.pos
			raw, err := c.readUint64()
			if err != nil {
				return nil, err
			}
			pending = append(pending, pendingPointer{ordinal: i, pointee: e.Pointee, ptrLoc: ptrLoc, rawOffset: raw})
		default:
			panic("wirefmt: unknown WireElement implementation")
		}
	}

	consumed := c.pos - base
	if consumed > int(declaredSize) {
		return nil, &WireError{Kind: HeaderSizeMismatch,
			Detail: "array header declared a smaller size than its elements occupy"}
	}
	if _, err := c.take(int(declaredSize) - consumed); err != nil {
		return nil, err
	}

	if err := resolvePointers(c, pending, elements); err != nil {
		return nil, err
	}

	if pointee.Kind == KindString {
		raw := make([]byte, len(elements))
		for i, v := range elements {
			iv, ok := v.(IntValue)
			if !ok || iv.Width != 1 {
				return nil, &WireError{Kind: TypeMismatch, Ordinal: i,
					Detail: "string element is not a byte"}
			}
			raw[i] = byte(iv.Bits)
		}
		if !validUTF8(raw) {
			return nil, &WireError{Kind: InvalidUTF8, Detail: "string bytes are not valid UTF-8"}
		}
		return StringValue(string(raw)), nil
	}
	return ArrayValue{Elements: elements}, nil
}

// resolvePointers parses each pending pointee in encounter order,
// writing each result into dst at its recorded ordinal. Every pointee
// must begin exactly where the cursor already sits: nested blocks are
// written back-to-back with no gaps in the format's write order, so any
// other target is either a corrupt offset or an out-of-order pointer.
func resolvePointers(c *Cursor, pending []pendingPointer, dst []Value) error {
	for _, p := range pending {
		if p.rawOffset == 0 {
			return &WireError{Kind: PointerValueOutOfRange, Ordinal: p.ordinal,
				Detail: "null pointer is not permitted: this core defines no nullable types"}
		}
		target := p.ptrLoc + int(p.rawOffset)
		if target < p.ptrLoc || target > c.bufLen() {
			return &WireError{Kind: PointerValueOutOfRange, Ordinal: p.ordinal,
				Detail: "pointer target falls outside the buffer"}
		}
		if target != c.pos {
			return &WireError{Kind: PointerOrderOrOffsetMismatch, Ordinal: p.ordinal,
				Detail: "pointee does not begin immediately after the previous block"}
		}

		v, err := parsePointee(c, p.pointee)
		if err != nil {
			return err
		}
		dst[p.ordinal] = v
	}
	return nil
}

func parsePointee(c *Cursor, pointee PointeeType) (Value, error) {
	switch p := pointee.(type) {
	case StructPointee:
		sv, err := ParseStructWithLayout(c, p.Fields, p.Layout)
		if err != nil {
			return nil, err
		}
		return sv, nil
	case ArrayPointee:
		return parseArrayBody(c, p)
	default:
		panic("wirefmt: unknown PointeeType implementation")
	}
}
