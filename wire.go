// Copyright ©2026 The wirefmt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wirefmt

import "fmt"

// WireElement is one element of a packed struct's layout: a Leaf, a
// Bitfield, or a Pointer. The concrete implementations mirror the three
// rows of the wire element table in the format's design: each knows its
// own wire Size and Alignment.
type WireElement interface {
	isWireElement()
	// Size is this element's on-wire size in bytes.
	Size() int
	// Alignment is this element's required byte alignment, always equal
	// to Size for every WireElement in this format.
	Alignment() int
	String() string
}

// Leaf is a single scalar value encoded directly at its location, with
// no further structure.
type Leaf struct {
	Ordinal FieldOrdinal
	Type    Int
}

func (Leaf) isWireElement() {}
func (l Leaf) Size() int      { return l.Type.Width }
func (l Leaf) Alignment() int { return l.Type.Width }
func (l Leaf) String() string { return fmt.Sprintf("Leaf{ord=%d, %s}", l.Ordinal, l.Type) }

// BitfieldSlots holds up to eight optional field ordinals, one per bit
// of a Bitfield byte, LSB first. Invariant: the Some (non-nil) entries
// form a contiguous prefix; there are no gaps.
type BitfieldSlots [8]*FieldOrdinal

// Bitfield packs up to eight booleans into a single wire byte. Slots[i]
// is non-nil when bit i of the byte belongs to the field with that
// ordinal.
type Bitfield struct {
	Slots BitfieldSlots
}

func (Bitfield) isWireElement() {}
func (Bitfield) Size() int      { return 1 }
func (Bitfield) Alignment() int { return 1 }

func (b Bitfield) String() string {
	ords := make([]string, 0, 8)
	for _, s := range b.Slots {
		if s == nil {
			break
		}
		ords = append(ords, fmt.Sprintf("%d", *s))
	}
	return fmt.Sprintf("Bitfield{%v}", ords)
}

// firstEmptySlot returns the index of the first nil slot, or -1 if the
// bitfield is full.
func (b *Bitfield) firstEmptySlot() int {
	for i, s := range b.Slots {
		if s == nil {
			return i
		}
	}
	return -1
}

// tryPackBool places ord in the bitfield's first empty slot and reports
// whether there was room.
func (b *Bitfield) tryPackBool(ord FieldOrdinal) bool {
	i := b.firstEmptySlot()
	if i < 0 {
		return false
	}
	o := ord
	b.Slots[i] = &o
	return true
}

// ArrayKind distinguishes the three origins of a wire-level array block:
// an unsized array, a sized array of a fixed declared length, or a
// string (always an array of UInt8 under the hood).
type ArrayKind int

const (
	// KindUnsized is an array with no fixed declared length.
	KindUnsized ArrayKind = iota
	// KindSized is an array with a fixed declared length, carried in
	// SizedLen.
	KindSized
	// KindString is a string, packed identically to Array{Elem: UInt8}.
	KindString
)

func (k ArrayKind) String() string {
	switch k {
	case KindUnsized:
		return "unsized"
	case KindSized:
		return "sized"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// PointeeType is the structured data a Pointer wire element refers to:
// either a nested struct's layout, or an array's element layout and
// kind.
type PointeeType interface {
	isPointeeType()
	String() string
}

// StructPointee is a Pointer's pointee when it refers to a nested
// struct. Fields carries the nested struct's declared field names,
// parallel to Layout's ordinals: the wire layout itself never encodes
// names, so the deserializer recovers them from here rather than from
// the byte stream.
type StructPointee struct {
	Layout StructLayout
	Fields []Field
}

func (StructPointee) isPointeeType()  {}
func (p StructPointee) String() string { return fmt.Sprintf("struct%s", p.Layout) }

// ArrayPointee is a Pointer's pointee when it refers to an array or
// string.
type ArrayPointee struct {
	Elem     WireElement
	Kind     ArrayKind
	SizedLen int // meaningful only when Kind == KindSized
}

func (ArrayPointee) isPointeeType() {}

func (p ArrayPointee) String() string {
	if p.Kind == KindSized {
		return fmt.Sprintf("array[%d]{%s}", p.SizedLen, p.Elem)
	}
	return fmt.Sprintf("array(%s){%s}", p.Kind, p.Elem)
}

// Pointer is a 64-bit out-of-line reference to a struct or array that
// appears later in the byte stream.
type Pointer struct {
	Ordinal FieldOrdinal
	Pointee PointeeType
}

func (Pointer) isWireElement() {}
func (Pointer) Size() int      { return 8 }
func (Pointer) Alignment() int { return 8 }

func (p Pointer) String() string { return fmt.Sprintf("Pointer{ord=%d, %s}", p.Ordinal, p.Pointee) }

// NamedElement pairs a WireElement with the name of the source field it
// was packed from.
type NamedElement struct {
	Name    string
	Element WireElement
}

// StructLayout is the wire layout produced by packing a struct type: an
// ordered sequence of wire elements, laid out by packing. Neither the
// element offsets nor the inline body size are stored; inlineSize
// recomputes the size from the element order.
//
// StructLayout is immutable once constructed, and is safe to share and
// read concurrently across serialize/parse calls.
type StructLayout struct {
	Elements []NamedElement
}

func (l StructLayout) String() string { return fmt.Sprintf("{%d elements}", len(l.Elements)) }

// MaxOrdinal returns the highest field ordinal referenced anywhere in
// the layout (inside a Bitfield slot, or as a Leaf/Pointer ordinal).
func (l StructLayout) MaxOrdinal() FieldOrdinal {
	max := 0
	for _, e := range l.Elements {
		switch w := e.Element.(type) {
		case Leaf:
			if w.Ordinal > max {
				max = w.Ordinal
			}
		case Pointer:
			if w.Ordinal > max {
				max = w.Ordinal
			}
		case Bitfield:
			for _, s := range w.Slots {
				if s == nil {
					break
				}
				if *s > max {
					max = *s
				}
			}
		}
	}
	return max
}

// inlineSize returns the end offset of the last packed element, i.e.
// the unpadded inline body length before the struct header is added and
// the body is rounded up to 8 bytes. It is recomputed from the packed
// offsets rather than stored, since StructLayout itself does not carry
// explicit offsets (they're implicit in packing order plus alignment).
func (l StructLayout) inlineSize() int {
	offset := 0
	for _, e := range l.Elements {
		offset += bytesToAlign(offset, e.Element.Alignment())
		offset += e.Element.Size()
	}
	return offset
}
