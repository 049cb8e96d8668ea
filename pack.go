// Copyright ©2026 The wirefmt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wirefmt

// packedField tracks a single already-packed element during struct
// packing: the element itself, together with the byte offsets it
// occupies. Offsets are only needed transiently while packing; once
// packing finishes, a StructLayout only keeps the elements in order,
// since their offsets are always reproducible by replaying alignment
// arithmetic over that order (see StructLayout.inlineSize).
type packedField struct {
	name        string
	element     WireElement
	startOffset int
	endOffset   int
}

// PackType returns the WireElement that a value of NominalType t packs
// to when it occupies FieldOrdinal ordinal in its declaring struct.
// Scalars map to Leaf (or Bitfield, for Bool); String and Array map to
// Pointer{Array}; Struct maps to Pointer{Struct}, recursively packing
// its own fields.
//
// PackType is a pure function: it has no hidden state and the same
// (t, ordinal) always produces the same WireElement.
func PackType(t NominalType, ordinal FieldOrdinal) WireElement {
	switch v := t.(type) {
	case Bool:
		ord := ordinal
		return Bitfield{Slots: BitfieldSlots{0: &ord}}
	case Int:
		return Leaf{Ordinal: ordinal, Type: v}
	case Str:
		return Pointer{
			Ordinal: ordinal,
			Pointee: ArrayPointee{Elem: PackType(UInt8Type, 0), Kind: KindString},
		}
	case Array:
		kind := KindUnsized
		n := 0
		if v.Length != nil {
			kind = KindSized
			n = *v.Length
		}
		return Pointer{
			Ordinal: ordinal,
			Pointee: ArrayPointee{Elem: PackType(v.Elem, 0), Kind: kind, SizedLen: n},
		}
	case Struct:
		return Pointer{
			Ordinal: ordinal,
			Pointee: StructPointee{Layout: PackStruct(v.Fields), Fields: v.Fields},
		}
	default:
		panic("wirefmt: unknown NominalType implementation")
	}
}

// PackStruct packs the fields of a struct type into their wire layout,
// following the format's canonical packing algorithm: fields are
// processed in declaration order, each one either reusing a padding
// hole opened by an earlier field (backward placement) or appended
// after the last placed element, with up to eight booleans opportunistically
// sharing a single Bitfield byte.
//
// Placement never reorders fields to minimize padding globally; it only
// reuses holes that already exist by the time a field is reached. This
// keeps layouts bit-for-bit compatible with the format's reference
// packer.
func PackStruct(fields []Field) StructLayout {
	var packed []packedField

	for ordinal, f := range fields {
		_, isBool := f.Type.(Bool)
		element := PackType(f.Type, ordinal)
		size := element.Size()

		if isBool && packBoolIntoExisting(packed, ordinal) {
			continue
		}

		if placed := tryPlaceInHole(&packed, f.Name, element, size); placed {
			continue
		}

		packed = appendField(packed, f.Name, element, size)
	}

	elements := make([]NamedElement, len(packed))
	for i, p := range packed {
		elements[i] = NamedElement{Name: p.name, Element: p.element}
	}
	return StructLayout{Elements: elements}
}

// packBoolIntoExisting tries to place ord into the first existing
// Bitfield (scanning front to back) that still has a free slot. It
// fills a copy of that Bitfield and stores the copy back into packed[i],
// matching the
// reference packer's "try every pair, and the last element" sweep: here
// we simplify to a single forward scan over all packed elements, which
// is equivalent since a Bitfield's fullness never regresses while later
// fields are packed in declaration order.
func packBoolIntoExisting(packed []packedField, ordinal FieldOrdinal) bool {
	for i := range packed {
		if bf, ok := packed[i].element.(Bitfield); ok {
			if bf.tryPackBool(ordinal) {
				packed[i].element = bf
				return true
			}
		}
	}
	return false
}

// tryPlaceInHole scans adjacent pairs of already-packed elements for a
// gap large enough (once aligned) to hold element, and inserts it there
// if found. It returns true if element was placed.
func tryPlaceInHole(packed *[]packedField, name string, element WireElement, size int) bool {
	list := *packed
	for i := 1; i < len(list); i++ {
		holeStart := list[i-1].endOffset
		holeEnd := list[i].startOffset
		alignedStart := holeStart + bytesToAlign(holeStart, size)
		if alignedStart+size <= holeEnd {
			pf := packedField{name: name, element: element, startOffset: alignedStart, endOffset: alignedStart + size}
			newList := make([]packedField, 0, len(list)+1)
			newList = append(newList, list[:i]...)
			newList = append(newList, pf)
			newList = append(newList, list[i:]...)
			*packed = newList
			return true
		}
	}
	return false
}

// appendField places element after the last packed element (or at
// offset 0 if packed is empty), aligned to its own size, and returns
// the updated slice.
func appendField(packed []packedField, name string, element WireElement, size int) []packedField {
	totalLength := 0
	if n := len(packed); n > 0 {
		totalLength = packed[n-1].endOffset
	}
	start := totalLength + bytesToAlign(totalLength, size)
	return append(packed, packedField{name: name, element: element, startOffset: start, endOffset: start + size})
}
