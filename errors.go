// Copyright ©2026 The wirefmt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wirefmt

import "fmt"

// ErrorKind classifies the recoverable failure modes the serializer and
// deserializer can report. It never grows from a failed type assertion
// or a bug; all of these are conditions the format itself defines.
type ErrorKind int

const (
	// OrdinalOutOfRange: a wire element references an ordinal beyond
	// the supplied value's field count.
	OrdinalOutOfRange ErrorKind = iota
	// TypeMismatch: the runtime value's shape does not match the wire
	// element it was asked to fill (e.g. a bitfield slot pointing at a
	// non-boolean, or a pointer whose pointee is a Struct but the value
	// is an Array).
	TypeMismatch
	// HeaderSizeMismatch: the deserializer consumed more bytes than the
	// struct or array header declared.
	HeaderSizeMismatch
	// PointerOrderOrOffsetMismatch: a pending pointee's observed offset
	// differs from its declared offset, or nested blocks appear out of
	// declaration order.
	PointerOrderOrOffsetMismatch
	// PointerValueOutOfRange: a parsed pointer offset does not address
	// a valid location (including the reserved null value 0, which this
	// core's type system never expects, having no nullable types yet).
	PointerValueOutOfRange
	// UnexpectedEndOfInput: the cursor advanced past the end of the
	// buffer.
	UnexpectedEndOfInput
	// Unsupported: a branch of the format this core does not implement.
	Unsupported
	// ArraySizeMismatch: a sized array's value, or its on-wire
	// element_count, does not match its declared length.
	ArraySizeMismatch
	// InvalidUTF8: a string pointee's bytes are not valid UTF-8.
	InvalidUTF8
)

func (k ErrorKind) String() string {
	switch k {
	case OrdinalOutOfRange:
		return "ordinal out of range"
	case TypeMismatch:
		return "type mismatch"
	case HeaderSizeMismatch:
		return "header size mismatch"
	case PointerOrderOrOffsetMismatch:
		return "pointer order or offset mismatch"
	case PointerValueOutOfRange:
		return "pointer value out of range"
	case UnexpectedEndOfInput:
		return "unexpected end of input"
	case Unsupported:
		return "unsupported"
	case ArraySizeMismatch:
		return "array size mismatch"
	case InvalidUTF8:
		return "invalid utf-8"
	default:
		return "unknown wire error"
	}
}

// WireError is the single concrete error type the serializer and
// deserializer return. Field and Ordinal are populated when the
// failure can be attributed to a specific struct field; they are the
// zero value otherwise.
type WireError struct {
	Kind    ErrorKind
	Field   string
	Ordinal FieldOrdinal
	// Detail, when non-empty, supplies kind-specific context (e.g. the
	// expected vs. observed offset).
	Detail string
	// Err wraps an underlying cause, if any.
	Err error
}

func (e *WireError) Error() string {
	msg := e.Kind.String()
	if e.Field != "" {
		msg = fmt.Sprintf("%s: field %q (ordinal %d)", msg, e.Field, e.Ordinal)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *WireError) Unwrap() error { return e.Err }

// Is reports whether target is a *WireError with the same Kind,
// allowing callers to use errors.Is(err, &WireError{Kind: ...}).
func (e *WireError) Is(target error) bool {
	t, ok := target.(*WireError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
