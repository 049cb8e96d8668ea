// Copyright ©2026 The wirefmt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wirefmt

import (
	"io"

	"github.com/kortschak/utter"
)

// DumpValue writes a deep, deterministic, human-readable rendering of v
// to w, recursing into StructValue and ArrayValue fields. It exists for
// tests and debugging: comparing two dumps catches structural
// differences that a %v or %s rendering of Value.String() would hide
// (e.g. two IntValues of different Width holding the same Bits).
func DumpValue(w io.Writer, v Value) {
	utter.Fdump(w, v)
}

// DumpLayout writes a deep rendering of a StructLayout, useful when a
// test needs to assert on the exact shape PackStruct produced rather
// than just its inline size.
func DumpLayout(w io.Writer, l StructLayout) {
	utter.Fdump(w, l)
}
