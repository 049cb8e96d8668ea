// Copyright ©2026 The wirefmt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wirefmt packs, serializes, and deserializes nominally typed
// struct values according to a binary interface-definition wire format
// used for interprocess communication.
//
// The format lays out fixed struct fields as little-endian byte
// sequences with strict alignment, an 8-byte header, and out-of-line
// pointers for nested structs, arrays, and strings. See PackStruct,
// SerializeStruct, and ParseStruct for the three core operations.
package wirefmt
