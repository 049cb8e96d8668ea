// Copyright ©2026 The wirefmt Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wirefmt

// bytesToAlign returns the number of bytes that must be skipped from
// offset to reach the next position that is a multiple of alignment.
// alignment must be a power of two.
func bytesToAlign(offset, alignment int) int {
	return (alignment - (offset % alignment)) % alignment
}

// alignUp rounds offset up to the nearest multiple of alignment.
func alignUp(offset, alignment int) int {
	return offset + bytesToAlign(offset, alignment)
}
