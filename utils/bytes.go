// SPDX-License-Identifier: EPL-2.0

package utils

import "unsafe"

// The views below reinterpret memory in place. They never copy, so writes
// through one view are visible through the other. Byte slices must come from
// an allocation aligned for the element type (any make([]byte) of at least
// the element size, or a view produced by these functions).

// Float32Bytes returns the bytes backing s.
func Float32Bytes(s []float32) []byte {
	if len(s) == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*4)
}

// BytesFloat32 returns b as float32 samples. Trailing bytes that do not form
// a whole sample are not part of the view.
func BytesFloat32(b []byte) []float32 {
	if len(b) < 4 {
		return nil
	}

	return unsafe.Slice((*float32)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/4)
}

// Int16Bytes returns the bytes backing s.
func Int16Bytes(s []int16) []byte {
	if len(s) == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*2)
}

// BytesInt16 returns b as int16 samples.
func BytesInt16(b []byte) []int16 {
	if len(b) < 2 {
		return nil
	}

	return unsafe.Slice((*int16)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/2)
}
