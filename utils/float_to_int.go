// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 clamps x to [-1, 1] and scales it to the int16 range.
func Float32ToInt16(x float32) int16 {
	return int16(Float32ToInt(x, 16))
}

// Float32ToInt clamps x to [-1, 1] and scales it to a signed integer of
// bitDepth bits. -1 maps to the most negative value, 1 to the most positive.
func Float32ToInt(x float32, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	scale := fullScale(bitDepth)
	if x < 0 {
		return int(float64(x) * scale)
	}

	return int(float64(x) * (scale - 1))
}

// IntToFloat32 normalizes a signed PCM sample of bitDepth bits to [-1, 1).
func IntToFloat32(v int, bitDepth int) float32 {
	return float32(float64(v) / fullScale(bitDepth))
}

// fullScale returns 2^(bitDepth-1); unknown depths are treated as 16-bit.
func fullScale(bitDepth int) float64 {
	if bitDepth < 8 || bitDepth > 32 {
		bitDepth = 16
	}

	return float64(uint64(1) << (bitDepth - 1))
}
