// SPDX-License-Identifier: EPL-2.0

// Package aiff reads and writes AIFF files through github.com/go-audio/aiff.
//
// AIFF stores big-endian integer PCM. Decoding accepts 8, 16, 24 and 32-bit
// samples with any channel count and returns interleaved float32 frames in
// [-1, 1):
//
//	f, _ := os.Open("take.aif")
//	defer f.Close()
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//
// Write encodes a go-audio Float32Buffer back to 16, 24 or 32-bit PCM.
// Compressed AIFF-C files are not supported.
package aiff
