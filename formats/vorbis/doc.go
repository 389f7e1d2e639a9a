// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams through
// github.com/jfreymuth/oggvorbis.
//
// Vorbis decodes to float natively, so frames pass through unscaled with the
// stream's own channel count and rate:
//
//	f, _ := os.Open("ambience.ogg")
//	defer f.Close()
//
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//
//	buf := make([]float32, 1024*src.Channels())
//	n, err := src.ReadFrames(buf)
//
// Only decoding is provided.
package vorbis
