// SPDX-License-Identifier: EPL-2.0

// Package audmix mixes multichannel audio through a full input x output gain
// matrix.
//
// The real-time core lives in the mixer package: an Engine drives a matrix
// mixing backend, hands it caller buffers without copying, and keeps a sample
// clock. This package adds the conveniences built on top of it.
//
// # Mixing a whole source
//
// MixSource streams a decoded file through a fresh engine:
//
//	src, _ := formats.Open(formats.Decoders, "speech.wav")
//	defer src.Close()
//
//	// average every channel into mono
//	mixed, err := audmix.MixSource(src, audmix.MonoDownmix(src.Channels()), 0)
//
// A Matrix lists crosspoints by input and output channel:
//
//	m := audmix.Matrix{
//	    Outputs: 4,
//	    Crosspoints: []audmix.Crosspoint{
//	        {In: 0, Out: 0, Gain: 0.5},
//	        {In: 1, Out: 3, Gain: 1},
//	    },
//	}
//
// Unlisted crosspoints stay at unity unless Exclusive is set.
//
// # Processing captured buffers
//
// ProcessSampleBuffer mixes one reference-counted SampleBuffer through an
// engine the caller keeps initialized, drawing output memory from a
// scoped.Pool:
//
//	pool := scoped.NewPool(outFormat, 4096)
//	out, err := audmix.ProcessSampleBuffer(engine, captured, pool)
//	if err != nil {
//	    return err
//	}
//	defer out.Release()
//
// # Formats
//
// Decoders for WAV, AIFF, MP3 and Ogg Vorbis live under formats/. The
// audmix command in cmd/audmix ties decoding, mixing and WAV output together.
package audmix
