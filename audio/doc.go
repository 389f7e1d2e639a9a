// SPDX-License-Identifier: EPL-2.0

// Package audio provides the data types shared by the mixer, its backends and
// the format decoders.
//
// # Stream formats and buffer lists
//
// A StreamFormat describes one side of a mixer: sample rate, channel count,
// sample encoding and layout. An interleaved stream travels in one Buffer
// holding every channel; a non-interleaved stream uses one single-channel
// Buffer per channel.
//
//	f := audio.StreamFormat{SampleRate: 48000, Channels: 2, Encoding: audio.EncodingFloat32, NonInterleaved: true}
//	list := audio.NewBufferList(f, 512) // two buffers of 512 float32 samples
//
// A Buffer never owns its Data. Assigning Data from another Buffer aliases
// the memory, which is how input reaches a backend without a copy.
// NewBufferListShape builds a list with the right shape and no memory for
// exactly that purpose.
//
// # Status codes
//
// Backend and engine operations return a Status on failure. Status values
// are plain comparable errors:
//
//	if err := engine.Mix(n, in, out); err == audio.ErrParam {
//	    // buffer shapes disagree
//	}
//
// StatusOf maps any error back to a numeric code for hosts that need one.
//
// # Sample buffers
//
// SampleBuffer is a reference-counted block of audio with a presentation
// time. The memory is freed when the last reference is released.
//
// # Sources
//
// Source is a pull-based stream of interleaved float32 frames in [-1, 1]:
//
//	buf := make([]float32, 1024*src.Channels())
//	for {
//	    n, err := src.ReadFrames(buf)
//	    process(buf[:n*src.Channels()])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// Decoders for file formats register with a Registry by extension.
// Resampler converts a Source to another sample rate.
package audio
