// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"

	goaudio "github.com/go-audio/audio"
)

// Encoding is the sample encoding of a stream. Samples are native-endian.
type Encoding uint8

const (
	EncodingUnknown Encoding = iota
	EncodingFloat32
	EncodingInt16
)

func (e Encoding) String() string {
	switch e {
	case EncodingFloat32:
		return "float32"
	case EncodingInt16:
		return "int16"
	}
	return "unknown"
}

// BytesPerSample returns the size of one sample, or 0 for unknown encodings.
func (e Encoding) BytesPerSample() uint32 {
	switch e {
	case EncodingFloat32:
		return 4
	case EncodingInt16:
		return 2
	}
	return 0
}

// StreamFormat describes one side of the mixer. It is negotiated outside the
// engine and treated as immutable once handed in.
type StreamFormat struct {
	SampleRate float64
	Channels   uint32
	Encoding   Encoding

	// NonInterleaved streams carry one single-channel buffer per channel.
	// Interleaved streams carry one buffer holding every channel.
	NonInterleaved bool
}

// Validate reports whether f can describe a stream at all. It does not check
// whether a particular backend supports it.
func (f StreamFormat) Validate() error {
	switch {
	case f.Channels == 0:
		return fmt.Errorf("%w: zero channels", ErrInvalidFormat)
	case f.Channels > math.MaxUint16:
		return fmt.Errorf("%w: %d channels", ErrInvalidFormat, f.Channels)
	case math.IsNaN(f.SampleRate) || math.IsInf(f.SampleRate, 0) || f.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %v", ErrInvalidFormat, f.SampleRate)
	case f.Encoding.BytesPerSample() == 0:
		return fmt.Errorf("%w: encoding %s", ErrInvalidFormat, f.Encoding)
	}

	return nil
}

// BytesPerSample is the size of a single sample of one channel.
func (f StreamFormat) BytesPerSample() uint32 { return f.Encoding.BytesPerSample() }

// BufferCount is the number of buffers a BufferList for f holds.
func (f StreamFormat) BufferCount() uint32 {
	if f.NonInterleaved {
		return f.Channels
	}
	return 1
}

// ChannelsPerBuffer is the channel count of each buffer of a BufferList for f.
func (f StreamFormat) ChannelsPerBuffer() uint32 {
	if f.NonInterleaved {
		return 1
	}
	return f.Channels
}

// BytesPerFrame is the size of one frame within a single buffer.
func (f StreamFormat) BytesPerFrame() uint32 {
	return f.ChannelsPerBuffer() * f.BytesPerSample()
}

// BufferBytes is the byte size of each buffer holding frames frames.
func (f StreamFormat) BufferBytes(frames uint32) uint32 {
	return frames * f.BytesPerFrame()
}

// GoAudioFormat converts f for use with the go-audio codecs.
func (f StreamFormat) GoAudioFormat() *goaudio.Format {
	return &goaudio.Format{
		NumChannels: int(f.Channels),
		SampleRate:  int(f.SampleRate),
	}
}

func (f StreamFormat) String() string {
	layout := "interleaved"
	if f.NonInterleaved {
		layout = "non-interleaved"
	}

	return fmt.Sprintf("%gHz %dch %s %s", f.SampleRate, f.Channels, f.Encoding, layout)
}
