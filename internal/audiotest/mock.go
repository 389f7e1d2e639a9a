// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds sources, backends and buffer helpers shared by
// the tests of the other packages.
package audiotest

import (
	"io"
	"math"
)

// Waveform gives the value of one channel at one frame index.
type Waveform func(frame, channel int) float32

// MockSource is an audio.Source that renders a Waveform for a fixed number
// of frames.
type MockSource struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     Waveform
}

// NewMockSource returns a source of frames frames computed by wave.
func NewMockSource(sampleRate, channels, frames int, wave Waveform) *MockSource {
	return &MockSource{
		rate:     sampleRate,
		channels: channels,
		frames:   frames,
		wave:     wave,
	}
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

// NewSineSource plays the same sine of frequency Hz on every channel.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	w := 2 * math.Pi * frequency / float64(sampleRate)
	return NewMockSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(w * float64(frame)))
	})
}

func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

// NewRampSource encodes position in the value: frame index plus channel/10.
// Routing and ordering mistakes show up as wrong numbers.
func NewRampSource(sampleRate, channels, frames int) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(frame, channel int) float32 {
		return float32(frame) + float32(channel)/10
	})
}

func (m *MockSource) SampleRate() int { return m.rate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) Close() error    { return nil }

// Reset rewinds to the first frame.
func (m *MockSource) Reset() { m.pos = 0 }

func (m *MockSource) ReadFrames(dst []float32) (int, error) {
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.pos)
	for f := range n {
		frame := dst[f*m.channels : (f+1)*m.channels]
		for ch := range frame {
			frame[ch] = m.wave(m.pos+f, ch)
		}
	}
	m.pos += n

	if m.pos == m.frames {
		return n, io.EOF
	}
	return n, nil
}
