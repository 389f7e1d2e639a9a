// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts the integer PCM readers of go-audio to audio.Source.
package pcm

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

// Reader is the part of the go-audio wav and aiff decoders a Source reads from.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts integer samples from a Reader to float32 frames.
type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	bitDepth   int
	// 8-bit WAV data is stored with a 128 offset
	unsigned8 bool
	buf       *goaudio.IntBuffer
	eof       bool
}

// NewSource wraps dec. unsigned8 selects offset binary for 8-bit data.
func NewSource(dec Reader, sampleRate, channels, bitDepth int, unsigned8 bool) *Source {
	return &Source{
		dec:        dec,
		sampleRate: sampleRate,
		channels:   channels,
		bitDepth:   bitDepth,
		unsigned8:  unsigned8,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BitDepth() int   { return s.bitDepth }
func (s *Source) Close() error    { return nil }

func (s *Source) ReadFrames(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if s.eof {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	// a trailing partial frame only shows up in truncated files
	frames := n / s.channels
	for i, v := range s.buf.Data[:frames*s.channels] {
		dst[i] = s.sample(v)
	}

	switch {
	case err != nil && err != io.EOF:
		return frames, fmt.Errorf("read pcm: %w", err)
	case err == io.EOF || n < len(dst):
		s.eof = true
		return frames, io.EOF
	}

	return frames, nil
}

func (s *Source) sample(v int) float32 {
	if s.bitDepth == 8 {
		if s.unsigned8 {
			v -= 128
		} else {
			v = int(int8(uint8(v)))
		}
	}

	return utils.IntToFloat32(v, s.bitDepth)
}

// ReadSeeker returns r itself when it can seek, otherwise its whole content
// in memory. The go-audio decoders need to seek between chunks.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffer input: %w", err)
	}

	return bytes.NewReader(data), nil
}

// IntBuffer converts interleaved float32 samples to a go-audio IntBuffer of
// bitDepth bits, ready for the go-audio encoders.
func IntBuffer(buf *goaudio.Float32Buffer, bitDepth int) *goaudio.IntBuffer {
	out := &goaudio.IntBuffer{
		Format:         buf.Format,
		Data:           make([]int, len(buf.Data)),
		SourceBitDepth: bitDepth,
	}
	for i, v := range buf.Data {
		out.Data[i] = utils.Float32ToInt(v, bitDepth)
	}

	return out
}

// ValidBitDepth reports whether the encoders can write bitDepth.
func ValidBitDepth(bitDepth int) bool {
	switch bitDepth {
	case 16, 24, 32:
		return true
	}
	return false
}
