// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/jfreymuth/oggvorbis"
)

var ErrNotVorbisFile = errors.New("not an Ogg Vorbis stream")

// oggReader is the part of oggvorbis.Reader the source needs.
type oggReader interface {
	SampleRate() int
	Channels() int
	// Read fills p with interleaved samples and returns how many it wrote.
	Read(p []float32) (int, error)
}

type source struct {
	dec      oggReader
	channels int
	// samples of a split frame carried over from the previous read
	carry []float32
	eof   bool
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadFrames(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if s.eof {
		return 0, io.EOF
	}

	have := copy(dst, s.carry)
	s.carry = s.carry[:0]

	var err error
	for have < len(dst) && err == nil {
		var n int
		n, err = s.dec.Read(dst[have:])
		have += n
		if n == 0 && err == nil {
			err = io.ErrNoProgress
		}
	}

	frames := have / s.channels
	s.carry = append(s.carry, dst[frames*s.channels:have]...)

	switch err {
	case nil:
		return frames, nil
	case io.EOF:
		s.eof = true
		return frames, io.EOF
	default:
		return frames, fmt.Errorf("decode vorbis: %w", err)
	}
}

type Decoder struct{}

// Decode reads the Vorbis identification and setup headers of r.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}
	if dec.Channels() <= 0 {
		return nil, ErrNotVorbisFile
	}

	return &source{dec: dec, channels: dec.Channels()}, nil
}
