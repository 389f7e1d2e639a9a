// SPDX-License-Identifier: EPL-2.0

// Package resample converts the sample rate of an audio.Source with the
// windowed-sinc filter of github.com/oov/audio.
//
// audio.Resampler interpolates four points and is cheap; this one trades
// CPU for a flat passband and proper anti-aliasing. Quality runs from 0
// (fastest) to 10 (best).
package resample

import (
	"errors"
	"fmt"
	"io"

	"github.com/oov/audio/resampler"

	"github.com/ik5/audmix/audio"
)

const (
	MinQuality     = 0
	MaxQuality     = 10
	DefaultQuality = 10

	// block is the number of input frames pulled from the source at once.
	block = 1024
)

var ErrInvalidQuality = errors.New("resample quality must be between 0 and 10")

// Source is an audio.Source running at a new rate.
type Source struct {
	src      audio.Source
	r        *resampler.Resampler
	rate     int
	channels int

	in      []float32   // interleaved frames read from src
	planes  [][]float32 // per-channel input not yet consumed
	out     [][]float32 // per-channel output scratch
	pending int         // frames waiting in planes
	eof     bool
}

// New resamples src to rate. Closing the Source closes src.
func New(src audio.Source, rate, quality int) (*Source, error) {
	if quality < MinQuality || quality > MaxQuality {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, quality)
	}
	if rate <= 0 || src.Channels() <= 0 {
		return nil, audio.ErrInvalidFormat
	}

	ch := src.Channels()
	s := &Source{
		src:      src,
		r:        resampler.New(ch, src.SampleRate(), rate, quality),
		rate:     rate,
		channels: ch,
		in:       make([]float32, block*ch),
		planes:   make([][]float32, ch),
		out:      make([][]float32, ch),
	}
	for c := range ch {
		s.planes[c] = make([]float32, block)
	}

	return s, nil
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }

func (s *Source) Close() error {
	if err := s.src.Close(); err != nil {
		return fmt.Errorf("close resample source: %w", err)
	}
	return nil
}

// fill reads the next block from the source into the channel planes.
func (s *Source) fill() error {
	n, err := s.src.ReadFrames(s.in)
	for f := range n {
		for c, plane := range s.planes {
			plane[f] = s.in[f*s.channels+c]
		}
	}
	s.pending = n

	switch {
	case errors.Is(err, io.EOF):
		s.eof = true
	case err != nil:
		return err
	case n == 0:
		return io.ErrNoProgress
	}

	return nil
}

func (s *Source) ReadFrames(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	want := len(dst) / s.channels
	if want == 0 {
		return 0, nil
	}

	for c := range s.out {
		if cap(s.out[c]) < want {
			s.out[c] = make([]float32, want)
		}
		s.out[c] = s.out[c][:want]
	}

	for {
		if s.pending == 0 {
			if s.eof {
				return 0, io.EOF
			}
			if err := s.fill(); err != nil {
				return 0, err
			}
			continue
		}

		var read, written int
		for c := range s.channels {
			read, written = s.r.ProcessFloat32(c, s.planes[c][:s.pending], s.out[c])
		}
		for c := range s.channels {
			copy(s.planes[c], s.planes[c][read:s.pending])
		}
		s.pending -= read

		for f := range written {
			for c := range s.channels {
				dst[f*s.channels+c] = s.out[c][f]
			}
		}
		if written > 0 {
			return written, nil
		}
		if read == 0 {
			return 0, io.ErrNoProgress
		}
	}
}
