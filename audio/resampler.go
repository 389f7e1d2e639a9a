// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/utils"
)

// Resampler converts a Source to another sample rate using Catmull-Rom
// interpolation over four neighbouring frames. The channel count is kept.
// When downsampling, input frames first go through a one-pole low-pass.
type Resampler struct {
	src      Source
	rate     int
	step     float64 // source frames per output frame
	channels int

	// window holds source frames t-1, t, t+1, t+2; output is interpolated
	// between window[1] and window[2] at pos.
	window [4][]float32
	pos    float64
	pad    int // trailing window frames that repeat the last real frame
	primed bool
	eof    bool

	in      []float32
	alpha   float32
	lowpass []float32
	seeded  bool
}

// NewResampler returns src converted to rate Hz.
func NewResampler(src Source, rate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:      src,
		rate:     rate,
		step:     float64(src.SampleRate()) / float64(rate),
		channels: channels,
		in:       make([]float32, channels),
		lowpass:  make([]float32, channels),
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}
	if r.step > 1 {
		r.alpha = 0.5
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("close resampler source: %w", err)
	}
	return nil
}

// readFrame reads one source frame into dst. It reports false once the
// source is exhausted; a read of zero frames without error counts as the end.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadFrames(r.in)
	if errors.Is(err, io.EOF) || (err == nil && n == 0) {
		r.eof = true
	} else if err != nil {
		return false, fmt.Errorf("resampler read: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if r.alpha > 0 {
		if !r.seeded {
			copy(r.lowpass, r.in)
			r.seeded = true
		}
		for c, v := range r.in {
			r.lowpass[c] = r.alpha*v + (1-r.alpha)*r.lowpass[c]
		}
		copy(dst, r.lowpass)
		return true, nil
	}

	copy(dst, r.in)
	return true, nil
}

func (r *Resampler) prime() error {
	ok, err := r.readFrame(r.window[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.window[0], r.window[1])

	for i := 2; i < len(r.window); i++ {
		ok, err := r.readFrame(r.window[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.window[i], r.window[i-1])
			r.pad++
		}
	}

	r.primed = true
	return nil
}

// advance shifts the window by one source frame.
func (r *Resampler) advance() error {
	oldest := r.window[0]
	copy(r.window[:3], r.window[1:])
	r.window[3] = oldest

	ok, err := r.readFrame(r.window[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.window[3], r.window[2])
		r.pad++
	}
	return nil
}

// ReadFrames writes resampled interleaved frames into dst and returns how
// many it wrote.
func (r *Resampler) ReadFrames(dst []float32) (int, error) {
	if r.channels == 0 || len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	n := 0
	for n < frames {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return n, err
			}
		}
		// window[1] is past the last real frame
		if r.pad >= 3 {
			return n, io.EOF
		}

		t := float32(r.pos)
		out := dst[n*r.channels : (n+1)*r.channels]
		for c := range out {
			out[c] = utils.CatmullRom(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], t)
		}

		n++
		r.pos += r.step
	}

	return n, nil
}
