// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/backend/matrix"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/utils"
)

// DefaultBlockFrames is the render size MixSource uses when none is given.
const DefaultBlockFrames = 1024

// Crosspoint is the gain from one input channel to one output channel.
type Crosspoint struct {
	In   int
	Out  int
	Gain float32
}

func (c Crosspoint) String() string {
	return fmt.Sprintf("%d:%d=%g", c.In, c.Out, c.Gain)
}

// ParseCrosspoint parses "in:out=gain", e.g. "1:3=0.5".
func ParseCrosspoint(s string) (Crosspoint, error) {
	route, gain, ok := strings.Cut(strings.TrimSpace(s), "=")
	if !ok {
		return Crosspoint{}, fmt.Errorf("crosspoint %q: missing gain", s)
	}
	in, out, ok := strings.Cut(route, ":")
	if !ok {
		return Crosspoint{}, fmt.Errorf("crosspoint %q: want in:out=gain", s)
	}

	var c Crosspoint
	var err error
	if c.In, err = strconv.Atoi(in); err != nil {
		return Crosspoint{}, fmt.Errorf("crosspoint %q input: %w", s, err)
	}
	if c.Out, err = strconv.Atoi(out); err != nil {
		return Crosspoint{}, fmt.Errorf("crosspoint %q output: %w", s, err)
	}
	g, err := strconv.ParseFloat(gain, 32)
	if err != nil {
		return Crosspoint{}, fmt.Errorf("crosspoint %q gain: %w", s, err)
	}
	c.Gain = float32(g)

	return c, nil
}

// Matrix routes the channels of a source to Outputs output channels.
type Matrix struct {
	Outputs     int
	Crosspoints []Crosspoint

	// Exclusive silences every crosspoint not listed. Otherwise unlisted
	// crosspoints keep the backend default of unity gain.
	Exclusive bool
}

// MonoDownmix averages channels inputs into one output.
func MonoDownmix(channels int) Matrix {
	m := Matrix{Outputs: 1, Exclusive: true}
	for i := range channels {
		m.Crosspoints = append(m.Crosspoints, Crosspoint{In: i, Out: 0, Gain: 1 / float32(channels)})
	}
	return m
}

// Identity passes each of channels inputs to the output of the same index.
func Identity(channels int) Matrix {
	m := Matrix{Outputs: channels, Exclusive: true}
	for i := range channels {
		m.Crosspoints = append(m.Crosspoints, Crosspoint{In: i, Out: i, Gain: 1})
	}
	return m
}

// Apply sets the matrix gains on an initialized engine with inputs input
// channels.
func (m Matrix) Apply(e *mixer.Engine, inputs int) error {
	if m.Exclusive {
		for i := range inputs {
			for o := range m.Outputs {
				if err := e.SetCrossoverVolume(i, o, 0); err != nil {
					return fmt.Errorf("clear crosspoint %d:%d: %w", i, o, err)
				}
			}
		}
	}

	for _, c := range m.Crosspoints {
		if err := e.SetCrossoverVolume(c.In, c.Out, c.Gain); err != nil {
			return fmt.Errorf("crosspoint %s: %w", c, err)
		}
	}

	return nil
}

// MixSource reads src to the end and mixes it through m, block frames per
// render. Each block read from src is handed to the mixer without copying.
// The result holds m.Outputs interleaved channels at the source rate.
//
// A failed teardown of the mixer is reported like any other error.
func MixSource(src audio.Source, m Matrix, block int, opts ...mixer.Option) (mixed *goaudio.Float32Buffer, err error) {
	if block <= 0 {
		block = DefaultBlockFrames
	}
	block = min(block, matrix.DefaultMaxFrames)

	if src.Channels() <= 0 || m.Outputs <= 0 {
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", audio.ErrInvalidFormat, src.Channels(), m.Outputs)
	}

	in := audio.SourceFormat(src)
	out := in
	out.Channels = uint32(m.Outputs)

	e := mixer.New(opts...)
	if err := e.Initialize(in, out); err != nil {
		// a backend may already be held
		_ = e.Uninitialize()
		return nil, fmt.Errorf("initialize mixer: %w", err)
	}
	defer func() {
		if uerr := e.Uninitialize(); uerr != nil {
			mixed, err = nil, errors.Join(err, fmt.Errorf("uninitialize mixer: %w", uerr))
		}
	}()

	if err := m.Apply(e, src.Channels()); err != nil {
		return nil, err
	}

	samples := make([]float32, block*src.Channels())
	inList := &audio.BufferList{Buffers: []audio.Buffer{{NumberChannels: in.ChannelsPerBuffer()}}}
	outList := audio.NewBufferList(out, uint32(block))

	result := &goaudio.Float32Buffer{
		Format:         out.GoAudioFormat(),
		SourceBitDepth: 32,
	}

	for {
		n, err := src.ReadFrames(samples)
		if n > 0 {
			frames := uint32(n)
			size := in.BufferBytes(frames)

			inList.Buffers[0].DataByteSize = size
			inList.Buffers[0].Data = utils.Float32Bytes(samples)[:size]
			outList.Reshape(out, frames)

			if err := e.Mix(frames, inList, outList); err != nil {
				return nil, fmt.Errorf("mix at frame %.0f: %w", e.SampleTime(), err)
			}
			result.Data = append(result.Data, outList.Buffers[0].Float32s()...)
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		if n == 0 {
			return nil, io.ErrNoProgress
		}
	}

	return result, nil
}
