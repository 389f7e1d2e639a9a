// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"fmt"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/scoped"
)

// ProcessSampleBuffer mixes one captured buffer through an initialized engine
// and returns the result in a new SampleBuffer drawn from pool. The result is
// stamped with the engine's sample time before the mix.
//
// sb is not consumed. The result keeps sb referenced until it is released,
// since a pass-through backend leaves the output pointing at sb's memory.
// On error nothing is retained.
func ProcessSampleBuffer(e *mixer.Engine, sb *audio.SampleBuffer, pool *scoped.Pool) (*audio.SampleBuffer, error) {
	if sb == nil || sb.BufferList() == nil {
		return nil, audio.ErrNilBufferList
	}

	var src scoped.Ref[*audio.SampleBuffer]
	defer src.Close()
	src.Reset(sb.Retain())

	if !e.Ready() {
		return nil, audio.ErrUninitialized
	}
	if got := sb.Format().Channels; got != e.InputChannels() {
		return nil, fmt.Errorf("%w: buffer has %d channels, mixer takes %d", audio.ErrInvalidFormat, got, e.InputChannels())
	}
	if got := pool.Format().Channels; got != e.OutputChannels() {
		return nil, fmt.Errorf("%w: pool has %d channels, mixer makes %d", audio.ErrInvalidFormat, got, e.OutputChannels())
	}

	frames := sb.Frames()
	if frames > pool.Frames() {
		return nil, audio.ErrTooManyFramesToProcess
	}

	owned := pool.Get()
	defer owned.Close()

	out := owned.List()
	out.Reshape(pool.Format(), frames)

	pts := e.SampleTime()
	if err := e.Mix(frames, sb.BufferList(), out); err != nil {
		return nil, fmt.Errorf("mix sample buffer at %.0f: %w", pts, err)
	}

	list, free := owned.Detach()
	input := src.Take()

	return audio.NewSampleBuffer(pool.Format(), frames, pts, list, func(l *audio.BufferList) {
		free(l)
		input.Release()
	}), nil
}
