// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/backend"
)

// pullContext is the per-call state the supply routine reads. input is a
// non-owning reference, set by Mix right before rendering and cleared right
// after.
type pullContext struct {
	input *audio.BufferList
}

// Engine drives one matrix-mixing backend. It applies a full input x output
// gain matrix to caller-supplied buffers and keeps a sample clock across
// render calls.
//
// Mix runs on the render goroutine and never blocks or allocates.
// SetCrossoverVolume may be called from a control goroutine at the same time.
// Initialize and Uninitialize must not overlap with Mix, and Mix must not
// overlap with itself.
type Engine struct {
	id       uuid.UUID
	logger   *slog.Logger
	registry *backend.Registry
	desc     backend.Description

	unit  backend.Backend
	ready bool

	inputChannels  uint32
	outputChannels uint32

	sampleTime float64
	stamp      audio.TimeStamp
	pull       pullContext
}

// New returns an uninitialized engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:       uuid.New(),
		registry: backend.Default,
		desc:     backend.MatrixMixer,
	}
	e.logger = slog.Default()
	for _, opt := range opts {
		opt.apply(e)
	}
	e.logger = e.logger.With("mixer", e.id)

	return e
}

// ID returns the identifier attached to the engine's log records.
func (e *Engine) ID() uuid.UUID { return e.id }

// Ready reports whether Initialize completed successfully and Uninitialize
// has not been called since.
func (e *Engine) Ready() bool { return e.ready }

// SampleTime returns the number of frames rendered so far.
func (e *Engine) SampleTime() float64 { return e.sampleTime }

// InputChannels returns the channel count recorded from the input format.
func (e *Engine) InputChannels() uint32 { return e.inputChannels }

// OutputChannels returns the channel count recorded from the output format.
func (e *Engine) OutputChannels() uint32 { return e.outputChannels }

// Initialize acquires a mixing backend and configures it for one input bus in
// format in and one output bus in format out, with zero-copy input and every
// gain at unity.
//
// The first failing step's status is returned unchanged. Steps already
// applied are not rolled back: if a backend instance was created it stays
// held, and the caller should still call Uninitialize to dispose it.
func (e *Engine) Initialize(in, out audio.StreamFormat) error {
	if e.unit != nil {
		return audio.ErrInitialized
	}

	comp := e.registry.FindNext(nil, e.desc)
	if comp == nil {
		e.logger.Error("no mixing component found", "desc", e.desc)
		return audio.ErrExtensionNotFound
	}

	unit, err := comp.NewInstance()
	if err != nil {
		e.logger.Error("could not create mixing backend", "component", comp.Name, "err", err)
		return err
	}
	e.unit = unit

	if err := e.configure(in, out); err != nil {
		e.logger.Error(
			"could not initialize mixer",
			"component", comp.Name,
			"input", in,
			"output", out,
			"err", err,
		)
		return err
	}

	e.ready = true
	e.logger.Debug(
		"mixer initialized",
		"component", comp.Name,
		"input", in,
		"output", out,
	)
	return nil
}

func (e *Engine) configure(in, out audio.StreamFormat) error {
	if err := e.unit.SetBusCount(backend.ScopeInput, 1); err != nil {
		return err
	}
	if err := e.unit.SetBusCount(backend.ScopeOutput, 1); err != nil {
		return err
	}

	if err := e.unit.SetStreamFormat(backend.ScopeInput, 0, in); err != nil {
		return err
	}
	e.inputChannels = in.Channels

	if err := e.unit.SetStreamFormat(backend.ScopeOutput, 0, out); err != nil {
		return err
	}
	e.outputChannels = out.Channels

	// the input is handed over by pointer in supply
	if err := e.unit.SetShouldAllocateBuffer(backend.ScopeInput, 0, false); err != nil {
		return err
	}

	src := backend.PullSource{Func: supply, RefCon: &e.pull}
	if err := e.unit.SetPullSource(0, src); err != nil {
		return err
	}

	if err := e.unit.Initialize(); err != nil {
		return err
	}

	if err := e.unit.SetParameter(backend.ParamVolume, backend.ScopeGlobal, backend.GlobalElement, 1); err != nil {
		return err
	}
	for i := range e.inputChannels {
		if err := e.unit.SetParameter(backend.ParamVolume, backend.ScopeInput, i, 1); err != nil {
			return err
		}
	}
	for i := range e.outputChannels {
		if err := e.unit.SetParameter(backend.ParamVolume, backend.ScopeOutput, i, 1); err != nil {
			return err
		}
	}

	return nil
}

// Uninitialize deactivates and disposes the backend. It is meant to be called
// once, after Initialize, including an Initialize that failed after creating
// the backend. Without a backend it returns audio.ErrUninitialized.
func (e *Engine) Uninitialize() error {
	if e.unit == nil {
		return audio.ErrUninitialized
	}
	e.ready = false

	if err := e.unit.Uninitialize(); err != nil {
		e.logger.Error("could not uninitialize mixing backend", "err", err)
		return err
	}
	if err := e.unit.Dispose(); err != nil {
		e.logger.Error("could not dispose mixing backend", "err", err)
		return err
	}

	e.unit = nil
	e.logger.Debug("mixer uninitialized", "sampleTime", e.sampleTime)
	return nil
}

// SetCrossoverVolume sets the gain from input channel in to output channel
// out. Range checks beyond what a crosspoint address can encode are left to
// the backend.
func (e *Engine) SetCrossoverVolume(in, out int, gain float32) error {
	if !e.ready {
		return audio.ErrUninitialized
	}
	if in < 0 || in > backend.MaxChannelIndex || out < 0 || out > backend.MaxChannelIndex {
		return audio.ErrInvalidParameter
	}

	element := backend.CrosspointElement(uint32(in), uint32(out))
	return e.unit.SetParameter(backend.ParamVolume, backend.ScopeGlobal, element, gain)
}

// Mix renders frames frames from in into out. The backend receives in's
// sample memory by reference; with a pass-through backend out ends up
// pointing at in's buffers.
//
// in and out are borrowed for the duration of the call only. On success the
// sample clock advances by frames. On failure the clock is unchanged and out
// may be partly written; callers should discard it.
func (e *Engine) Mix(frames uint32, in, out *audio.BufferList) error {
	if !e.ready {
		return audio.ErrUninitialized
	}

	e.stamp = audio.TimeStamp{
		SampleTime: e.sampleTime,
		Flags:      audio.TimeStampSampleTimeValid,
	}

	e.pull.input = in
	err := e.unit.Render(&e.stamp, 0, frames, out)
	e.pull.input = nil

	if err != nil {
		return err
	}

	e.sampleTime += float64(frames)
	return nil
}

// supply is the backend's pull source. It points each requested buffer at
// the matching buffer of the list passed to Mix, after checking both agree
// on channel count and byte size. The first mismatch stops it; buffers after
// that stay unfilled.
func supply(refCon any, _ *audio.TimeStamp, _ uint32, _ uint32, io *audio.BufferList) error {
	pc := refCon.(*pullContext)
	in := pc.input

	if in == nil || io == nil || len(in.Buffers) != len(io.Buffers) {
		return audio.ErrParam
	}

	for i := range io.Buffers {
		src := &in.Buffers[i]
		dst := &io.Buffers[i]

		if src.NumberChannels != dst.NumberChannels || src.DataByteSize != dst.DataByteSize {
			return audio.ErrParam
		}

		dst.Data = src.Data
	}

	return nil
}
