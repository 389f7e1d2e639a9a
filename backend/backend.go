// SPDX-License-Identifier: EPL-2.0

package backend

import "github.com/ik5/audmix/audio"

// Scope selects which part of a backend a property or parameter applies to.
type Scope uint32

const (
	ScopeGlobal Scope = iota
	ScopeInput
	ScopeOutput
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeInput:
		return "input"
	case ScopeOutput:
		return "output"
	}
	return "unknown"
}

// ParamID identifies a backend parameter.
type ParamID uint32

// ParamVolume is the linear gain parameter of a matrix mixer. Its element
// picks the gain: GlobalElement for the master gain, a channel index in
// ScopeInput or ScopeOutput, or CrosspointElement in ScopeGlobal.
const ParamVolume ParamID = 0

// GlobalElement addresses the master gain.
const GlobalElement uint32 = 0xFFFFFFFF

// MaxChannelIndex is the largest channel index a crosspoint element encodes.
const MaxChannelIndex = 0xFFFF

// CrosspointElement encodes an (input channel, output channel) pair.
func CrosspointElement(in, out uint32) uint32 {
	return in<<16 | out&MaxChannelIndex
}

// SplitCrosspoint decodes an element made by CrosspointElement.
func SplitCrosspoint(element uint32) (in, out uint32) {
	return element >> 16, element & MaxChannelIndex
}

// PullFunc supplies input for one render call. The backend hands it the
// RefCon it was installed with and the list to fill; the function fills io by
// pointing its buffers at sample memory. It runs on the render thread and
// must not block or allocate.
type PullFunc func(refCon any, ts *audio.TimeStamp, bus uint32, frames uint32, io *audio.BufferList) error

// PullSource pairs a PullFunc with its non-owning context.
type PullSource struct {
	Func   PullFunc
	RefCon any
}

// Backend is a matrix-mixing capability. Implementations perform the gain
// and summation; the mixer engine only configures and drives them.
//
// Configuration methods are called from a control goroutine while the
// backend is uninitialized. SetParameter may be called concurrently with
// Render and must not tear or block it. Render is never called concurrently
// with itself.
type Backend interface {
	SetBusCount(scope Scope, count uint32) error
	SetStreamFormat(scope Scope, bus uint32, f audio.StreamFormat) error
	// SetShouldAllocateBuffer controls whether the backend provides memory
	// for the buffers it asks the PullFunc to fill.
	SetShouldAllocateBuffer(scope Scope, bus uint32, allocate bool) error
	SetPullSource(bus uint32, src PullSource) error

	SetParameter(id ParamID, scope Scope, element uint32, value float32) error
	Parameter(id ParamID, scope Scope, element uint32) (float32, error)

	Initialize() error
	Uninitialize() error
	Dispose() error

	// Render pulls input and writes frames mixed frames into out.
	Render(ts *audio.TimeStamp, bus uint32, frames uint32, out *audio.BufferList) error
}
