// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"slices"
	"sync"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/backend"
)

// Method names recorded by Backend.
const (
	MethodNewInstance             = "NewInstance"
	MethodSetBusCount             = "SetBusCount"
	MethodSetStreamFormat         = "SetStreamFormat"
	MethodSetShouldAllocateBuffer = "SetShouldAllocateBuffer"
	MethodSetPullSource           = "SetPullSource"
	MethodSetParameter            = "SetParameter"
	MethodInitialize              = "Initialize"
	MethodUninitialize            = "Uninitialize"
	MethodDispose                 = "Dispose"
	MethodRender                  = "Render"
)

// ParamKey addresses one recorded parameter.
type ParamKey struct {
	Scope   backend.Scope
	Element uint32
}

// Backend is a recording backend.Backend test double. Render forwards the
// pull request straight onto the output list, so after a successful render
// the output buffers point wherever the pull source pointed them.
//
// Any method can be made to fail with FailOn.
type Backend struct {
	mu sync.Mutex

	calls     []string
	failures  map[string]error
	params    map[ParamKey]float32
	formats   map[backend.Scope]audio.StreamFormat
	busCounts map[backend.Scope]uint32
	allocate  map[backend.Scope]bool
	pull      backend.PullSource

	instances   int
	initialized bool
	disposed    bool
	stamps      []float64
}

func NewBackend() *Backend {
	return &Backend{
		failures:  make(map[string]error),
		params:    make(map[ParamKey]float32),
		formats:   make(map[backend.Scope]audio.StreamFormat),
		busCounts: make(map[backend.Scope]uint32),
		allocate:  make(map[backend.Scope]bool),
	}
}

// Registry returns a registry whose only component hands out b.
func (b *Backend) Registry() *backend.Registry {
	r := backend.NewRegistry()
	r.Register(backend.MatrixMixer, "recording backend", func() (backend.Backend, error) {
		b.mu.Lock()
		defer b.mu.Unlock()

		b.calls = append(b.calls, MethodNewInstance)
		if err := b.failures[MethodNewInstance]; err != nil {
			return nil, err
		}
		b.instances++
		return b, nil
	})
	return r
}

// FailOn makes every later call to method return err.
func (b *Backend) FailOn(method string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures[method] = err
}

// record logs a call and returns the injected failure for it, if any.
func (b *Backend) record(method string) error {
	b.calls = append(b.calls, method)
	return b.failures[method]
}

// Calls returns every recorded method call in order.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.calls)
}

// Count returns how often method was called.
func (b *Backend) Count(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, c := range b.calls {
		if c == method {
			n++
		}
	}
	return n
}

// Instances returns how many times the registry handed out b.
func (b *Backend) Instances() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.instances
}

// Param returns the last value set for a parameter.
func (b *Backend) Param(scope backend.Scope, element uint32) (float32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.params[ParamKey{Scope: scope, Element: element}]
	return v, ok
}

// Crosspoint returns the last gain set for an input/output channel pair.
func (b *Backend) Crosspoint(in, out uint32) (float32, bool) {
	return b.Param(backend.ScopeGlobal, backend.CrosspointElement(in, out))
}

func (b *Backend) Format(scope backend.Scope) (audio.StreamFormat, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, ok := b.formats[scope]
	return f, ok
}

func (b *Backend) BusCount(scope backend.Scope) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.busCounts[scope]
}

// ShouldAllocate reports the last allocation setting for scope and whether
// one was made.
func (b *Backend) ShouldAllocate(scope backend.Scope) (bool, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.allocate[scope]
	return v, ok
}

func (b *Backend) PullSource() backend.PullSource {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.pull
}

func (b *Backend) Initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.initialized
}

func (b *Backend) Disposed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.disposed
}

// Held reports whether an instance was handed out and not disposed.
func (b *Backend) Held() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.instances > 0 && !b.disposed
}

// Stamps returns the sample times of every render request.
func (b *Backend) Stamps() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.stamps)
}

func (b *Backend) SetBusCount(scope backend.Scope, count uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record(MethodSetBusCount); err != nil {
		return err
	}
	b.busCounts[scope] = count
	return nil
}

func (b *Backend) SetStreamFormat(scope backend.Scope, bus uint32, f audio.StreamFormat) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record(MethodSetStreamFormat); err != nil {
		return err
	}
	b.formats[scope] = f
	return nil
}

func (b *Backend) SetShouldAllocateBuffer(scope backend.Scope, bus uint32, allocate bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record(MethodSetShouldAllocateBuffer); err != nil {
		return err
	}
	b.allocate[scope] = allocate
	return nil
}

func (b *Backend) SetPullSource(bus uint32, src backend.PullSource) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record(MethodSetPullSource); err != nil {
		return err
	}
	b.pull = src
	return nil
}

func (b *Backend) SetParameter(id backend.ParamID, scope backend.Scope, element uint32, value float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record(MethodSetParameter); err != nil {
		return err
	}
	b.params[ParamKey{Scope: scope, Element: element}] = value
	return nil
}

func (b *Backend) Parameter(id backend.ParamID, scope backend.Scope, element uint32) (float32, error) {
	v, ok := b.Param(scope, element)
	if !ok {
		return 0, audio.ErrInvalidParameter
	}
	return v, nil
}

func (b *Backend) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record(MethodInitialize); err != nil {
		return err
	}
	b.initialized = true
	return nil
}

func (b *Backend) Uninitialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record(MethodUninitialize); err != nil {
		return err
	}
	b.initialized = false
	return nil
}

func (b *Backend) Dispose() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.record(MethodDispose); err != nil {
		return err
	}
	b.disposed = true
	return nil
}

// Render forwards the pull request with out as the list to fill.
func (b *Backend) Render(ts *audio.TimeStamp, bus uint32, frames uint32, out *audio.BufferList) error {
	b.mu.Lock()
	err := b.record(MethodRender)
	pull := b.pull
	if ts != nil {
		b.stamps = append(b.stamps, ts.SampleTime)
	}
	b.mu.Unlock()

	if err != nil {
		return err
	}
	if pull.Func == nil {
		return audio.ErrNoConnection
	}

	return pull.Func(pull.RefCon, ts, bus, frames, out)
}
