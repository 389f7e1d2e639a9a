// SPDX-License-Identifier: EPL-2.0

package matrix

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/backend"
	"github.com/ik5/audmix/utils"
)

// DefaultMaxFrames is the largest render request accepted unless WithMaxFrames
// says otherwise.
const DefaultMaxFrames = 4096

var live atomic.Int64

// Live returns the number of mixers created and not yet disposed.
func Live() int64 { return live.Load() }

func init() {
	backend.Default.Register(backend.MatrixMixer, "audmix matrix mixer", func() (backend.Backend, error) {
		return New(), nil
	})
}

// Option configures a Mixer.
type Option func(*Mixer)

// WithMaxFrames sets the largest frame count Render accepts.
func WithMaxFrames(n uint32) Option {
	return func(m *Mixer) {
		if n > 0 {
			m.maxFrames = n
		}
	}
}

type channelLoc struct {
	buf    int
	offset int
	stride int
}

// Mixer is a software matrix mixer with one input and one output bus.
//
// Every output channel o receives
//
//	global * out[o] * sum over i of (in[i] * cross[i][o] * input channel i)
//
// with all gains defaulting to 1. Gains live in atomics so SetParameter can
// run while another goroutine renders. Input and output must share sample
// rate and encoding; the layouts may differ.
type Mixer struct {
	mu sync.Mutex // configuration only; Render never takes it

	maxFrames     uint32
	busCount      [3]uint32
	formats       [3]audio.StreamFormat
	hasFormat     [3]bool
	allocateInput bool
	pull          backend.PullSource

	initialized atomic.Bool
	disposed    atomic.Bool

	// Built by Initialize.
	in, out    audio.StreamFormat
	inMap      []channelLoc
	outMap     []channelLoc
	global     AtomicFloat32
	inGain     []AtomicFloat32
	outGain    []AtomicFloat32
	cross      []AtomicFloat32
	request    *audio.BufferList
	inStorage  *audio.BufferList
	outStorage *audio.BufferList
	acc        []float32
}

// New creates an uninitialized mixer.
func New(opts ...Option) *Mixer {
	m := &Mixer{
		maxFrames:     DefaultMaxFrames,
		allocateInput: true,
	}
	m.busCount[backend.ScopeInput] = 1
	m.busCount[backend.ScopeOutput] = 1
	m.global.Store(1)

	for _, opt := range opts {
		opt(m)
	}

	live.Add(1)
	return m
}

// MaxFrames returns the largest frame count Render accepts.
func (m *Mixer) MaxFrames() uint32 { return m.maxFrames }

func (m *Mixer) configurable() error {
	if m.disposed.Load() {
		return audio.ErrInstanceInvalidated
	}
	if m.initialized.Load() {
		return audio.ErrInitialized
	}
	return nil
}

func busScope(scope backend.Scope) bool {
	return scope == backend.ScopeInput || scope == backend.ScopeOutput
}

// SetBusCount accepts a single bus per scope.
func (m *Mixer) SetBusCount(scope backend.Scope, count uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.configurable(); err != nil {
		return err
	}
	if !busScope(scope) {
		return audio.ErrInvalidScope
	}
	if count != 1 {
		return audio.ErrInvalidPropertyValue
	}

	m.busCount[scope] = count
	return nil
}

func (m *Mixer) SetStreamFormat(scope backend.Scope, bus uint32, f audio.StreamFormat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.configurable(); err != nil {
		return err
	}
	if !busScope(scope) {
		return audio.ErrInvalidScope
	}
	if bus >= m.busCount[scope] {
		return audio.ErrInvalidElement
	}
	if f.Validate() != nil {
		return audio.ErrFormatNotSupported
	}

	m.formats[scope] = f
	m.hasFormat[scope] = true
	return nil
}

// SetShouldAllocateBuffer is only meaningful on the input scope. With
// allocation off, the PullFunc receives buffers without memory and must
// point them at its own.
func (m *Mixer) SetShouldAllocateBuffer(scope backend.Scope, bus uint32, allocate bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.configurable(); err != nil {
		return err
	}
	if scope != backend.ScopeInput {
		return audio.ErrInvalidScope
	}
	if bus >= m.busCount[scope] {
		return audio.ErrInvalidElement
	}

	m.allocateInput = allocate
	return nil
}

func (m *Mixer) SetPullSource(bus uint32, src backend.PullSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.configurable(); err != nil {
		return err
	}
	if bus >= m.busCount[backend.ScopeInput] {
		return audio.ErrInvalidElement
	}

	m.pull = src
	return nil
}

func (m *Mixer) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed.Load() {
		return audio.ErrInstanceInvalidated
	}
	if m.initialized.Load() {
		return nil
	}
	if !m.hasFormat[backend.ScopeInput] || !m.hasFormat[backend.ScopeOutput] {
		return audio.ErrFailedInitialization
	}

	in, out := m.formats[backend.ScopeInput], m.formats[backend.ScopeOutput]
	if in.SampleRate != out.SampleRate || in.Encoding != out.Encoding {
		return audio.ErrFormatNotSupported
	}

	m.in, m.out = in, out
	m.inMap = channelMap(in)
	m.outMap = channelMap(out)
	m.inGain = newGains(int(in.Channels))
	m.outGain = newGains(int(out.Channels))
	m.cross = newGains(int(in.Channels) * int(out.Channels))
	m.request = audio.NewBufferListShape(in, m.maxFrames)
	m.inStorage = nil
	if m.allocateInput {
		m.inStorage = audio.NewBufferList(in, m.maxFrames)
	}
	m.outStorage = audio.NewBufferList(out, m.maxFrames)
	m.acc = make([]float32, m.maxFrames)

	m.initialized.Store(true)
	return nil
}

func (m *Mixer) Uninitialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed.Load() {
		return audio.ErrInstanceInvalidated
	}
	if !m.initialized.Load() {
		return nil
	}

	m.initialized.Store(false)
	m.inMap, m.outMap = nil, nil
	m.inGain, m.outGain, m.cross = nil, nil, nil
	m.request, m.inStorage, m.outStorage = nil, nil, nil
	m.acc = nil
	m.global.Store(1)

	return nil
}

// Dispose uninitializes the mixer and invalidates it for good.
func (m *Mixer) Dispose() error {
	if err := m.Uninitialize(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed.Swap(true) {
		return audio.ErrInstanceInvalidated
	}
	m.pull = backend.PullSource{}
	live.Add(-1)

	return nil
}

// gain resolves a volume parameter address to its storage.
func (m *Mixer) gain(id backend.ParamID, scope backend.Scope, element uint32) (*AtomicFloat32, error) {
	if m.disposed.Load() {
		return nil, audio.ErrInstanceInvalidated
	}
	if !m.initialized.Load() {
		return nil, audio.ErrUninitialized
	}
	if id != backend.ParamVolume {
		return nil, audio.ErrInvalidParameter
	}

	switch scope {
	case backend.ScopeGlobal:
		if element == backend.GlobalElement {
			return &m.global, nil
		}
		in, out := backend.SplitCrosspoint(element)
		if in >= m.in.Channels || out >= m.out.Channels {
			return nil, audio.ErrInvalidParameter
		}
		return &m.cross[int(in)*int(m.out.Channels)+int(out)], nil
	case backend.ScopeInput:
		if element >= m.in.Channels {
			return nil, audio.ErrInvalidParameter
		}
		return &m.inGain[element], nil
	case backend.ScopeOutput:
		if element >= m.out.Channels {
			return nil, audio.ErrInvalidParameter
		}
		return &m.outGain[element], nil
	}

	return nil, audio.ErrInvalidScope
}

// SetParameter stores a linear gain. It is safe to call while Render runs.
func (m *Mixer) SetParameter(id backend.ParamID, scope backend.Scope, element uint32, value float32) error {
	g, err := m.gain(id, scope, element)
	if err != nil {
		return err
	}
	if math.IsNaN(float64(value)) || math.IsInf(float64(value), 0) {
		return audio.ErrInvalidParameter
	}

	g.Store(value)
	return nil
}

func (m *Mixer) Parameter(id backend.ParamID, scope backend.Scope, element uint32) (float32, error) {
	g, err := m.gain(id, scope, element)
	if err != nil {
		return 0, err
	}
	return g.Load(), nil
}

// Render pulls frames input frames and writes the mixed result into out.
// Output buffers without memory are pointed at the mixer's own storage,
// which stays valid until the next Render.
func (m *Mixer) Render(ts *audio.TimeStamp, bus uint32, frames uint32, out *audio.BufferList) error {
	if m.disposed.Load() {
		return audio.ErrInstanceInvalidated
	}
	if !m.initialized.Load() {
		return audio.ErrUninitialized
	}
	if bus != 0 {
		return audio.ErrInvalidElement
	}
	if frames > m.maxFrames {
		return audio.ErrTooManyFramesToProcess
	}
	if m.pull.Func == nil {
		return audio.ErrNoConnection
	}
	if err := m.prepareOutput(frames, out); err != nil {
		return err
	}

	req := m.request
	size := m.in.BufferBytes(frames)
	for i := range req.Buffers {
		b := &req.Buffers[i]
		b.NumberChannels = m.in.ChannelsPerBuffer()
		b.DataByteSize = size
		b.Data = nil
		if m.inStorage != nil {
			b.Data = m.inStorage.Buffers[i].Data[:size]
		}
	}

	if err := m.pull.Func(m.pull.RefCon, ts, bus, frames, req); err != nil {
		return err
	}

	for i := range req.Buffers {
		b := &req.Buffers[i]
		if b.NumberChannels != m.in.ChannelsPerBuffer() || uint32(len(b.Bytes())) < size {
			return audio.ErrParam
		}
	}

	m.mix(int(frames), req, out)
	return nil
}

func (m *Mixer) prepareOutput(frames uint32, out *audio.BufferList) error {
	if out.Len() != int(m.out.BufferCount()) {
		return audio.ErrParam
	}

	size := m.out.BufferBytes(frames)
	for i := range out.Buffers {
		b := &out.Buffers[i]
		if b.NumberChannels != m.out.ChannelsPerBuffer() || b.DataByteSize < size {
			return audio.ErrParam
		}
		if b.Data == nil {
			b.Data = m.outStorage.Buffers[i].Data[:size]
		} else if uint32(len(b.Data)) < size {
			return audio.ErrParam
		}
		b.DataByteSize = size
	}

	return nil
}

func (m *Mixer) mix(frames int, in, out *audio.BufferList) {
	global := m.global.Load()
	nOut := len(m.outMap)
	acc := m.acc[:frames]

	for o, dst := range m.outMap {
		clear(acc)

		g := global * m.outGain[o].Load()
		if g != 0 {
			for i, src := range m.inMap {
				gain := g * m.inGain[i].Load() * m.cross[i*nOut+o].Load()
				if gain == 0 {
					continue
				}
				m.accumulate(acc, in, src, gain)
			}
		}

		m.store(out, dst, acc)
	}
}

func (m *Mixer) accumulate(acc []float32, in *audio.BufferList, loc channelLoc, gain float32) {
	switch m.in.Encoding {
	case audio.EncodingFloat32:
		s := in.Buffers[loc.buf].Float32s()
		for f := range acc {
			acc[f] += s[loc.offset+f*loc.stride] * gain
		}
	case audio.EncodingInt16:
		s := in.Buffers[loc.buf].Int16s()
		scale := gain / 32768
		for f := range acc {
			acc[f] += float32(s[loc.offset+f*loc.stride]) * scale
		}
	}
}

func (m *Mixer) store(out *audio.BufferList, loc channelLoc, acc []float32) {
	switch m.out.Encoding {
	case audio.EncodingFloat32:
		d := out.Buffers[loc.buf].Float32s()
		for f, v := range acc {
			d[loc.offset+f*loc.stride] = v
		}
	case audio.EncodingInt16:
		d := out.Buffers[loc.buf].Int16s()
		for f, v := range acc {
			d[loc.offset+f*loc.stride] = utils.Float32ToInt16(v)
		}
	}
}

func channelMap(f audio.StreamFormat) []channelLoc {
	locs := make([]channelLoc, f.Channels)
	for c := range locs {
		if f.NonInterleaved {
			locs[c] = channelLoc{buf: c, stride: 1}
			continue
		}
		locs[c] = channelLoc{offset: c, stride: int(f.Channels)}
	}
	return locs
}
