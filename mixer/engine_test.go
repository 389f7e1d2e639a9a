// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"unsafe"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/backend"
	"github.com/ik5/audmix/backend/matrix"
	"github.com/ik5/audmix/internal/audiotest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func floatFormat(channels uint32) audio.StreamFormat {
	return audio.StreamFormat{
		SampleRate:     48000,
		Channels:       channels,
		Encoding:       audio.EncodingFloat32,
		NonInterleaved: true,
	}
}

func newRecordedEngine(t *testing.T, b *audiotest.Backend) *Engine {
	t.Helper()

	return New(WithRegistry(b.Registry()), WithLogger(discardLogger()))
}

func initRecorded(t *testing.T, in, out uint32) (*Engine, *audiotest.Backend) {
	t.Helper()

	b := audiotest.NewBackend()
	e := newRecordedEngine(t, b)
	if err := e.Initialize(floatFormat(in), floatFormat(out)); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return e, b
}

func TestEngine_InitializeSequence(t *testing.T) {
	t.Parallel()

	e, b := initRecorded(t, 2, 4)

	want := []string{
		audiotest.MethodNewInstance,
		audiotest.MethodSetBusCount,
		audiotest.MethodSetBusCount,
		audiotest.MethodSetStreamFormat,
		audiotest.MethodSetStreamFormat,
		audiotest.MethodSetShouldAllocateBuffer,
		audiotest.MethodSetPullSource,
		audiotest.MethodInitialize,
	}
	// global + 2 inputs + 4 outputs
	for range 7 {
		want = append(want, audiotest.MethodSetParameter)
	}

	if got := b.Calls(); !slices.Equal(got, want) {
		t.Errorf("Calls() = %v, want %v", got, want)
	}

	if !e.Ready() {
		t.Error("Ready() = false after successful Initialize")
	}
	if e.InputChannels() != 2 || e.OutputChannels() != 4 {
		t.Errorf("channels = %d/%d, want 2/4", e.InputChannels(), e.OutputChannels())
	}

	for _, scope := range []backend.Scope{backend.ScopeInput, backend.ScopeOutput} {
		if n := b.BusCount(scope); n != 1 {
			t.Errorf("BusCount(%s) = %d, want 1", scope, n)
		}
	}

	if f, _ := b.Format(backend.ScopeInput); f != floatFormat(2) {
		t.Errorf("input format = %v, want %v", f, floatFormat(2))
	}
	if f, _ := b.Format(backend.ScopeOutput); f != floatFormat(4) {
		t.Errorf("output format = %v, want %v", f, floatFormat(4))
	}

	allocate, ok := b.ShouldAllocate(backend.ScopeInput)
	if !ok || allocate {
		t.Errorf("ShouldAllocate(input) = %v (set %v), want false", allocate, ok)
	}

	if b.PullSource().Func == nil {
		t.Error("no pull source installed")
	}

	if v, ok := b.Param(backend.ScopeGlobal, backend.GlobalElement); !ok || v != 1 {
		t.Errorf("global volume = %v (set %v), want 1", v, ok)
	}
	for i := range uint32(2) {
		if v, ok := b.Param(backend.ScopeInput, i); !ok || v != 1 {
			t.Errorf("input %d volume = %v (set %v), want 1", i, v, ok)
		}
	}
	for i := range uint32(4) {
		if v, ok := b.Param(backend.ScopeOutput, i); !ok || v != 1 {
			t.Errorf("output %d volume = %v (set %v), want 1", i, v, ok)
		}
	}
}

func TestEngine_InitializeThenUninitialize(t *testing.T) {
	t.Parallel()

	e, b := initRecorded(t, 2, 2)

	if !b.Held() {
		t.Fatal("backend not held after Initialize")
	}

	if err := e.Uninitialize(); err != nil {
		t.Fatalf("Uninitialize() error = %v", err)
	}

	if b.Held() {
		t.Error("backend still held after Uninitialize")
	}
	if b.Initialized() {
		t.Error("backend still initialized after Uninitialize")
	}
	if e.Ready() {
		t.Error("Ready() = true after Uninitialize")
	}

	calls := b.Calls()
	tail := calls[len(calls)-2:]
	if !slices.Equal(tail, []string{audiotest.MethodUninitialize, audiotest.MethodDispose}) {
		t.Errorf("last calls = %v, want [Uninitialize Dispose]", tail)
	}
}

func TestEngine_InitializeTwice(t *testing.T) {
	t.Parallel()

	e, b := initRecorded(t, 1, 1)
	before := len(b.Calls())

	if err := e.Initialize(floatFormat(1), floatFormat(1)); err != audio.ErrInitialized {
		t.Errorf("second Initialize() error = %v, want %v", err, audio.ErrInitialized)
	}
	if got := len(b.Calls()); got != before {
		t.Errorf("second Initialize() made %d backend calls", got-before)
	}
}

func TestEngine_DiscoveryFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts func(b *audiotest.Backend) []Option
	}{
		{
			name: "empty registry",
			opts: func(*audiotest.Backend) []Option {
				return []Option{WithRegistry(backend.NewRegistry())}
			},
		},
		{
			name: "no matching description",
			opts: func(b *audiotest.Backend) []Option {
				return []Option{
					WithRegistry(b.Registry()),
					WithDescription(backend.Description{SubType: backend.NewFourCC("none")}),
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := audiotest.NewBackend()
			opts := append(tt.opts(b), WithLogger(discardLogger()))
			e := New(opts...)

			err := e.Initialize(floatFormat(2), floatFormat(2))
			if err != audio.ErrExtensionNotFound {
				t.Fatalf("Initialize() error = %v, want %v", err, audio.ErrExtensionNotFound)
			}

			if calls := b.Calls(); len(calls) != 0 {
				t.Errorf("backend calls = %v, want none", calls)
			}
			if b.Instances() != 0 {
				t.Errorf("Instances() = %d, want 0", b.Instances())
			}
			if e.Ready() {
				t.Error("Ready() = true after failed Initialize")
			}
		})
	}
}

func TestEngine_InitializeFailurePropagates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method  string
		status  audio.Status
		notCall string // a later step that must not run
	}{
		{audiotest.MethodSetBusCount, audio.ErrInvalidPropertyValue, audiotest.MethodSetStreamFormat},
		{audiotest.MethodSetStreamFormat, audio.ErrFormatNotSupported, audiotest.MethodSetShouldAllocateBuffer},
		{audiotest.MethodSetShouldAllocateBuffer, audio.ErrInvalidProperty, audiotest.MethodSetPullSource},
		{audiotest.MethodSetPullSource, audio.ErrInvalidElement, audiotest.MethodInitialize},
		{audiotest.MethodInitialize, audio.ErrFailedInitialization, audiotest.MethodSetParameter},
		{audiotest.MethodSetParameter, audio.ErrInvalidParameter, audiotest.MethodRender},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			b := audiotest.NewBackend()
			b.FailOn(tt.method, tt.status)
			e := newRecordedEngine(t, b)

			err := e.Initialize(floatFormat(2), floatFormat(2))
			if err != tt.status {
				t.Fatalf("Initialize() error = %v, want %v", err, tt.status)
			}
			if b.Count(tt.method) != 1 {
				t.Errorf("%s called %d times, want 1", tt.method, b.Count(tt.method))
			}
			if b.Count(tt.notCall) != 0 {
				t.Errorf("%s called after %s failed", tt.notCall, tt.method)
			}
			if e.Ready() {
				t.Error("Ready() = true after failed Initialize")
			}

			in := audio.NewBufferList(floatFormat(2), 16)
			out := audio.NewBufferListShape(floatFormat(2), 16)
			if err := e.Mix(16, in, out); err != audio.ErrUninitialized {
				t.Errorf("Mix() after failed Initialize error = %v, want %v", err, audio.ErrUninitialized)
			}
			if e.SampleTime() != 0 {
				t.Errorf("SampleTime() = %v after rejected Mix, want 0", e.SampleTime())
			}
			if err := e.SetCrossoverVolume(0, 1, 0.5); err != audio.ErrUninitialized {
				t.Errorf("SetCrossoverVolume() after failed Initialize error = %v, want %v", err, audio.ErrUninitialized)
			}

			// no rollback: the instance is still held until Uninitialize
			if !b.Held() {
				t.Error("backend released without Uninitialize")
			}
			if err := e.Uninitialize(); err != nil {
				t.Fatalf("Uninitialize() error = %v", err)
			}
			if b.Held() {
				t.Error("backend still held after Uninitialize")
			}
		})
	}
}

func TestEngine_NewInstanceFailure(t *testing.T) {
	t.Parallel()

	b := audiotest.NewBackend()
	b.FailOn(audiotest.MethodNewInstance, audio.ErrFailedInitialization)
	e := newRecordedEngine(t, b)

	if err := e.Initialize(floatFormat(2), floatFormat(2)); err != audio.ErrFailedInitialization {
		t.Fatalf("Initialize() error = %v, want %v", err, audio.ErrFailedInitialization)
	}
	if err := e.Uninitialize(); err != audio.ErrUninitialized {
		t.Errorf("Uninitialize() error = %v, want %v", err, audio.ErrUninitialized)
	}
}

func TestEngine_UninitializeFailure(t *testing.T) {
	t.Parallel()

	e, b := initRecorded(t, 2, 2)
	b.FailOn(audiotest.MethodUninitialize, audio.ErrCannotDoInCurrentContext)

	if err := e.Uninitialize(); err != audio.ErrCannotDoInCurrentContext {
		t.Errorf("Uninitialize() error = %v, want %v", err, audio.ErrCannotDoInCurrentContext)
	}
	if b.Count(audiotest.MethodDispose) != 0 {
		t.Error("Dispose called after Uninitialize failed")
	}
}

func TestEngine_SetCrossoverVolume(t *testing.T) {
	t.Parallel()

	e, b := initRecorded(t, 2, 4)

	sets := []struct {
		in, out int
		gain    float32
	}{
		{0, 0, 0.5},
		{1, 3, 1.0},
		{0, 0, 0.25},
		{1, 2, 0},
		{1, 3, 0.75},
	}
	for _, s := range sets {
		if err := e.SetCrossoverVolume(s.in, s.out, s.gain); err != nil {
			t.Fatalf("SetCrossoverVolume(%d, %d, %v) error = %v", s.in, s.out, s.gain, err)
		}
	}

	want := map[[2]uint32]float32{
		{0, 0}: 0.25,
		{1, 2}: 0,
		{1, 3}: 0.75,
	}
	for k, v := range want {
		got, ok := b.Crosspoint(k[0], k[1])
		if !ok || got != v {
			t.Errorf("Crosspoint(%d, %d) = %v (set %v), want %v", k[0], k[1], got, ok, v)
		}
	}

	if v, _ := b.Param(backend.ScopeGlobal, 1<<16|3); v != 0.75 {
		t.Errorf("element 0x10003 = %v, want 0.75", v)
	}
}

func TestEngine_SetCrossoverVolumeUnencodable(t *testing.T) {
	t.Parallel()

	e, b := initRecorded(t, 2, 2)
	before := b.Count(audiotest.MethodSetParameter)

	for _, idx := range [][2]int{{-1, 0}, {0, -1}, {0x10000, 0}, {0, 0x10000}} {
		if err := e.SetCrossoverVolume(idx[0], idx[1], 1); err != audio.ErrInvalidParameter {
			t.Errorf("SetCrossoverVolume(%d, %d) error = %v, want %v", idx[0], idx[1], err, audio.ErrInvalidParameter)
		}
	}

	if got := b.Count(audiotest.MethodSetParameter); got != before {
		t.Errorf("SetParameter called %d times for unencodable indexes", got-before)
	}
}

func TestEngine_SetCrossoverVolumeBackendRange(t *testing.T) {
	t.Parallel()

	e := New(WithLogger(discardLogger()))
	if err := e.Initialize(floatFormat(2), floatFormat(4)); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer e.Uninitialize()

	if err := e.SetCrossoverVolume(2, 0, 1); err != audio.ErrInvalidParameter {
		t.Errorf("SetCrossoverVolume(2, 0) error = %v, want %v", err, audio.ErrInvalidParameter)
	}
	if err := e.SetCrossoverVolume(0, 4, 1); err != audio.ErrInvalidParameter {
		t.Errorf("SetCrossoverVolume(0, 4) error = %v, want %v", err, audio.ErrInvalidParameter)
	}
}

func TestEngine_MixAliasesInput(t *testing.T) {
	t.Parallel()

	e, b := initRecorded(t, 2, 4)

	f := floatFormat(2)
	in := audio.NewBufferList(f, 512)
	out := audio.NewBufferListShape(f, 512)

	if err := e.Mix(512, in, out); err != nil {
		t.Fatalf("Mix() error = %v", err)
	}

	for i := range out.Buffers {
		if unsafe.SliceData(out.Buffers[i].Data) != unsafe.SliceData(in.Buffers[i].Data) {
			t.Errorf("out.Buffers[%d] not aliased to input", i)
		}
		if len(out.Buffers[i].Data) != len(in.Buffers[i].Data) {
			t.Errorf("out.Buffers[%d] len = %d, want %d", i, len(out.Buffers[i].Data), len(in.Buffers[i].Data))
		}
	}

	if e.SampleTime() != 512 {
		t.Errorf("SampleTime() = %v, want 512", e.SampleTime())
	}
	if stamps := b.Stamps(); !slices.Equal(stamps, []float64{0}) {
		t.Errorf("Stamps() = %v, want [0]", stamps)
	}
	if e.pull.input != nil {
		t.Error("pull context still references input after Mix")
	}
}

func TestEngine_Scenario2x4(t *testing.T) {
	t.Parallel()

	e, b := initRecorded(t, 2, 4)

	if err := e.SetCrossoverVolume(0, 0, 0.5); err != nil {
		t.Fatalf("SetCrossoverVolume(0, 0) error = %v", err)
	}
	if err := e.SetCrossoverVolume(1, 3, 1.0); err != nil {
		t.Fatalf("SetCrossoverVolume(1, 3) error = %v", err)
	}

	f := floatFormat(2)
	in := audio.NewBufferList(f, 512)
	out := audio.NewBufferListShape(f, 512)

	if err := e.Mix(512, in, out); err != nil {
		t.Fatalf("Mix() error = %v", err)
	}
	for i := range out.Buffers {
		if unsafe.SliceData(out.Buffers[i].Data) != unsafe.SliceData(in.Buffers[i].Data) {
			t.Errorf("out.Buffers[%d] not aliased to input", i)
		}
	}
	if e.SampleTime() != 512 {
		t.Errorf("SampleTime() = %v, want 512", e.SampleTime())
	}

	if v, _ := b.Crosspoint(0, 0); v != 0.5 {
		t.Errorf("Crosspoint(0, 0) = %v, want 0.5", v)
	}
	if v, _ := b.Crosspoint(1, 3); v != 1.0 {
		t.Errorf("Crosspoint(1, 3) = %v, want 1", v)
	}
	if _, ok := b.Crosspoint(0, 1); ok {
		t.Error("Crosspoint(0, 1) was set, want backend default")
	}
}

func TestEngine_MixMismatchedBufferCount(t *testing.T) {
	t.Parallel()

	e, _ := initRecorded(t, 2, 2)

	in := audio.NewBufferList(floatFormat(2), 256)
	good := audio.NewBufferListShape(floatFormat(2), 256)
	if err := e.Mix(256, in, good); err != nil {
		t.Fatalf("Mix() error = %v", err)
	}

	out := audio.NewBufferListShape(floatFormat(3), 256)
	if err := e.Mix(256, in, out); err != audio.ErrParam {
		t.Fatalf("Mix() error = %v, want %v", err, audio.ErrParam)
	}
	if e.SampleTime() != 256 {
		t.Errorf("SampleTime() = %v, want 256", e.SampleTime())
	}
	for i := range out.Buffers {
		if out.Buffers[i].Data != nil {
			t.Errorf("out.Buffers[%d] filled after count mismatch", i)
		}
	}
}

func TestEngine_MixShapeMismatchStops(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(b *audio.Buffer)
	}{
		{
			name:   "byte size",
			mutate: func(b *audio.Buffer) { b.DataByteSize -= 4 },
		},
		{
			name:   "channel count",
			mutate: func(b *audio.Buffer) { b.NumberChannels = 2 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, _ := initRecorded(t, 3, 3)

			f := floatFormat(3)
			in := audio.NewBufferList(f, 128)
			tt.mutate(&in.Buffers[1])
			out := audio.NewBufferListShape(f, 128)

			if err := e.Mix(128, in, out); err != audio.ErrParam {
				t.Fatalf("Mix() error = %v, want %v", err, audio.ErrParam)
			}
			if unsafe.SliceData(out.Buffers[0].Data) != unsafe.SliceData(in.Buffers[0].Data) {
				t.Error("out.Buffers[0] not aliased before the mismatch")
			}
			if out.Buffers[1].Data != nil || out.Buffers[2].Data != nil {
				t.Error("buffers after the mismatch were filled")
			}
			if e.SampleTime() != 0 {
				t.Errorf("SampleTime() = %v, want 0", e.SampleTime())
			}
		})
	}
}

func TestEngine_SampleClockAdditive(t *testing.T) {
	t.Parallel()

	e, b := initRecorded(t, 1, 1)

	counts := []uint32{512, 256, 1, 1024, 480, 4096}
	var want float64
	var stamps []float64
	for _, n := range counts {
		f := floatFormat(1)
		in := audio.NewBufferList(f, n)
		out := audio.NewBufferListShape(f, n)

		stamps = append(stamps, want)
		if err := e.Mix(n, in, out); err != nil {
			t.Fatalf("Mix(%d) error = %v", n, err)
		}
		want += float64(n)

		if e.SampleTime() != want {
			t.Fatalf("SampleTime() = %v, want %v", e.SampleTime(), want)
		}
	}

	if got := b.Stamps(); !slices.Equal(got, stamps) {
		t.Errorf("Stamps() = %v, want %v", got, stamps)
	}
}

func TestEngine_RenderFailureKeepsClock(t *testing.T) {
	t.Parallel()

	e, b := initRecorded(t, 2, 2)

	f := floatFormat(2)
	in := audio.NewBufferList(f, 64)
	if err := e.Mix(64, in, audio.NewBufferListShape(f, 64)); err != nil {
		t.Fatalf("Mix() error = %v", err)
	}

	b.FailOn(audiotest.MethodRender, audio.ErrCannotDoInCurrentContext)
	err := e.Mix(64, in, audio.NewBufferListShape(f, 64))
	if err != audio.ErrCannotDoInCurrentContext {
		t.Fatalf("Mix() error = %v, want %v", err, audio.ErrCannotDoInCurrentContext)
	}
	if e.SampleTime() != 64 {
		t.Errorf("SampleTime() = %v, want 64", e.SampleTime())
	}
	if e.pull.input != nil {
		t.Error("pull context still references input after failed Mix")
	}
}

// Mix must not be called before Initialize. This implementation reports it
// instead of crashing; callers should not rely on that.
func TestEngine_MixBeforeInitialize(t *testing.T) {
	t.Parallel()

	e := newRecordedEngine(t, audiotest.NewBackend())

	f := floatFormat(2)
	err := e.Mix(16, audio.NewBufferList(f, 16), audio.NewBufferListShape(f, 16))
	if !errors.Is(err, audio.ErrUninitialized) {
		t.Errorf("Mix() error = %v, want %v", err, audio.ErrUninitialized)
	}
	if e.SampleTime() != 0 {
		t.Errorf("SampleTime() = %v, want 0", e.SampleTime())
	}
}

func TestEngine_MatrixBackend(t *testing.T) {
	t.Parallel()

	e := New(WithLogger(discardLogger()))
	in := floatFormat(2)
	out := floatFormat(4)
	if err := e.Initialize(in, out); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer e.Uninitialize()

	e.SetCrossoverVolume(0, 0, 0.5)
	e.SetCrossoverVolume(1, 3, 1.0)

	inList := audio.NewBufferList(in, 512)
	audiotest.Fill(inList, in, func(frame, channel int) float32 {
		if channel == 0 {
			return 0.2
		}
		return 0.1
	})
	outList := audio.NewBufferList(out, 512)

	if err := e.Mix(512, inList, outList); err != nil {
		t.Fatalf("Mix() error = %v", err)
	}
	if e.SampleTime() != 512 {
		t.Errorf("SampleTime() = %v, want 512", e.SampleTime())
	}

	// unset crosspoints stay at unity
	want := []float32{0.5*0.2 + 0.1, 0.3, 0.3, 0.3}
	for ch, w := range want {
		for _, frame := range []int{0, 255, 511} {
			got := audiotest.Sample(outList, out, frame, ch)
			if diff := got - w; diff > 1e-6 || diff < -1e-6 {
				t.Errorf("out[%d][%d] = %v, want %v", frame, ch, got, w)
			}
		}
	}
}

func TestEngine_MatrixBackendShapeMismatch(t *testing.T) {
	t.Parallel()

	e := New(WithLogger(discardLogger()))
	if err := e.Initialize(floatFormat(2), floatFormat(2)); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer e.Uninitialize()

	in := audio.NewBufferList(floatFormat(3), 128)
	out := audio.NewBufferList(floatFormat(2), 128)
	if err := e.Mix(128, in, out); err != audio.ErrParam {
		t.Errorf("Mix() error = %v, want %v", err, audio.ErrParam)
	}
	if e.SampleTime() != 0 {
		t.Errorf("SampleTime() = %v, want 0", e.SampleTime())
	}
}

func TestEngine_MixDoesNotAllocate(t *testing.T) {
	// not parallel: AllocsPerRun counts allocations of every goroutine
	e := New(WithLogger(discardLogger()))
	in := floatFormat(2)
	out := audio.StreamFormat{SampleRate: 48000, Channels: 4, Encoding: audio.EncodingFloat32}
	if err := e.Initialize(in, out); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer e.Uninitialize()

	inList := audio.NewBufferList(in, 256)
	outList := audio.NewBufferList(out, 256)

	allocs := testing.AllocsPerRun(100, func() {
		if err := e.Mix(256, inList, outList); err != nil {
			t.Fatalf("Mix() error = %v", err)
		}
	})
	if allocs != 0 {
		t.Errorf("Mix() allocated %v times per call, want 0", allocs)
	}
}

func TestEngine_ConcurrentGainUpdates(t *testing.T) {
	t.Parallel()

	e := New(WithLogger(discardLogger()))
	f := floatFormat(2)
	if err := e.Initialize(f, f); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer e.Uninitialize()

	in := audio.NewBufferList(f, 128)
	out := audio.NewBufferList(f, 128)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 1000 {
			e.SetCrossoverVolume(i%2, (i+1)%2, float32(i%10)/10)
		}
	}()

	for range 200 {
		if err := e.Mix(128, in, out); err != nil {
			t.Errorf("Mix() error = %v", err)
			break
		}
	}
	wg.Wait()

	if e.SampleTime() != 200*128 {
		t.Errorf("SampleTime() = %v, want %v", e.SampleTime(), 200*128)
	}
}

func TestEngine_InitializeUninitializeReleasesMatrix(t *testing.T) {
	// not parallel: matrix.Live counts every instance in the process
	before := matrix.Live()

	e := New(WithLogger(discardLogger()))
	if err := e.Initialize(floatFormat(2), floatFormat(2)); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if got := matrix.Live(); got != before+1 {
		t.Errorf("Live() after Initialize = %d, want %d", got, before+1)
	}

	if err := e.Uninitialize(); err != nil {
		t.Fatalf("Uninitialize() error = %v", err)
	}
	if got := matrix.Live(); got != before {
		t.Errorf("Live() after Uninitialize = %d, want %d", got, before)
	}
}
