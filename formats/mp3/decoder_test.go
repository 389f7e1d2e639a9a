// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audmix/audio"
)

// mockMP3Reader hands out little-endian PCM in chunks of at most step bytes,
// which need not align to frames.
type mockMP3Reader struct {
	sampleRate int
	data       []byte
	step       int
	err        error
}

func newMock(rate, step int, samples ...int16) *mockMP3Reader {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, samples)
	return &mockMP3Reader{sampleRate: rate, data: buf.Bytes(), step: step}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(p []byte) (int, error) {
	if len(m.data) == 0 {
		if m.err != nil {
			return 0, m.err
		}
		return 0, io.EOF
	}

	n := min(len(p), m.step, len(m.data))
	copy(p, m.data[:n])
	m.data = m.data[n:]
	return n, nil
}

func readAll(t *testing.T, src audio.Source, frames int) []float32 {
	t.Helper()

	var got []float32
	dst := make([]float32, frames*src.Channels())
	for {
		n, err := src.ReadFrames(dst)
		got = append(got, dst[:n*src.Channels()]...)
		if err == io.EOF {
			return got
		}
		if err != nil {
			t.Fatalf("ReadFrames() error = %v", err)
		}
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("This is not MP3 data at all")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); !errors.Is(err, ErrNotMP3File) {
			t.Errorf("Decode(%q) error = %v, want ErrNotMP3File", data, err)
		}
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMock(44100, 64)}
	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("source = %d Hz x %d, want 44100 x 2", src.SampleRate(), src.Channels())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSource_ReadFrames(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, -32768, 32767, 8192, 100, -100}
	want := []float32{0, 0.5, -0.5, -1, 32767.0 / 32768, 0.25, 100.0 / 32768, -100.0 / 32768}

	// odd steps split samples and frames across reads
	for _, step := range []int{1, 3, 5, 7, 4096} {
		for _, frames := range []int{1, 3, 64} {
			src := &source{dec: newMock(8000, step, samples...)}

			got := readAll(t, src, frames)
			if len(got) != len(want) {
				t.Fatalf("step %d frames %d: read %d samples, want %d", step, frames, len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("step %d frames %d: sample %d = %v, want %v", step, frames, i, got[i], want[i])
				}
			}
		}
	}
}

func TestSource_TrailingPartialFrame(t *testing.T) {
	t.Parallel()

	// three samples: one full stereo frame plus half of another
	src := &source{dec: newMock(8000, 64, 1000, 2000, 3000)}
	if got := readAll(t, src, 4); len(got) != 2 {
		t.Errorf("read %d samples, want 2", len(got))
	}
}

func TestSource_ReadFrames_Errors(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMock(8000, 64, 1, 2)}
	if _, err := src.ReadFrames(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadFrames(odd) error = %v, want ErrInvalidDstSize", err)
	}
	if n, err := src.ReadFrames(nil); n != 0 || err != nil {
		t.Errorf("ReadFrames(nil) = %d, %v, want 0, nil", n, err)
	}

	boom := errors.New("corrupt frame")
	broken := newMock(8000, 64, 1, 2)
	broken.err = boom
	src = &source{dec: broken}

	n, err := src.ReadFrames(make([]float32, 8))
	if n != 1 || !errors.Is(err, boom) {
		t.Errorf("ReadFrames() = %d, %v, want 1, %v", n, err, boom)
	}
}

func TestSource_EOFIsSticky(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMock(8000, 64, 1, 2)}
	readAll(t, src, 8)

	for range 2 {
		if n, err := src.ReadFrames(make([]float32, 2)); n != 0 || err != io.EOF {
			t.Errorf("ReadFrames() after end = %d, %v, want 0, EOF", n, err)
		}
	}
}

func BenchmarkSource_ReadFrames(b *testing.B) {
	samples := make([]int16, 2*48000)
	dst := make([]float32, 2*1024)

	b.ReportAllocs()
	for b.Loop() {
		src := &source{dec: newMock(48000, 4608, samples...)}
		for {
			if _, err := src.ReadFrames(dst); err != nil {
				break
			}
		}
	}
}
