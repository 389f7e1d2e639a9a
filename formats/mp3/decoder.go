// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels      = 2
	bytesPerFrame = 2 * channels
)

var ErrNotMP3File = errors.New("not an MP3 stream")

// mp3Reader is the part of gomp3.Decoder the source needs.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec mp3Reader
	buf []byte
	// bytes of a split frame carried over from the previous read
	carry int
	eof   bool
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadFrames(dst []float32) (int, error) {
	if len(dst)%channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if s.eof {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	want := len(dst) / channels * bytesPerFrame
	if cap(s.buf) < want {
		buf := make([]byte, want)
		copy(buf, s.buf[:s.carry])
		s.buf = buf
	}
	s.buf = s.buf[:want]

	n, err := io.ReadFull(s.dec, s.buf[s.carry:])
	have := s.carry + n
	frames := have / bytesPerFrame

	for i := range frames * channels {
		v := int16(binary.LittleEndian.Uint16(s.buf[2*i:]))
		dst[i] = utils.IntToFloat32(int(v), 16)
	}
	s.carry = copy(s.buf, s.buf[frames*bytesPerFrame:have])

	switch err {
	case nil:
		return frames, nil
	case io.EOF, io.ErrUnexpectedEOF:
		s.eof = true
		return frames, io.EOF
	default:
		return frames, fmt.Errorf("decode mp3: %w", err)
	}
}

type Decoder struct{}

// Decode reads the first MPEG frame header of r. The stream is decoded
// lazily as frames are read.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return &source{dec: dec}, nil
}
