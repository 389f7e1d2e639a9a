// SPDX-License-Identifier: EPL-2.0

// Package formats picks a decoder or encoder by file extension.
package formats

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decoders maps file extensions to the built-in decoders.
var Decoders = NewRegistry()

// NewRegistry returns a registry holding every built-in decoder.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})

	return r
}

// Writer encodes a whole float buffer as integer PCM.
type Writer func(w io.WriteSeeker, buf *goaudio.Float32Buffer, bitDepth int) error

var writers = map[string]Writer{
	"wav":  wav.Write,
	"wave": wav.Write,
	"aif":  aiff.Write,
	"aiff": aiff.Write,
}

// WriterFor returns the encoder for the extension of path.
func WriterFor(path string) (Writer, error) {
	w, ok := writers[ext(path)]
	if !ok {
		return nil, fmt.Errorf("%w: cannot write %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	return w, nil
}

// fileSource closes the underlying file along with the decoder.
type fileSource struct {
	audio.Source
	f *os.File
}

func (s fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.f.Close())
}

// Open decodes the file at path with the decoder registered in r for its
// extension. Closing the returned Source closes the file.
func Open(r *audio.Registry, path string) (audio.Source, error) {
	dec, ok := r.Get(ext(path))
	if !ok {
		return nil, fmt.Errorf("%w: cannot read %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return fileSource{Source: src, f: f}, nil
}

// Create writes buf to path, choosing the encoder by extension.
func Create(path string, buf *goaudio.Float32Buffer, bitDepth int) error {
	write, err := WriterFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(f, buf, bitDepth); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return f.Close()
}

func ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
