// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audmix/formats/internal/pcm"
)

// Write encodes buf as big-endian PCM of bitDepth bits (16, 24 or 32).
// Samples outside [-1, 1] are clamped.
func Write(w io.WriteSeeker, buf *goaudio.Float32Buffer, bitDepth int) error {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return ErrUnsupportedAiffLayout
	}
	if !pcm.ValidBitDepth(bitDepth) {
		return fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, bitDepth)
	}

	enc := aiff.NewEncoder(w, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels)
	if err := enc.Write(pcm.IntBuffer(buf, bitDepth)); err != nil {
		enc.Close()
		return fmt.Errorf("write aiff: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("close aiff: %w", err)
	}

	return nil
}
