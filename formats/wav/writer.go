// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/audmix/formats/internal/pcm"
)

// Write encodes buf as integer PCM of bitDepth bits (16, 24 or 32). Samples
// outside [-1, 1] are clamped. The header is patched on close, hence the
// io.WriteSeeker.
func Write(w io.WriteSeeker, buf *goaudio.Float32Buffer, bitDepth int) error {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return ErrUnsupportedWavLayout
	}
	if !pcm.ValidBitDepth(bitDepth) {
		return fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, bitDepth)
	}

	enc := wav.NewEncoder(w, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, formatPCM)
	if err := enc.Write(pcm.IntBuffer(buf, bitDepth)); err != nil {
		enc.Close()
		return fmt.Errorf("write wav: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}

	return nil
}
