// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF WAVE files through github.com/go-audio/wav.
//
// Decoding accepts integer PCM at 8, 16, 24 or 32 bits with any channel
// count and sample rate. Samples come out as interleaved float32 in [-1, 1):
//
//	f, _ := os.Open("speech.wav")
//	defer f.Close()
//
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//
//	buf := make([]float32, 1024*src.Channels())
//	n, err := src.ReadFrames(buf) // n frames, n*Channels() samples
//
// Write goes the other way, from a go-audio Float32Buffer to 16, 24 or
// 32-bit PCM:
//
//	out, _ := os.Create("mixed.wav")
//	defer out.Close()
//	err := wav.Write(out, mixed, 24)
//
// IEEE float and compressed WAV files are rejected with
// ErrUnsupportedEncoding.
package wav
