// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III streams through
// github.com/hajimehoshi/go-mp3.
//
// The decoder always yields stereo at the stream's sample rate; mono files
// come out with both channels equal. Frames are interleaved float32 in
// [-1, 1):
//
//	f, _ := os.Open("interview.mp3")
//	defer f.Close()
//
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//
//	// fold to mono through the mixer
//	mixed, err := audmix.MixSource(src, audmix.MonoDownmix(2), 0)
//
// Only decoding is provided.
package mp3
