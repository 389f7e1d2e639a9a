// SPDX-License-Identifier: EPL-2.0

package audiotest

import "github.com/ik5/audmix/audio"

// Fill writes fn(frame, channel) into every sample of a float32 or int16
// list shaped for f. Int16 values are scaled from [-1, 1].
func Fill(l *audio.BufferList, f audio.StreamFormat, fn func(frame, channel int) float32) {
	frames := int(l.Frames(f))
	for c := range int(f.Channels) {
		buf, offset, stride := locate(f, c)
		for n := range frames {
			v := fn(n, c)
			switch f.Encoding {
			case audio.EncodingFloat32:
				l.Buffers[buf].Float32s()[offset+n*stride] = v
			case audio.EncodingInt16:
				l.Buffers[buf].Int16s()[offset+n*stride] = int16(v * 32767)
			}
		}
	}
}

// Sample reads one float32 sample of a list shaped for f.
func Sample(l *audio.BufferList, f audio.StreamFormat, frame, channel int) float32 {
	buf, offset, stride := locate(f, channel)
	if f.Encoding == audio.EncodingInt16 {
		return float32(l.Buffers[buf].Int16s()[offset+frame*stride]) / 32767
	}
	return l.Buffers[buf].Float32s()[offset+frame*stride]
}

func locate(f audio.StreamFormat, channel int) (buf, offset, stride int) {
	if f.NonInterleaved {
		return channel, 0, 1
	}
	return 0, channel, int(f.Channels)
}
