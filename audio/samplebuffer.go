// SPDX-License-Identifier: EPL-2.0

package audio

import "sync/atomic"

// SampleBuffer is a reference-counted block of captured or rendered audio.
// It is created holding one reference; the free function runs exactly once,
// when the last reference is released.
type SampleBuffer struct {
	refs atomic.Int32

	format StreamFormat
	frames uint32
	pts    float64

	list *BufferList
	free func(*BufferList)
}

// NewSampleBuffer wraps list, which holds frames frames of format f starting
// at sample time pts. free may be nil when list needs no explicit release.
func NewSampleBuffer(f StreamFormat, frames uint32, pts float64, list *BufferList, free func(*BufferList)) *SampleBuffer {
	sb := &SampleBuffer{
		format: f,
		frames: frames,
		pts:    pts,
		list:   list,
		free:   free,
	}
	sb.refs.Store(1)

	return sb
}

// Retain adds a reference and returns sb for chaining.
func (sb *SampleBuffer) Retain() *SampleBuffer {
	if sb.refs.Add(1) <= 1 {
		panic("audio: Retain on released SampleBuffer")
	}
	return sb
}

// Release drops one reference.
func (sb *SampleBuffer) Release() {
	n := sb.refs.Add(-1)
	switch {
	case n < 0:
		panic("audio: SampleBuffer released too many times")
	case n > 0:
		return
	}

	list, free := sb.list, sb.free
	sb.list, sb.free = nil, nil
	if free != nil {
		free(list)
	}
}

// RefCount returns the current number of references.
func (sb *SampleBuffer) RefCount() int32 { return sb.refs.Load() }

func (sb *SampleBuffer) Format() StreamFormat      { return sb.format }
func (sb *SampleBuffer) Frames() uint32            { return sb.frames }
func (sb *SampleBuffer) PresentationTime() float64 { return sb.pts }

// BufferList returns the sample memory. It is nil once the buffer is freed.
func (sb *SampleBuffer) BufferList() *BufferList { return sb.list }
