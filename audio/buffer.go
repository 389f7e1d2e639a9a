// SPDX-License-Identifier: EPL-2.0

package audio

import "github.com/ik5/audmix/utils"

// Buffer describes one block of sample memory. Data is never owned by the
// Buffer: assigning Data from another Buffer aliases the same memory, which is
// how the mixer hands input to a backend without copying.
type Buffer struct {
	NumberChannels uint32
	DataByteSize   uint32
	Data           []byte
}

// Bytes returns Data limited to DataByteSize.
func (b Buffer) Bytes() []byte {
	if uint32(len(b.Data)) > b.DataByteSize {
		return b.Data[:b.DataByteSize]
	}
	return b.Data
}

// Float32s views the buffer as float32 samples without copying.
func (b Buffer) Float32s() []float32 { return utils.BytesFloat32(b.Bytes()) }

// Int16s views the buffer as int16 samples without copying.
func (b Buffer) Int16s() []int16 { return utils.BytesInt16(b.Bytes()) }

// BufferList is the set of buffers exchanged for one render cycle.
type BufferList struct {
	Buffers []Buffer
}

// Len returns the number of buffers; a nil list has none.
func (l *BufferList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Buffers)
}

// NewBufferListShape returns a list shaped for frames frames of f whose
// buffers carry no memory. Backends fill such lists by aliasing.
func NewBufferListShape(f StreamFormat, frames uint32) *BufferList {
	l := &BufferList{Buffers: make([]Buffer, f.BufferCount())}
	l.Reshape(f, frames)
	return l
}

// NewBufferList allocates a list for frames frames of f. All buffers share a
// single allocation aligned for float32 access.
func NewBufferList(f StreamFormat, frames uint32) *BufferList {
	l := NewBufferListShape(f, frames)
	size := f.BufferBytes(frames)
	total := int(size) * len(l.Buffers)

	slab := utils.Float32Bytes(make([]float32, (total+3)/4))
	for i := range l.Buffers {
		off := i * int(size)
		l.Buffers[i].Data = slab[off : off+int(size) : off+int(size)]
	}

	return l
}

// Reshape sets every buffer's channel count and byte size for frames frames
// of f. Data is resliced within its capacity; buffers whose memory is too
// small for the new size lose it, so a later pull has to supply memory again.
func (l *BufferList) Reshape(f StreamFormat, frames uint32) {
	size := f.BufferBytes(frames)
	for i := range l.Buffers {
		b := &l.Buffers[i]
		b.NumberChannels = f.ChannelsPerBuffer()
		b.DataByteSize = size
		if b.Data == nil {
			continue
		}
		if uint32(cap(b.Data)) < size {
			b.Data = nil
			continue
		}
		b.Data = b.Data[:size]
	}
}

// Frames returns how many frames of f the first buffer holds.
func (l *BufferList) Frames(f StreamFormat) uint32 {
	if l.Len() == 0 || f.BytesPerFrame() == 0 {
		return 0
	}
	return l.Buffers[0].DataByteSize / f.BytesPerFrame()
}

// Clear zeroes the memory of every buffer.
func (l *BufferList) Clear() {
	for i := range l.Buffers {
		clear(l.Buffers[i].Bytes())
	}
}
