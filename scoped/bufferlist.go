// SPDX-License-Identifier: EPL-2.0

package scoped

import (
	"sync"

	"github.com/ik5/audmix/audio"
)

// BufferList owns one audio.BufferList and the function that frees it.
// The zero value owns nothing.
type BufferList struct {
	list *audio.BufferList
	free func(*audio.BufferList)
}

// Adopt takes ownership of list. free runs on Close; nil means the list is
// left to the garbage collector.
func Adopt(list *audio.BufferList, free func(*audio.BufferList)) *BufferList {
	return &BufferList{list: list, free: free}
}

// List returns the owned list without affecting ownership. It is nil after
// Close or Detach.
func (b *BufferList) List() *audio.BufferList { return b.list }

// Detach transfers ownership to the caller, who must call free (when not
// nil) on the returned list. Close becomes a no-op.
func (b *BufferList) Detach() (*audio.BufferList, func(*audio.BufferList)) {
	list, free := b.list, b.free
	b.list, b.free = nil, nil
	return list, free
}

// Close frees the owned list. Later calls do nothing.
func (b *BufferList) Close() {
	list, free := b.Detach()
	if list != nil && free != nil {
		free(list)
	}
}

// Pool recycles buffer lists shaped for one stream format and frame
// capacity. It is safe for concurrent use, but Get may allocate, so keep it
// off the render path.
type Pool struct {
	format audio.StreamFormat
	frames uint32
	pool   sync.Pool
}

// pooled remembers the memory a list was created with, so a list whose
// buffers were re-pointed elsewhere goes back to the pool with its own.
type pooled struct {
	list *audio.BufferList
	data [][]byte
}

// NewPool returns a pool of lists holding up to frames frames of f.
func NewPool(f audio.StreamFormat, frames uint32) *Pool {
	p := &Pool{format: f, frames: frames}
	p.pool.New = func() any {
		list := audio.NewBufferList(f, frames)
		data := make([][]byte, len(list.Buffers))
		for i := range list.Buffers {
			data[i] = list.Buffers[i].Data
		}
		return &pooled{list: list, data: data}
	}
	return p
}

func (p *Pool) Format() audio.StreamFormat { return p.format }

// Frames returns the frame capacity of every pooled list.
func (p *Pool) Frames() uint32 { return p.frames }

// Get returns an owned list shaped for the full frame capacity.
func (p *Pool) Get() *BufferList {
	pl := p.pool.Get().(*pooled)
	return &BufferList{
		list: pl.list,
		free: func(*audio.BufferList) { p.put(pl) },
	}
}

func (p *Pool) put(pl *pooled) {
	pl.list.Buffers = pl.list.Buffers[:len(pl.data)]
	for i := range pl.list.Buffers {
		pl.list.Buffers[i].Data = pl.data[i]
	}
	pl.list.Reshape(p.format, p.frames)
	p.pool.Put(pl)
}
