// SPDX-License-Identifier: EPL-2.0

package backend

import (
	"fmt"
	"sync"
)

// FourCC is a four character code identifying component kinds.
type FourCC uint32

// NewFourCC packs a four character string. Other lengths yield 0.
func NewFourCC(s string) FourCC {
	if len(s) != 4 {
		return 0
	}
	return FourCC(uint32(s[0])<<24 | uint32(s[1])<<16 | uint32(s[2])<<8 | uint32(s[3]))
}

func (c FourCC) String() string {
	return string([]byte{byte(c >> 24), byte(c >> 16), byte(c >> 8), byte(c)})
}

var (
	TypeMixer          = NewFourCC("aumx")
	SubTypeMatrixMixer = NewFourCC("mxmx")
	ManufacturerAudmix = NewFourCC("audm")
)

// Description selects a component. Zero fields match anything.
type Description struct {
	Type         FourCC
	SubType      FourCC
	Manufacturer FourCC
}

// MatrixMixer describes the matrix mixer registered by package matrix.
var MatrixMixer = Description{
	Type:         TypeMixer,
	SubType:      SubTypeMatrixMixer,
	Manufacturer: ManufacturerAudmix,
}

func (d Description) matches(other Description) bool {
	return (d.Type == 0 || d.Type == other.Type) &&
		(d.SubType == 0 || d.SubType == other.SubType) &&
		(d.Manufacturer == 0 || d.Manufacturer == other.Manufacturer)
}

func (d Description) String() string {
	return fmt.Sprintf("%s/%s/%s", d.Type, d.SubType, d.Manufacturer)
}

// Factory creates a backend instance.
type Factory func() (Backend, error)

// Component is a registered backend implementation.
type Component struct {
	Desc    Description
	Name    string
	factory Factory
}

// NewInstance creates a backend from the component.
func (c *Component) NewInstance() (Backend, error) {
	return c.factory()
}

// Registry is the set of components a mixer engine can discover. It is safe
// for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	comps []*Component
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Default is the registry backends register themselves with on import.
var Default = NewRegistry()

// Register adds a component. Components are searched in registration order.
func (r *Registry) Register(desc Description, name string, f Factory) *Component {
	c := &Component{Desc: desc, Name: name, factory: f}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.comps = append(r.comps, c)
	return c
}

// FindNext returns the first component after prev matching desc, or nil. A
// nil prev starts from the beginning.
func (r *Registry) FindNext(prev *Component, desc Description) *Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := 0
	if prev != nil {
		start = len(r.comps)
		for i, c := range r.comps {
			if c == prev {
				start = i + 1
				break
			}
		}
	}

	for _, c := range r.comps[start:] {
		if desc.matches(c.Desc) {
			return c
		}
	}

	return nil
}

// Count returns how many components match desc.
func (r *Registry) Count(desc Description) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, c := range r.comps {
		if desc.matches(c.Desc) {
			n++
		}
	}
	return n
}
