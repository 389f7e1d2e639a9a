// SPDX-License-Identifier: EPL-2.0

package matrix

import (
	"math"
	"sync/atomic"
)

// AtomicFloat32 is a float32 stored as its IEEE-754 bits, so a gain can be
// changed from a control goroutine while Render reads it.
type AtomicFloat32 struct {
	bits atomic.Uint32
}

func (a *AtomicFloat32) Load() float32 { return math.Float32frombits(a.bits.Load()) }

func (a *AtomicFloat32) Store(v float32) { a.bits.Store(math.Float32bits(v)) }

// newGains returns n gains set to unity.
func newGains(n int) []AtomicFloat32 {
	g := make([]AtomicFloat32, n)
	for i := range g {
		g[i].Store(1)
	}
	return g
}
