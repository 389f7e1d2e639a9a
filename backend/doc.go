// SPDX-License-Identifier: EPL-2.0

// Package backend defines the mixing capability the mixer engine drives and
// the registry it is discovered through.
//
// A Backend does the actual matrix math. The engine configures it (bus
// counts, stream formats, buffer allocation, pull source, gains), activates
// it and then calls Render once per render cycle. During Render the backend
// calls back into the installed PullFunc to obtain its input:
//
//	b.SetPullSource(0, backend.PullSource{Func: supply, RefCon: ctx})
//	err := b.Render(&ts, 0, frames, out)
//
// Components are found through a Registry by Description. Package
// backend/matrix registers a pure Go matrix mixer with Default when it is
// imported:
//
//	import _ "github.com/ik5/audmix/backend/matrix"
//
//	comp := backend.Default.FindNext(nil, backend.MatrixMixer)
//	b, err := comp.NewInstance()
//
// All failures are audio.Status values.
package backend
