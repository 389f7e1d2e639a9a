// SPDX-License-Identifier: EPL-2.0

// Package scoped provides ownership wrappers that release buffer-list memory
// and reference-counted handles exactly once, on every exit path.
//
// Acquire, then defer Close:
//
//	owned := pool.Get()
//	defer owned.Close()
//
//	var ref scoped.Ref[*audio.SampleBuffer]
//	defer ref.Close()
//	ref.Reset(sb)
//	...
//	return ref.Take(), nil // caller now owns sb
//
// Neither wrapper copies sample data.
package scoped
