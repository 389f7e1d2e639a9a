// SPDX-License-Identifier: EPL-2.0

// Package mixer provides Engine, a real-time matrix mixer.
//
// An Engine owns one backend.Backend. Initialize configures it from the
// negotiated input and output stream formats; after that every Mix call
// renders one block:
//
//	e := mixer.New()
//	if err := e.Initialize(in, out); err != nil {
//	    e.Uninitialize() // dispose whatever was acquired
//	    return err
//	}
//	defer e.Uninitialize()
//
//	e.SetCrossoverVolume(0, 0, 0.5)
//
//	// on the render goroutine
//	if err := e.Mix(512, inList, outList); err != nil {
//	    // treat as no output this cycle
//	}
//
// # Zero copy
//
// Input buffers are never copied. During Mix the backend asks the engine for
// input, and the engine points the backend's request buffers at the caller's
// memory. Shapes must agree exactly: the same number of buffers, and for each
// buffer the same channel count and byte size. Otherwise Mix fails with
// audio.ErrParam.
//
// # Sample clock
//
// Each successful Mix advances SampleTime by the rendered frame count. The
// clock stamps every render request and is never reset.
//
// # Errors
//
// All failures are audio.Status values. Backend statuses are returned as is;
// nothing is retried.
package mixer
