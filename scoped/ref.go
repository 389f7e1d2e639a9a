// SPDX-License-Identifier: EPL-2.0

package scoped

// Releaser is a reference-counted handle. Release drops one reference.
type Releaser interface {
	comparable
	Release()
}

// Ref holds at most one reference to a Releaser. The zero value holds none.
type Ref[T Releaser] struct {
	h T
}

// NewRef wraps a reference the caller already owns.
func NewRef[T Releaser](h T) *Ref[T] {
	return &Ref[T]{h: h}
}

// Reset releases the held reference and takes ownership of h. h counts as a
// reference of its own even when it is the handle already held.
func (r *Ref[T]) Reset(h T) {
	var zero T
	if r.h != zero {
		r.h.Release()
	}
	r.h = h
}

// Get returns the held handle without affecting its lifetime.
func (r *Ref[T]) Get() T { return r.h }

// Take returns the held handle and gives up ownership of it.
func (r *Ref[T]) Take() T {
	var zero T
	h := r.h
	r.h = zero
	return h
}

// Close releases the held reference, if any.
func (r *Ref[T]) Close() {
	var zero T
	r.Reset(zero)
}
