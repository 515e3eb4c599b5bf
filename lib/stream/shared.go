package stream

import (
	"errors"
	"sync/atomic"
)

// ErrClosed is returned when an operation is attempted on a handle that has
// already been closed. The underlying stream may still be alive through a
// sibling handle.
var ErrClosed = errors.New("stream handle is closed")

// Shared is a reference-counted handle over one Stream. All handles created
// from the same stream (via Acquire) forward their operations to that single
// stream; the stream itself is closed exactly once, when the last live
// handle is closed.
type Shared struct {
	inner  Stream
	refs   *atomic.Int32
	closed atomic.Bool
}

// NewShared wraps a stream into a shared handle with a reference count of one.
func NewShared(s Stream) *Shared {
	refs := &atomic.Int32{}
	refs.Store(1)
	return &Shared{inner: s, refs: refs}
}

// Acquire creates a sibling handle sharing the same underlying stream and
// reference count. Acquire on a closed handle returns nil.
func (h *Shared) Acquire() *Shared {
	if h.closed.Load() {
		return nil
	}
	h.refs.Add(1)
	return &Shared{inner: h.inner, refs: h.refs}
}

// Refs returns the number of live handles. Diagnostics only.
func (h *Shared) Refs() int {
	return int(h.refs.Load())
}

// --------------------------------------------------------------------------
// Interface Methods (docu see stream.Stream)
// --------------------------------------------------------------------------

func (h *Shared) Read(p []byte) (int, error) {
	if h.closed.Load() {
		return 0, ErrClosed
	}
	return h.inner.Read(p)
}

func (h *Shared) Write(p []byte) (int, error) {
	if h.closed.Load() {
		return 0, ErrClosed
	}
	return h.inner.Write(p)
}

func (h *Shared) Flush() error {
	if h.closed.Load() {
		return ErrClosed
	}
	return h.inner.Flush()
}

// Close releases this handle. Closing the same handle twice is a no-op; the
// underlying stream is closed when the overall count reaches zero.
func (h *Shared) Close() error {
	if h.closed.Swap(true) {
		return nil
	}
	if h.refs.Add(-1) == 0 {
		return h.inner.Close()
	}
	return nil
}
