package stream

import (
	"bytes"
	"errors"
	"testing"
)

// countingStream records how often Close was called
type countingStream struct {
	bytes.Buffer
	closes int
}

func (c *countingStream) Flush() error { return nil }
func (c *countingStream) Close() error {
	c.closes++
	return nil
}

func TestSharedClosesUnderlyingExactlyOnce(t *testing.T) {
	cs := &countingStream{}
	in := NewShared(cs)
	out := in.Acquire()

	if in.Refs() != 2 {
		t.Fatalf("expected 2 refs, got %d", in.Refs())
	}

	// closing the first handle must keep the stream alive
	if err := in.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if cs.closes != 0 {
		t.Fatalf("underlying stream closed too early (%d closes)", cs.closes)
	}

	// double close of the same handle is a no-op
	if err := in.Close(); err != nil {
		t.Fatalf("second close of same handle failed: %v", err)
	}
	if cs.closes != 0 {
		t.Fatalf("double close leaked through to the stream")
	}

	// closing the last handle closes the stream
	if err := out.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if cs.closes != 1 {
		t.Fatalf("expected exactly 1 close, got %d", cs.closes)
	}
}

func TestSharedForwardsOperations(t *testing.T) {
	cs := &countingStream{}
	a := NewShared(cs)
	b := a.Acquire()

	if _, err := a.Write([]byte("hello")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// the sibling handle sees the same underlying stream
	buf := make([]byte, 5)
	n, err := b.Read(buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("expected 'hello', got %q", buf[:n])
	}

	_ = a.Close()
	_ = b.Close()
}

func TestSharedOperationsAfterClose(t *testing.T) {
	cs := &countingStream{}
	h := NewShared(cs)
	sibling := h.Acquire()
	_ = h.Close()

	if _, err := h.Read(make([]byte, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from read, got %v", err)
	}
	if _, err := h.Write([]byte("x")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from write, got %v", err)
	}
	if err := h.Flush(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from flush, got %v", err)
	}
	if h.Acquire() != nil {
		t.Errorf("acquire on a closed handle must return nil")
	}

	// the sibling is unaffected
	if _, err := sibling.Write([]byte("x")); err != nil {
		t.Errorf("sibling write failed: %v", err)
	}
	_ = sibling.Close()
}
