package adapters

import (
	"errors"
	"github.com/markushocke/modern-io/netio/memory"
	"io"
	"testing"
)

func TestDatagramSourceNeverSpansDatagrams(t *testing.T) {
	a, b := memory.NewPair()
	defer a.Close()
	defer b.Close()

	// one datagram larger and one smaller than the read request
	if _, err := a.Write([]byte("0123456789")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := a.Write([]byte("ab")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	src := NewDatagramSource(b)

	// a 4-byte request drains the first datagram in chunks
	buf := make([]byte, 4)
	for _, expected := range []string{"0123", "4567", "89"} {
		n, err := src.Read(buf)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if string(buf[:n]) != expected {
			t.Fatalf("expected %q, got %q", expected, buf[:n])
		}
	}

	// the next read must return only the second datagram, never bytes of both
	n, err := src.Read(buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(buf[:n]) != "ab" {
		t.Fatalf("expected 'ab', got %q", buf[:n])
	}
}

func TestDatagramSourceZeroLengthDatagramSignalsEOF(t *testing.T) {
	a, b := memory.NewPair()
	defer a.Close()
	defer b.Close()

	if _, err := a.Write([]byte{}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	src := NewDatagramSource(b)
	if _, err := src.Read(make([]byte, 8)); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	// EOF is sticky
	if _, err := src.Read(make([]byte, 8)); !errors.Is(err, io.EOF) {
		t.Fatalf("expected sticky io.EOF, got %v", err)
	}
}

func TestDatagramSourceSenderTracking(t *testing.T) {
	a, b := memory.NewPair()
	defer a.Close()
	defer b.Close()

	src := NewDatagramSource(b)
	if src.Sender() != nil {
		t.Fatal("sender must be nil before the first fetch")
	}

	if _, err := a.Write([]byte("hi")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := src.Read(make([]byte, 8)); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if src.Sender() != a.LocalAddr() {
		t.Errorf("expected sender %v, got %v", a.LocalAddr(), src.Sender())
	}
}

func TestDatagramSinkFlushEmitsExactlyOneDatagram(t *testing.T) {
	a, b := memory.NewPair()
	defer a.Close()
	defer b.Close()

	sink := NewDatagramSink(a)

	// several writes accumulate without sending
	for _, part := range []string{"one", "-", "two"} {
		if _, err := sink.Write([]byte(part)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	if sink.Buffered() != len("one-two") {
		t.Fatalf("expected %d buffered bytes, got %d", len("one-two"), sink.Buffered())
	}

	if err := sink.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if sink.Buffered() != 0 {
		t.Fatalf("flush must reset the buffer, %d bytes left", sink.Buffered())
	}

	// the receiver sees the accumulation as one message
	buf := make([]byte, 64)
	n, err := b.Read(buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(buf[:n]) != "one-two" {
		t.Fatalf("expected 'one-two' in one datagram, got %q", buf[:n])
	}
}

func TestDatagramSinkEmptyFlushSendsNothing(t *testing.T) {
	a, b := memory.NewPair()
	defer b.Close()

	sink := NewDatagramSink(a)
	if err := sink.Flush(); err != nil {
		t.Fatalf("empty flush failed: %v", err)
	}

	// if a datagram had been sent, this read would find it queued
	_ = a.Close()
	if _, err := b.Read(make([]byte, 8)); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF (nothing queued), got %v", err)
	}
}
