package buffered

import (
	"bytes"
	"testing"
)

// recordingSink counts writes and flushes reaching the inner stream
type recordingSink struct {
	bytes.Buffer
	flushes int
}

func (r *recordingSink) Flush() error {
	r.flushes++
	return nil
}

func TestOutputHoldsBackUntilFlush(t *testing.T) {
	sink := &recordingSink{}
	out := NewOutput(sink)

	if _, err := out.Write([]byte("held back")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// nothing may reach the sink before Flush (payload fits the buffer)
	if sink.Len() != 0 {
		t.Fatalf("expected no bytes at the sink before flush, got %d", sink.Len())
	}
	if out.Buffered() != len("held back") {
		t.Fatalf("expected %d buffered bytes, got %d", len("held back"), out.Buffered())
	}

	if err := out.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if sink.String() != "held back" {
		t.Fatalf("expected 'held back' at the sink, got %q", sink.String())
	}
	// the flush must also be forwarded to the inner stream
	if sink.flushes != 1 {
		t.Fatalf("expected 1 forwarded flush, got %d", sink.flushes)
	}
}

func TestOutputSpillsWhenBufferFull(t *testing.T) {
	sink := &recordingSink{}
	out := NewOutputSize(sink, 4)

	if _, err := out.Write([]byte("0123456789")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	// a write larger than the buffer reaches the sink without Flush
	if sink.Len() == 0 {
		t.Fatal("expected the oversized write to spill through")
	}

	if err := out.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if sink.String() != "0123456789" {
		t.Fatalf("expected all bytes after flush, got %q", sink.String())
	}
}

func TestInputRoundTrip(t *testing.T) {
	src := bytes.NewReader([]byte("buffered roundtrip"))
	in := NewInputSize(src, 4)

	// read in odd-sized chunks across buffer refills
	var got []byte
	buf := make([]byte, 5)
	for {
		n, err := in.Read(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			break
		}
	}
	if string(got) != "buffered roundtrip" {
		t.Fatalf("expected full payload, got %q", got)
	}
}

// closableSink records whether Close was forwarded
type closableSink struct {
	recordingSink
	closed bool
}

func (c *closableSink) Close() error {
	c.closed = true
	return nil
}

func TestCloseFlushesAndForwards(t *testing.T) {
	sink := &closableSink{}
	out := NewOutput(sink)

	if _, err := out.Write([]byte("tail")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if sink.String() != "tail" {
		t.Fatalf("close must flush, sink holds %q", sink.String())
	}
	if !sink.closed {
		t.Fatal("close was not forwarded to the inner stream")
	}
}
