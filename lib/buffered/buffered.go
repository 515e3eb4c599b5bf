package buffered

import (
	"bufio"
	"github.com/markushocke/modern-io/lib/stream"
)

// DefaultSize is the buffer size used when the caller does not specify one.
const DefaultSize = 8 * 1024

// --------------------------------------------------------------------------
// Buffered Input
// --------------------------------------------------------------------------

// Input reads from the inner Readable in buffer-sized chunks and serves
// smaller reads from memory.
type Input struct {
	inner stream.Readable
	r     *bufio.Reader
}

// NewInput wraps a readable with the default buffer size.
func NewInput(inner stream.Readable) *Input {
	return NewInputSize(inner, DefaultSize)
}

// NewInputSize wraps a readable with an explicit buffer size.
func NewInputSize(inner stream.Readable, size int) *Input {
	return &Input{inner: inner, r: bufio.NewReaderSize(inner, size)}
}

func (in *Input) Read(p []byte) (int, error) {
	return in.r.Read(p)
}

// Close forwards to the inner stream when it owns a resource.
func (in *Input) Close() error {
	if c, ok := in.inner.(stream.Closer); ok {
		return c.Close()
	}
	return nil
}

// --------------------------------------------------------------------------
// Buffered Output
// --------------------------------------------------------------------------

// Output accumulates writes in memory and forwards them to the inner
// Writable in buffer-sized chunks or on Flush.
type Output struct {
	inner stream.Writable
	w     *bufio.Writer
}

// NewOutput wraps a writable with the default buffer size.
func NewOutput(inner stream.Writable) *Output {
	return NewOutputSize(inner, DefaultSize)
}

// NewOutputSize wraps a writable with an explicit buffer size.
func NewOutputSize(inner stream.Writable, size int) *Output {
	return &Output{inner: inner, w: bufio.NewWriterSize(inner, size)}
}

func (out *Output) Write(p []byte) (int, error) {
	return out.w.Write(p)
}

// Flush drains the buffer and forwards the flush to the inner stream when
// it buffers as well.
func (out *Output) Flush() error {
	if err := out.w.Flush(); err != nil {
		return err
	}
	if f, ok := out.inner.(stream.Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Buffered returns the number of bytes held back in memory.
func (out *Output) Buffered() int {
	return out.w.Buffered()
}

// Close flushes and then forwards to the inner stream when it owns a
// resource.
func (out *Output) Close() error {
	if err := out.Flush(); err != nil {
		return err
	}
	if c, ok := out.inner.(stream.Closer); ok {
		return c.Close()
	}
	return nil
}
