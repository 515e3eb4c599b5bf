package fileio

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// --------------------------------------------------------------------------
// File Input
// --------------------------------------------------------------------------

// Input is a read-only file stream.
type Input struct {
	f      *os.File
	closed atomic.Bool
}

// OpenInput opens an existing file for reading.
func OpenInput(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &Input{f: f}, nil
}

func (in *Input) Read(p []byte) (int, error) {
	if in.closed.Load() {
		return 0, os.ErrClosed
	}
	return in.f.Read(p)
}

// Seek moves the read position to an absolute offset.
func (in *Input) Seek(pos int64) error {
	if in.closed.Load() {
		return os.ErrClosed
	}
	_, err := in.f.Seek(pos, io.SeekStart)
	return err
}

// Tell returns the current read position.
func (in *Input) Tell() (int64, error) {
	if in.closed.Load() {
		return 0, os.ErrClosed
	}
	return in.f.Seek(0, io.SeekCurrent)
}

// Close releases the file handle. Idempotent.
func (in *Input) Close() error {
	if in.closed.Swap(true) {
		return nil
	}
	return in.f.Close()
}

// --------------------------------------------------------------------------
// File Output
// --------------------------------------------------------------------------

// Output is a write-only file stream.
type Output struct {
	f      *os.File
	closed atomic.Bool
}

// CreateOutput creates (or truncates) a file for writing.
func CreateOutput(path string) (*Output, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return &Output{f: f}, nil
}

// Write requires the full buffer to be accepted; a short write is an
// error, never silently retried.
func (out *Output) Write(p []byte) (int, error) {
	if out.closed.Load() {
		return 0, os.ErrClosed
	}
	n, err := out.f.Write(p)
	if err == nil && n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, err
}

// Flush is a no-op: the stream is unbuffered. Compose with lib/buffered
// for write coalescing.
func (out *Output) Flush() error {
	if out.closed.Load() {
		return os.ErrClosed
	}
	return nil
}

// Sync forces the OS to flush the file to stable storage.
func (out *Output) Sync() error {
	if out.closed.Load() {
		return os.ErrClosed
	}
	return out.f.Sync()
}

// Seek moves the write position to an absolute offset.
func (out *Output) Seek(pos int64) error {
	if out.closed.Load() {
		return os.ErrClosed
	}
	_, err := out.f.Seek(pos, io.SeekStart)
	return err
}

// Tell returns the current write position.
func (out *Output) Tell() (int64, error) {
	if out.closed.Load() {
		return 0, os.ErrClosed
	}
	return out.f.Seek(0, io.SeekCurrent)
}

// Close releases the file handle. Idempotent.
func (out *Output) Close() error {
	if out.closed.Swap(true) {
		return nil
	}
	return out.f.Close()
}
