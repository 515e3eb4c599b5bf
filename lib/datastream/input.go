package datastream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"github.com/markushocke/modern-io/lib/stream"
	"io"
	"math"
)

// maxBytesLen guards against absurd length prefixes from corrupt or
// hostile input
const maxBytesLen = 64 << 20

// DecodeError reports a failed decode: not enough bytes, a negative
// length prefix, or a length beyond the sanity guard.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Input decodes primitives from any Readable in a fixed byte order.
type Input struct {
	src     stream.Readable
	order   binary.ByteOrder
	scratch [8]byte
}

// NewInput creates a decoder over src. The byte order applies to every
// multi-byte primitive and to string length prefixes.
func NewInput(src stream.Readable, order binary.ByteOrder) *Input {
	return &Input{src: src, order: order}
}

// --------------------------------------------------------------------------
// Primitive Readers
// --------------------------------------------------------------------------

func (in *Input) ReadBool() (bool, error) {
	v, err := in.ReadUint8()
	return v != 0, err
}

func (in *Input) ReadUint8() (uint8, error) {
	if err := in.fill("uint8", 1); err != nil {
		return 0, err
	}
	return in.scratch[0], nil
}

func (in *Input) ReadInt8() (int8, error) {
	v, err := in.ReadUint8()
	return int8(v), err
}

func (in *Input) ReadUint16() (uint16, error) {
	if err := in.fill("uint16", 2); err != nil {
		return 0, err
	}
	return in.order.Uint16(in.scratch[:2]), nil
}

func (in *Input) ReadInt16() (int16, error) {
	v, err := in.ReadUint16()
	return int16(v), err
}

func (in *Input) ReadUint32() (uint32, error) {
	if err := in.fill("uint32", 4); err != nil {
		return 0, err
	}
	return in.order.Uint32(in.scratch[:4]), nil
}

func (in *Input) ReadInt32() (int32, error) {
	v, err := in.ReadUint32()
	return int32(v), err
}

func (in *Input) ReadUint64() (uint64, error) {
	if err := in.fill("uint64", 8); err != nil {
		return 0, err
	}
	return in.order.Uint64(in.scratch[:8]), nil
}

func (in *Input) ReadInt64() (int64, error) {
	v, err := in.ReadUint64()
	return int64(v), err
}

func (in *Input) ReadFloat32() (float32, error) {
	v, err := in.ReadUint32()
	return math.Float32frombits(v), err
}

func (in *Input) ReadFloat64() (float64, error) {
	v, err := in.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBytes reads exactly len(p) bytes. A short read fails, the buffer is
// never zero-padded.
func (in *Input) ReadBytes(p []byte) error {
	if _, err := io.ReadFull(in.src, p); err != nil {
		if err == io.EOF {
			// clean end of stream before the first byte
			return io.EOF
		}
		return &DecodeError{What: fmt.Sprintf("%d raw bytes", len(p)), Err: err}
	}
	return nil
}

// ReadString decodes a length-prefixed string: a 4-byte signed length in
// the configured byte order followed by that many raw bytes. A clean end
// of stream before the length prefix surfaces as io.EOF; anything shorter
// than announced is a DecodeError.
func (in *Input) ReadString() (string, error) {
	length, err := in.ReadInt32()
	if err != nil {
		if errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return "", io.EOF
		}
		return "", &DecodeError{What: "string length", Err: err}
	}
	if length < 0 {
		return "", &DecodeError{What: "string", Err: fmt.Errorf("negative length %d", length)}
	}
	if length > maxBytesLen {
		return "", &DecodeError{What: "string", Err: fmt.Errorf("length %d exceeds limit %d", length, maxBytesLen)}
	}
	if length == 0 {
		return "", nil
	}

	buf := make([]byte, length)
	if err := in.ReadBytes(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// fill reads exactly n bytes into the scratch buffer. A clean end of
// stream before the first byte surfaces as plain io.EOF so callers can
// treat it as a message boundary.
func (in *Input) fill(what string, n int) error {
	if _, err := io.ReadFull(in.src, in.scratch[:n]); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return &DecodeError{What: what, Err: err}
	}
	return nil
}
