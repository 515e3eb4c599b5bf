package datastream

import (
	"encoding/binary"
	"fmt"
	"github.com/markushocke/modern-io/lib/stream"
	"math"
)

// Output encodes primitives onto any Writable in a fixed byte order.
type Output struct {
	dst     stream.Writable
	order   binary.ByteOrder
	scratch [8]byte
}

// NewOutput creates an encoder over dst. The byte order applies to every
// multi-byte primitive and to string length prefixes.
func NewOutput(dst stream.Writable, order binary.ByteOrder) *Output {
	return &Output{dst: dst, order: order}
}

// --------------------------------------------------------------------------
// Primitive Writers
// --------------------------------------------------------------------------

func (out *Output) WriteBool(v bool) error {
	if v {
		return out.WriteUint8(1)
	}
	return out.WriteUint8(0)
}

func (out *Output) WriteUint8(v uint8) error {
	out.scratch[0] = v
	return out.emit(1)
}

func (out *Output) WriteInt8(v int8) error {
	return out.WriteUint8(uint8(v))
}

func (out *Output) WriteUint16(v uint16) error {
	out.order.PutUint16(out.scratch[:2], v)
	return out.emit(2)
}

func (out *Output) WriteInt16(v int16) error {
	return out.WriteUint16(uint16(v))
}

func (out *Output) WriteUint32(v uint32) error {
	out.order.PutUint32(out.scratch[:4], v)
	return out.emit(4)
}

func (out *Output) WriteInt32(v int32) error {
	return out.WriteUint32(uint32(v))
}

func (out *Output) WriteUint64(v uint64) error {
	out.order.PutUint64(out.scratch[:8], v)
	return out.emit(8)
}

func (out *Output) WriteInt64(v int64) error {
	return out.WriteUint64(uint64(v))
}

func (out *Output) WriteFloat32(v float32) error {
	return out.WriteUint32(math.Float32bits(v))
}

func (out *Output) WriteFloat64(v float64) error {
	return out.WriteUint64(math.Float64bits(v))
}

// WriteBytes writes p verbatim, without a length prefix.
func (out *Output) WriteBytes(p []byte) error {
	_, err := out.dst.Write(p)
	return err
}

// WriteString encodes a length-prefixed string: a 4-byte signed length in
// the configured byte order followed by the raw bytes.
func (out *Output) WriteString(s string) error {
	if len(s) > math.MaxInt32 {
		return fmt.Errorf("string length %d exceeds the int32 prefix", len(s))
	}
	if err := out.WriteInt32(int32(len(s))); err != nil {
		return err
	}
	return out.WriteBytes([]byte(s))
}

// Flush forwards to the destination when it buffers, and is a no-op
// otherwise.
func (out *Output) Flush() error {
	if f, ok := out.dst.(stream.Flusher); ok {
		return f.Flush()
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// emit writes the first n scratch bytes
func (out *Output) emit(n int) error {
	_, err := out.dst.Write(out.scratch[:n])
	return err
}
