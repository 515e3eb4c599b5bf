// Package datastream (de)serializes primitives over any byte stream in a
// configurable byte order. It depends only on the generic Readable and
// Writable contracts of lib/stream, so the same code path serves files,
// TCP connections, UDP datagram streams and in-memory buffers.
//
// Strings use a length-prefixed wire format: a 4-byte signed length in the
// configured byte order followed by that many raw bytes. A decode that
// cannot obtain enough bytes fails with a DecodeError, never silently
// zero-pads.
package datastream
