// Package stream defines the capability contracts that let heterogeneous
// byte transports compose uniformly, plus a shared-ownership handle that
// splits one transport across independently-lived consumers.
//
// The contracts are structural: a type participates in a generic algorithm
// by exposing the right method set, never by embedding a base type. Any
// concrete type may satisfy zero, one, or several contracts simultaneously.
// Files (lib/fileio), TCP connections (netio/tcp), UDP sockets (netio/udp)
// and in-memory pairs (netio/memory) all satisfy the same contracts, which
// is what makes the serialization layer (lib/datastream) and the buffering
// layer (lib/buffered) transport-agnostic.
//
// The contracts:
//
//   - Readable / Writable: the minimal byte source/sink, signature-compatible
//     with io.Reader and io.Writer so the standard helpers (io.ReadFull etc.)
//     keep working.
//
//   - Flusher / Closer: optional lifecycle capabilities. Buffering wrappers
//     forward Flush down the chain; owning wrappers forward Close.
//
//   - Stream: the full duplex surface (Readable + Writable + Flusher +
//     Closer). This is what adapters produce and what handlers consume.
//
//   - Transportable: a deferred-open transport (Open + Read/Write + Close).
//
//   - Acceptable[C]: the generic server contract (Start/Accept/Stop). The
//     dispatch loop in netio/server is written against this, never against
//     a concrete server type.
//
// Shared is a reference-counted handle over one Stream. One physical
// connection is frequently split into an input-role handle (owned by a
// reader) and an output-role handle (owned by a writer) that are created,
// passed around and closed independently; the underlying connection must
// outlive whichever role is dropped last and be closed exactly once.
package stream
