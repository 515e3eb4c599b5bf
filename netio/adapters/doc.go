// Package adapters projects transports into the canonical stream shape of
// lib/stream so files, TCP sockets and UDP sockets become interchangeable
// upstream.
//
// The stream-oriented adapters are thin: TransportSource and TransportSink
// forward reads and writes to any Readable/Writable and add nothing else.
//
// The datagram adapters reconcile UDP's message-oriented nature with the
// byte-stream surface. DatagramSink buffers every write in memory and, on
// Flush, sends the accumulated bytes as exactly one outgoing datagram.
// DatagramSource fetches one inbound datagram into an internal buffer on
// demand and serves reads from it until exhausted before fetching the
// next: a read never spans two datagrams, and a zero-length datagram
// signals end of data.
//
// DuplexDatagramStream composes a datagram source+sink and remembers the
// most recent sender on every successful receive; that address is the
// implicit destination for the next Flush on an unconnected transport. The
// remembered peer is guarded by a mutex because a receiving goroutine may
// update it concurrently with a writing goroutine using it. Flushing
// before any peer is known (neither received nor set via SetPeer) fails
// with common.ErrNoPeer.
//
// TCPDuplexStream composes a source+sink pair over one shared connection
// with no added synchronization; concurrent read+write safety is the
// underlying transport's own affair.
//
// The builder functions at the bottom of the package produce shared
// handles (stream.Shared) over fully wired transport+adapter stacks, one
// per deployment shape: TCP client, accepted TCP connection, UDP client,
// UDP server, in-memory pair endpoint.
package adapters
