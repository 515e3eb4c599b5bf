// Package netio provides the network transports of the module and the
// machinery to serve connections over them. It sits below the framing and
// buffering layers in lib: transports expose raw byte streams, the
// adapters lift datagram sockets to the same surface.
//
// The package is organized into several subpackages:
//
//   - common: Endpoints, socket options, error kinds and logging shared by
//     all transports.
//
//   - tcp: Connection-oriented transport with a deferred-connect client
//     and a dual-stack server (one listening socket per address family).
//
//   - udp: Datagram transport in connected and bound mode, with sender
//     tracking, broadcast and multicast group membership.
//
//   - memory: In-process connection pairs with datagram semantics, for
//     tests and loopback wiring without sockets.
//
//   - adapters: Bridges from datagram sockets to the stream contracts
//     (datagram source/sink, duplex streams) and the shared-stream
//     builders used by clients and the server loop.
//
//   - server: Pluggable executors and the generic accept/dispatch loop
//     driving a handler per accepted connection.
package netio
