// Package tcp provides the TCP transports of the netio tree: a Client
// owning one connected socket and a Server owning one listening socket per
// address family.
//
// The Client has two construction paths: NewClient stores an endpoint for
// a deferred connection (Open dials later), NewConnClient wraps an already
// connected socket, typically one handed out by Server.Accept. A second
// Open on a live client fails with common.ErrAlreadyOpen instead of
// leaking the previous socket.
//
// The Server binds IPv4 and IPv6 separately, with IPv6 restricted to
// IPv6-only (no dual-stack), and multiplexes Accept across all bound
// listeners with an optional timeout. It satisfies the generic
// stream.Acceptable[*Client] contract consumed by netio/server.
package tcp
