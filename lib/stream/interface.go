package stream

// --------------------------------------------------------------------------
// Capability Contracts
// --------------------------------------------------------------------------

// Readable is the minimal byte-source contract. It is signature-compatible
// with io.Reader: a short read returns fewer bytes than requested without
// error, end of data is io.EOF.
type Readable interface {
	Read(p []byte) (int, error)
}

// Writable is the minimal byte-sink contract, signature-compatible with
// io.Writer. Implementations in this module follow an all-or-error policy:
// a return with n < len(p) always carries a non-nil error.
type Writable interface {
	Write(p []byte) (int, error)
}

// Flusher pushes buffered data down to the underlying transport. For
// datagram-backed sinks a single Flush emits exactly one datagram.
type Flusher interface {
	Flush() error
}

// Closer releases the underlying resource. All Close implementations in
// this module are idempotent.
type Closer interface {
	Close() error
}

// Stream is the canonical duplex surface: everything a handler needs to
// talk over one connection. Adapters (netio/adapters) project transports
// into this shape.
type Stream interface {
	Readable
	Writable
	Flusher
	Closer
}

// Transportable is a transport with a deferred connection: it is constructed
// first and opened later. Exactly one successful Open is expected per
// instance; Close is idempotent.
type Transportable interface {
	Readable
	Writable
	Open() error
	Close() error
}

// --------------------------------------------------------------------------
// Server Contract
// --------------------------------------------------------------------------

// Acceptable is the generic server contract. C is the concrete connection
// type handed out by Accept (e.g. *tcp.Client).
type Acceptable[C any] interface {
	// Start binds the listening socket(s). It fails if nothing could be bound.
	Start() error
	// Accept blocks until a connection is ready or a configured accept
	// timeout expires, in which case it returns a timeout error.
	Accept() (C, error)
	// Stop closes all listening sockets. Idempotent.
	Stop() error
}
