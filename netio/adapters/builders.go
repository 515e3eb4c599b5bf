package adapters

import (
	"github.com/markushocke/modern-io/lib/stream"
	"github.com/markushocke/modern-io/netio/common"
	"github.com/markushocke/modern-io/netio/memory"
	"github.com/markushocke/modern-io/netio/tcp"
	"github.com/markushocke/modern-io/netio/udp"
)

// --------------------------------------------------------------------------
// Shared Stream Builders
// --------------------------------------------------------------------------

// NewTCPClientStream connects to the endpoint and returns a shared handle
// over the duplex stream. The caller owns the handle; closing the last
// acquired handle closes the connection.
func NewTCPClientStream(endpoint common.TCPEndpoint, opts common.SocketOptions) (*stream.Shared, error) {
	client := tcp.NewClient(endpoint, opts)
	if err := client.Open(); err != nil {
		return nil, err
	}
	return stream.NewShared(NewTCPDuplexStream(client)), nil
}

// NewTCPConnStream wraps an accepted connection into a shared duplex
// handle. This is the builder the server dispatch loop uses.
func NewTCPConnStream(client *tcp.Client) *stream.Shared {
	return stream.NewShared(NewTCPDuplexStream(client))
}

// NewUDPClientStream opens a connected UDP transport to the endpoint and
// returns a shared handle over its duplex datagram stream. The resolved
// remote is pre-set as the peer so the client can send first.
func NewUDPClientStream(endpoint common.UDPEndpoint, opts common.SocketOptions) (*stream.Shared, error) {
	transport := udp.NewTransport(opts)
	if err := transport.OpenConnect(endpoint); err != nil {
		return nil, err
	}

	duplex := NewDuplexDatagramStream(transport)
	if remote, err := endpoint.Resolve(false); err == nil {
		duplex.SetPeer(remote)
	}
	return stream.NewShared(duplex), nil
}

// NewUDPServerStream opens a bound UDP transport at the endpoint and
// returns a shared handle over its duplex datagram stream. The peer is
// learned from inbound traffic; flushing before the first receive fails
// with common.ErrNoPeer.
func NewUDPServerStream(endpoint common.UDPEndpoint, opts common.SocketOptions) (*stream.Shared, error) {
	transport := udp.NewTransport(opts)
	if err := transport.OpenBind(endpoint); err != nil {
		return nil, err
	}
	return stream.NewShared(NewDuplexDatagramStream(transport)), nil
}

// NewMemoryStream wraps one end of an in-memory pair into a shared duplex
// datagram handle.
func NewMemoryStream(conn *memory.Conn) *stream.Shared {
	return stream.NewShared(NewDuplexDatagramStream(conn))
}
