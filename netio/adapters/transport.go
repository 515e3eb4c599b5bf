package adapters

import (
	"github.com/lni/dragonboat/v4/logger"
	"github.com/markushocke/modern-io/lib/stream"
	"net"
)

var Logger = logger.GetLogger("netio/adapters")

// PacketConn is the structural contract the datagram adapters consume.
// *udp.Transport and *memory.Conn satisfy it.
type PacketConn interface {
	Read(p []byte) (int, error)
	ReadFrom(p []byte) (int, net.Addr, error)
	Write(p []byte) (int, error)
	WriteTo(p []byte, addr net.Addr) (int, error)
	Connected() bool
	Close() error
}

// --------------------------------------------------------------------------
// Stream-Oriented Adapters
// --------------------------------------------------------------------------

// TransportSource presents any Readable as a canonical read surface.
type TransportSource struct {
	inner stream.Readable
}

// NewTransportSource wraps a readable transport.
func NewTransportSource(inner stream.Readable) *TransportSource {
	return &TransportSource{inner: inner}
}

func (s *TransportSource) Read(p []byte) (int, error) {
	return s.inner.Read(p)
}

// TransportSink presents any Writable as a canonical write+flush surface.
type TransportSink struct {
	inner stream.Writable
}

// NewTransportSink wraps a writable transport.
func NewTransportSink(inner stream.Writable) *TransportSink {
	return &TransportSink{inner: inner}
}

func (s *TransportSink) Write(p []byte) (int, error) {
	return s.inner.Write(p)
}

// Flush forwards to the inner transport when it buffers, and is a no-op
// otherwise.
func (s *TransportSink) Flush() error {
	if f, ok := s.inner.(stream.Flusher); ok {
		return f.Flush()
	}
	return nil
}
