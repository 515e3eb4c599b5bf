package adapters

import (
	"github.com/markushocke/modern-io/lib/stream"
	"github.com/markushocke/modern-io/netio/common"
	"net"
	"sync"
)

// --------------------------------------------------------------------------
// Duplex Datagram Stream
// --------------------------------------------------------------------------

// DuplexDatagramStream composes a datagram source+sink over one packet
// transport and tracks the last-seen peer for implicit reply addressing:
// every successful receive remembers the sender, and a subsequent Flush on
// an unconnected transport targets that remembered peer. The peer can also
// be set explicitly before any datagram has been received, enabling a
// client to send first.
type DuplexDatagramStream struct {
	conn   PacketConn
	source *DatagramSource
	sink   *DatagramSink

	// peerMu guards the remembered peer as a single unit; a receiving
	// goroutine may update it concurrently with a writing goroutine using it
	peerMu sync.Mutex
	peer   net.Addr
}

// NewDuplexDatagramStream wires a source+sink pair over the transport and
// hooks sender capture into the source.
func NewDuplexDatagramStream(conn PacketConn) *DuplexDatagramStream {
	d := &DuplexDatagramStream{
		conn: conn,
		sink: NewDatagramSink(conn),
	}
	d.source = NewDatagramSource(conn)
	d.source.onReceive = d.rememberPeer
	return d
}

// --------------------------------------------------------------------------
// Interface Methods (docu see stream.Stream)
// --------------------------------------------------------------------------

func (d *DuplexDatagramStream) Read(p []byte) (int, error) {
	return d.source.Read(p)
}

func (d *DuplexDatagramStream) Write(p []byte) (int, error) {
	return d.sink.Write(p)
}

// Flush sends the accumulated bytes as one datagram. On a connected
// transport the connected peer is the destination; otherwise the
// remembered peer is used. Flushing with no peer known fails with
// common.ErrNoPeer rather than sending to an unset address.
func (d *DuplexDatagramStream) Flush() error {
	if d.conn.Connected() {
		return d.sink.Flush()
	}
	peer := d.Peer()
	if peer == nil {
		return common.ErrNoPeer
	}
	return d.sink.FlushTo(peer)
}

func (d *DuplexDatagramStream) Close() error {
	return d.conn.Close()
}

// --------------------------------------------------------------------------
// Peer Tracking
// --------------------------------------------------------------------------

// SetPeer sets the implicit reply destination explicitly, e.g. for a
// client that must send before having received anything.
func (d *DuplexDatagramStream) SetPeer(addr net.Addr) {
	d.peerMu.Lock()
	defer d.peerMu.Unlock()
	d.peer = addr
}

// Peer returns a snapshot of the remembered peer, nil when none is known.
func (d *DuplexDatagramStream) Peer() net.Addr {
	d.peerMu.Lock()
	defer d.peerMu.Unlock()
	return d.peer
}

// rememberPeer updates the remembered peer on every successful receive
func (d *DuplexDatagramStream) rememberPeer(addr net.Addr) {
	d.peerMu.Lock()
	defer d.peerMu.Unlock()
	d.peer = addr
}

// --------------------------------------------------------------------------
// TCP Duplex Stream
// --------------------------------------------------------------------------

// TCPDuplexStream composes a source+sink pair over one shared
// byte-stream connection. It adds no synchronization: whether concurrent
// read+write from different goroutines is safe is the underlying
// transport's own affair.
type TCPDuplexStream struct {
	source *TransportSource
	sink   *TransportSink
	conn   stream.Closer
}

// connection is the combined surface a duplex stream composes over
type connection interface {
	stream.Readable
	stream.Writable
	stream.Closer
}

// NewTCPDuplexStream wires a source+sink pair over one connection.
func NewTCPDuplexStream(conn connection) *TCPDuplexStream {
	return &TCPDuplexStream{
		source: NewTransportSource(conn),
		sink:   NewTransportSink(conn),
		conn:   conn,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see stream.Stream)
// --------------------------------------------------------------------------

func (d *TCPDuplexStream) Read(p []byte) (int, error) {
	return d.source.Read(p)
}

func (d *TCPDuplexStream) Write(p []byte) (int, error) {
	return d.sink.Write(p)
}

func (d *TCPDuplexStream) Flush() error {
	return d.sink.Flush()
}

func (d *TCPDuplexStream) Close() error {
	return d.conn.Close()
}
