package adapters

import (
	"bytes"
	"io"
	"net"
)

// maxDatagramSize is the receive buffer size of a DatagramSource; a UDP
// payload can never exceed 64 KiB.
const maxDatagramSize = 64 * 1024

// --------------------------------------------------------------------------
// Datagram Source
// --------------------------------------------------------------------------

// DatagramSource serves byte-stream reads from one inbound datagram at a
// time: a datagram is fetched on demand, reads drain it until exhausted,
// and only then is the next one fetched. A read never spans two datagrams.
// A zero-length datagram signals end of data.
type DatagramSource struct {
	conn    PacketConn
	scratch []byte
	cur     []byte
	sender  net.Addr
	eof     bool

	// onReceive is invoked with the sender address after every successful
	// fetch; DuplexDatagramStream hooks its peer capture in here
	onReceive func(net.Addr)
}

// NewDatagramSource wraps a packet transport.
func NewDatagramSource(conn PacketConn) *DatagramSource {
	return &DatagramSource{conn: conn, scratch: make([]byte, maxDatagramSize)}
}

func (s *DatagramSource) Read(p []byte) (int, error) {
	if s.eof {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	if len(s.cur) == 0 {
		n, from, err := s.conn.ReadFrom(s.scratch)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			s.eof = true
			return 0, io.EOF
		}
		s.cur = s.scratch[:n]
		s.sender = from
		if s.onReceive != nil {
			s.onReceive(from)
		}
	}

	n := copy(p, s.cur)
	s.cur = s.cur[n:]
	return n, nil
}

// Sender returns the source address of the datagram currently being
// served, nil before the first fetch.
func (s *DatagramSource) Sender() net.Addr {
	return s.sender
}

// --------------------------------------------------------------------------
// Datagram Sink
// --------------------------------------------------------------------------

// DatagramSink buffers every write in memory; Flush sends the accumulated
// bytes as exactly one outgoing datagram. This reconciles UDP's message
// orientation with a byte-stream writer interface.
type DatagramSink struct {
	conn PacketConn
	buf  bytes.Buffer
}

// NewDatagramSink wraps a packet transport.
func NewDatagramSink(conn PacketConn) *DatagramSink {
	return &DatagramSink{conn: conn}
}

func (s *DatagramSink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

// Flush emits the accumulated bytes as one datagram to the connected
// peer. An empty buffer emits nothing.
func (s *DatagramSink) Flush() error {
	return s.flush(func(data []byte) error {
		_, err := s.conn.Write(data)
		return err
	})
}

// FlushTo emits the accumulated bytes as one datagram to an explicit
// destination.
func (s *DatagramSink) FlushTo(addr net.Addr) error {
	return s.flush(func(data []byte) error {
		_, err := s.conn.WriteTo(data, addr)
		return err
	})
}

// Buffered returns the number of bytes accumulated since the last flush.
func (s *DatagramSink) Buffered() int {
	return s.buf.Len()
}

// flush hands the buffered bytes to send and resets the buffer on success
func (s *DatagramSink) flush(send func([]byte) error) error {
	if s.buf.Len() == 0 {
		return nil
	}
	if err := send(s.buf.Bytes()); err != nil {
		return err
	}
	s.buf.Reset()
	return nil
}
