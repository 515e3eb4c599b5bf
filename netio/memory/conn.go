package memory

import (
	"github.com/eapache/queue"
	"github.com/markushocke/modern-io/netio/common"
	"io"
	"net"
	"sync"
)

// Addr identifies one end of an in-memory pair.
type Addr string

func (a Addr) Network() string { return "memory" }
func (a Addr) String() string  { return string(a) }

// message is one queued datagram with its sender
type message struct {
	data []byte
	from net.Addr
}

// Conn is one end of an in-memory datagram pair. It satisfies the same
// packet-oriented surface as *udp.Transport: Read/ReadFrom dequeue exactly
// one message each, Write/WriteTo enqueue exactly one message on the peer.
type Conn struct {
	addr Addr
	peer *Conn

	mu         sync.Mutex
	cond       *sync.Cond
	inbox      *queue.Queue
	closed     bool
	peerClosed bool
}

// NewPair creates two connected in-memory endpoints.
func NewPair() (*Conn, *Conn) {
	a := newConn("memory-a")
	b := newConn("memory-b")
	a.peer, b.peer = b, a
	return a, b
}

func newConn(name string) *Conn {
	c := &Conn{addr: Addr(name), inbox: queue.New()}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// --------------------------------------------------------------------------
// Datagram I/O (surface mirrors *udp.Transport)
// --------------------------------------------------------------------------

// Read dequeues one message. A message larger than p is truncated,
// UDP-style; the remainder is discarded.
func (c *Conn) Read(p []byte) (int, error) {
	n, _, err := c.ReadFrom(p)
	return n, err
}

// ReadFrom dequeues one message and yields the sender's address. It blocks
// until a message is available; once the peer has closed and the inbox is
// drained it returns io.EOF.
func (c *Conn) ReadFrom(p []byte) (int, net.Addr, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.inbox.Length() == 0 {
		if c.closed {
			return 0, nil, common.ErrNotOpen
		}
		if c.peerClosed {
			return 0, nil, io.EOF
		}
		c.cond.Wait()
	}

	msg := c.inbox.Remove().(message)
	n := copy(p, msg.data)
	return n, msg.from, nil
}

// Write enqueues p as one message on the peer.
func (c *Conn) Write(p []byte) (int, error) {
	peer := c.peer
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return 0, common.ErrNotOpen
	}
	return peer.deliver(p, c.addr)
}

// WriteTo enqueues p as one message on the peer. The explicit address is
// accepted for surface compatibility; an in-memory pair has exactly one
// possible destination.
func (c *Conn) WriteTo(p []byte, _ net.Addr) (int, error) {
	return c.Write(p)
}

// Connected reports true: a pair endpoint always has a fixed peer.
func (c *Conn) Connected() bool { return true }

// Close marks this end closed, wakes its readers and lets the peer drain
// to EOF. Idempotent.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.cond.Broadcast()
	c.mu.Unlock()

	c.peer.notifyPeerClosed()
	return nil
}

// LocalAddr returns the address of this end.
func (c *Conn) LocalAddr() net.Addr { return c.addr }

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// deliver enqueues one message and wakes a blocked reader
func (c *Conn) deliver(p []byte, from net.Addr) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, io.ErrClosedPipe
	}

	data := make([]byte, len(p))
	copy(data, p)
	c.inbox.Add(message{data: data, from: from})
	c.cond.Signal()
	return len(p), nil
}

func (c *Conn) notifyPeerClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peerClosed = true
	c.cond.Broadcast()
}
