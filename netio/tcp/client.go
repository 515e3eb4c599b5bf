package tcp

import (
	"errors"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/markushocke/modern-io/netio/common"
	"io"
	"net"
	"os"
	"sync"
	"time"
)

var Logger = logger.GetLogger("netio/tcp")

// Client owns one connected TCP socket. It satisfies the stream contracts
// Readable, Writable and Transportable; exclusive ownership of the socket
// is the mechanism preventing races, the client adds no locking around
// reads and writes.
type Client struct {
	endpoint common.TCPEndpoint
	opts     common.SocketOptions

	mu   sync.Mutex
	conn net.Conn
}

// NewClient creates a client with a deferred connection to the given
// endpoint. The socket is created by Open.
func NewClient(endpoint common.TCPEndpoint, opts common.SocketOptions) *Client {
	return &Client{endpoint: endpoint, opts: opts}
}

// NewConnClient wraps an already-connected socket, e.g. one returned by
// accept. The socket options are applied where they make sense on an
// established connection (keep-alive, non-blocking, timeouts).
func NewConnClient(conn net.Conn, opts common.SocketOptions) *Client {
	if tc, ok := conn.(*net.TCPConn); ok && opts.KeepAlive {
		if err := tc.SetKeepAlive(true); err != nil {
			Logger.Warningf("failed to enable keep-alive: %v", err)
		}
	}
	if opts.NonBlocking {
		if sc, ok := conn.(*net.TCPConn); ok {
			if err := common.ControlNonBlocking(sc, true); err != nil {
				Logger.Warningf("failed to set non-blocking mode: %v", err)
			}
		}
	}
	return &Client{opts: opts, conn: conn}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see stream.Transportable)
// --------------------------------------------------------------------------

// Open resolves the stored endpoint and connects to it. Exactly one
// successful Open is expected per client; calling it again while the
// socket is live fails with common.ErrAlreadyOpen so the previous handle
// can never be leaked.
func (c *Client) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return common.ErrAlreadyOpen
	}

	// resolution is per call, never cached
	addr, err := c.endpoint.Resolve(false)
	if err != nil {
		return err
	}

	dialer := net.Dialer{KeepAlive: c.opts.KeepAlivePeriod()}
	conn, err := dialer.Dial("tcp", addr.String())
	if err != nil {
		return &common.SocketError{Op: "connect", Peer: addr.String(), Err: err}
	}

	if c.opts.NonBlocking {
		if sc, ok := conn.(*net.TCPConn); ok {
			if err := common.ControlNonBlocking(sc, true); err != nil {
				_ = conn.Close()
				return &common.SocketError{Op: "setsockopt", Peer: addr.String(), Err: err}
			}
		}
	}

	Logger.Debugf("connected to %s", addr.String())
	c.conn = conn
	return nil
}

func (c *Client) Read(p []byte) (int, error) {
	conn := c.current()
	if conn == nil {
		return 0, common.ErrNotOpen
	}

	if t := c.opts.ReadTimeout(); t > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(t)); err != nil {
			return 0, &common.SocketError{Op: "read", Err: err}
		}
	}

	n, err := conn.Read(p)
	if err != nil {
		if errors.Is(err, io.EOF) {
			// peer close surfaces as EOF, not as a socket failure
			return n, io.EOF
		}
		if common.IsTimeout(err) {
			return n, &common.TimeoutError{Op: "read", Duration: c.opts.ReadTimeout()}
		}
		return n, &common.SocketError{Op: "read", Peer: c.peerString(), Err: err}
	}
	return n, nil
}

// Write requires the full buffer to be accepted; a short write is reported
// as a SocketError, never retried by this layer.
func (c *Client) Write(p []byte) (int, error) {
	conn := c.current()
	if conn == nil {
		return 0, common.ErrNotOpen
	}

	if t := c.opts.WriteTimeout(); t > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(t)); err != nil {
			return 0, &common.SocketError{Op: "write", Err: err}
		}
	}

	n, err := conn.Write(p)
	if err != nil {
		if common.IsTimeout(err) {
			return n, &common.TimeoutError{Op: "write", Duration: c.opts.WriteTimeout()}
		}
		return n, &common.SocketError{Op: "write", Peer: c.peerString(), Err: err}
	}
	if n < len(p) {
		return n, &common.SocketError{Op: "write", Peer: c.peerString(), Err: io.ErrShortWrite}
	}
	return n, nil
}

// Flush is a no-op: the client is unbuffered. Compose with lib/buffered
// for write coalescing.
func (c *Client) Flush() error { return nil }

// Close releases the socket. Idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	if err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, os.ErrClosed) {
		return &common.SocketError{Op: "close", Err: err}
	}
	return nil
}

// --------------------------------------------------------------------------
// Diagnostics
// --------------------------------------------------------------------------

// IsOpen reports whether the client currently holds a live socket.
func (c *Client) IsOpen() bool {
	return c.current() != nil
}

// LocalAddr returns the local address of the socket, nil when closed.
func (c *Client) LocalAddr() net.Addr {
	if conn := c.current(); conn != nil {
		return conn.LocalAddr()
	}
	return nil
}

// RemoteAddr returns the peer address of the socket, nil when closed.
func (c *Client) RemoteAddr() net.Addr {
	if conn := c.current(); conn != nil {
		return conn.RemoteAddr()
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// current returns the live socket or nil
func (c *Client) current() net.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

func (c *Client) peerString() string {
	if addr := c.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return c.endpoint.String()
}
