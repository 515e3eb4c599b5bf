package udp

import (
	"context"
	"errors"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/markushocke/modern-io/netio/common"
	"net"
	"os"
	"sync"
	"time"
)

var Logger = logger.GetLogger("netio/udp")

// Transport owns one UDP socket. Exactly one successful OpenBind or
// OpenConnect is expected per instance; Close is idempotent. The socket is
// exclusively owned, the transport adds no locking around reads and writes.
type Transport struct {
	opts common.SocketOptions

	mu        sync.Mutex
	conn      *net.UDPConn
	connected bool
}

// NewTransport creates a transport without a socket. The socket is created
// by OpenBind or OpenConnect.
func NewTransport(opts common.SocketOptions) *Transport {
	return &Transport{opts: opts}
}

// --------------------------------------------------------------------------
// Open / Close
// --------------------------------------------------------------------------

// OpenBind creates a UDP socket and binds it to the local endpoint. Used
// by servers that must receive from arbitrary senders and reply per
// sender. Plain Write is meaningless on a bound-only socket and fails
// with ErrNotConnected.
func (t *Transport) OpenBind(endpoint common.UDPEndpoint) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		return common.ErrAlreadyOpen
	}

	addr, err := endpoint.Resolve(true)
	if err != nil {
		return err
	}

	lc := net.ListenConfig{Control: t.opts.ListenControl(false)}
	pc, err := lc.ListenPacket(context.Background(), "udp", addr.String())
	if err != nil {
		return &common.SocketError{Op: "bind", Peer: addr.String(), Err: err}
	}

	Logger.Debugf("bound udp socket on %s", pc.LocalAddr())
	t.conn = pc.(*net.UDPConn)
	t.connected = false
	return nil
}

// OpenConnect creates a UDP socket, optionally binds it to the endpoint's
// local port first, then connects it to the remote peer. Used by clients;
// afterwards plain Read/Write target that peer implicitly.
func (t *Transport) OpenConnect(endpoint common.UDPEndpoint) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		return common.ErrAlreadyOpen
	}

	remote, err := endpoint.Resolve(false)
	if err != nil {
		return err
	}

	dialer := net.Dialer{Control: t.opts.ListenControl(false)}
	if endpoint.BindLocal {
		dialer.LocalAddr = &net.UDPAddr{Port: int(endpoint.LocalPort)}
	}

	conn, err := dialer.Dial("udp", remote.String())
	if err != nil {
		return &common.SocketError{Op: "connect", Peer: remote.String(), Err: err}
	}

	Logger.Debugf("connected udp socket %s -> %s", conn.LocalAddr(), conn.RemoteAddr())
	t.conn = conn.(*net.UDPConn)
	t.connected = true
	return nil
}

// Close releases the socket. Idempotent.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	t.connected = false
	if err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, os.ErrClosed) {
		return &common.SocketError{Op: "close", Err: err}
	}
	return nil
}

// --------------------------------------------------------------------------
// Datagram I/O
// --------------------------------------------------------------------------

// Read receives one datagram into p. A datagram larger than p is
// truncated, UDP-style.
func (t *Transport) Read(p []byte) (int, error) {
	n, _, err := t.ReadFrom(p)
	return n, err
}

// ReadFrom receives one datagram and additionally yields the sender's
// address, which is required to implement reply-to-sender semantics above
// this layer.
func (t *Transport) ReadFrom(p []byte) (int, net.Addr, error) {
	conn := t.current()
	if conn == nil {
		return 0, nil, common.ErrNotOpen
	}

	if d := t.opts.ReadTimeout(); d > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(d)); err != nil {
			return 0, nil, &common.SocketError{Op: "recv", Err: err}
		}
	}

	n, addr, err := conn.ReadFrom(p)
	if err != nil {
		if common.IsTimeout(err) {
			return n, addr, &common.TimeoutError{Op: "recv", Duration: t.opts.ReadTimeout()}
		}
		if errors.Is(err, net.ErrClosed) {
			return n, addr, common.ErrNotOpen
		}
		return n, addr, &common.SocketError{Op: "recv", Err: err}
	}
	return n, addr, nil
}

// Write sends p as one datagram to the connected peer. Only valid after
// OpenConnect; on a bound-only socket it fails with ErrNotConnected.
func (t *Transport) Write(p []byte) (int, error) {
	t.mu.Lock()
	conn, connected := t.conn, t.connected
	t.mu.Unlock()

	if conn == nil {
		return 0, common.ErrNotOpen
	}
	if !connected {
		return 0, common.ErrNotConnected
	}

	if d := t.opts.WriteTimeout(); d > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(d)); err != nil {
			return 0, &common.SocketError{Op: "send", Err: err}
		}
	}

	n, err := conn.Write(p)
	if err != nil {
		if common.IsTimeout(err) {
			return n, &common.TimeoutError{Op: "send", Duration: t.opts.WriteTimeout()}
		}
		return n, &common.SocketError{Op: "send", Peer: conn.RemoteAddr().String(), Err: err}
	}
	return n, nil
}

// WriteTo sends p as one datagram to an explicit destination, regardless
// of connection state. The OS rejects this on connected sockets; the
// rejection surfaces as a SocketError.
func (t *Transport) WriteTo(p []byte, addr net.Addr) (int, error) {
	conn := t.current()
	if conn == nil {
		return 0, common.ErrNotOpen
	}

	if d := t.opts.WriteTimeout(); d > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(d)); err != nil {
			return 0, &common.SocketError{Op: "send", Err: err}
		}
	}

	n, err := conn.WriteTo(p, addr)
	if err != nil {
		if common.IsTimeout(err) {
			return n, &common.TimeoutError{Op: "send", Duration: t.opts.WriteTimeout()}
		}
		return n, &common.SocketError{Op: "send", Peer: addr.String(), Err: err}
	}
	return n, nil
}

// --------------------------------------------------------------------------
// Socket Options
// --------------------------------------------------------------------------

// SetBroadcast toggles SO_BROADCAST on the live socket.
func (t *Transport) SetBroadcast(enable bool) error {
	conn := t.current()
	if conn == nil {
		return common.ErrNotOpen
	}
	if err := common.ControlBroadcast(conn, enable); err != nil {
		return &common.SocketError{Op: "setsockopt", Err: err}
	}
	return nil
}

// SetNonBlocking toggles O_NONBLOCK on the live socket.
func (t *Transport) SetNonBlocking(enable bool) error {
	conn := t.current()
	if conn == nil {
		return common.ErrNotOpen
	}
	if err := common.ControlNonBlocking(conn, enable); err != nil {
		return &common.SocketError{Op: "setsockopt", Err: err}
	}
	return nil
}

// --------------------------------------------------------------------------
// Diagnostics
// --------------------------------------------------------------------------

// IsOpen reports whether the transport currently holds a live socket.
func (t *Transport) IsOpen() bool {
	return t.current() != nil
}

// Connected reports whether the socket was opened via OpenConnect.
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil && t.connected
}

// LocalAddr returns the bound local address, nil when closed.
func (t *Transport) LocalAddr() net.Addr {
	if conn := t.current(); conn != nil {
		return conn.LocalAddr()
	}
	return nil
}

// NativeHandle exposes the OS descriptor for diagnostics.
func (t *Transport) NativeHandle() (uintptr, error) {
	conn := t.current()
	if conn == nil {
		return 0, common.ErrNotOpen
	}
	return common.NativeHandle(conn)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// current returns the live socket or nil
func (t *Transport) current() *net.UDPConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn
}
