package common

import (
	"syscall"
	"time"
)

// --------------------------------------------------------------------------
// Socket Options
// --------------------------------------------------------------------------

// SocketOptions is the cross-platform socket option surface. The boolean
// options map to OS-level setsockopt calls on the raw descriptor; the
// timeouts map to per-call deadlines. Timeout granularity is
// platform-defined.
type SocketOptions struct {
	ReuseAddr      bool
	KeepAlive      bool
	Broadcast      bool
	NonBlocking    bool
	ReadTimeoutMs  int
	WriteTimeoutMs int
}

// DefaultSocketOptions returns the option set used when the caller does not
// care: address reuse on, everything else off, blocking calls without
// deadlines.
func DefaultSocketOptions() SocketOptions {
	return SocketOptions{ReuseAddr: true}
}

// ReadTimeout returns the configured read timeout, 0 if none.
func (o SocketOptions) ReadTimeout() time.Duration {
	return time.Duration(o.ReadTimeoutMs) * time.Millisecond
}

// WriteTimeout returns the configured write timeout, 0 if none.
func (o SocketOptions) WriteTimeout() time.Duration {
	return time.Duration(o.WriteTimeoutMs) * time.Millisecond
}

// KeepAlivePeriod returns the dialer keep-alive period: a positive value
// when keep-alive is requested, a negative one to disable it explicitly.
func (o SocketOptions) KeepAlivePeriod() time.Duration {
	if o.KeepAlive {
		return 30 * time.Second
	}
	return -1
}

// --------------------------------------------------------------------------
// Raw Socket Control
// --------------------------------------------------------------------------

// ListenControl returns a control function for net.ListenConfig that
// applies the boolean options to the socket before bind. ipv6Only
// additionally restricts an IPv6 listener to IPv6 traffic (no dual-stack).
func (o SocketOptions) ListenControl(ipv6Only bool) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		var opErr error
		if err := c.Control(func(fd uintptr) {
			opErr = applySocketOptions(fd, o, ipv6Only)
		}); err != nil {
			return err
		}
		return opErr
	}
}

// ControlNonBlocking toggles O_NONBLOCK on a live socket.
func ControlNonBlocking(conn syscall.Conn, enable bool) error {
	return controlFD(conn, func(fd uintptr) error {
		return setNonblock(fd, enable)
	})
}

// ControlBroadcast toggles SO_BROADCAST on a live socket.
func ControlBroadcast(conn syscall.Conn, enable bool) error {
	return controlFD(conn, func(fd uintptr) error {
		return setBroadcast(fd, enable)
	})
}

// controlFD runs fn on the raw descriptor of conn
func controlFD(conn syscall.Conn, fn func(fd uintptr) error) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var opErr error
	if err := raw.Control(func(fd uintptr) {
		opErr = fn(fd)
	}); err != nil {
		return err
	}
	return opErr
}

// NativeHandle extracts the OS descriptor of a live socket. Diagnostics
// only; the transport keeps exclusive ownership of the handle.
func NativeHandle(conn syscall.Conn) (uintptr, error) {
	var handle uintptr
	err := controlFD(conn, func(fd uintptr) error {
		handle = fd
		return nil
	})
	return handle, err
}
