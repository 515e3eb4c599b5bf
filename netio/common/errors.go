package common

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// --------------------------------------------------------------------------
// Sentinel Errors
// --------------------------------------------------------------------------

var (
	// ErrEmptyAddress is returned when an endpoint is constructed with an
	// empty address string
	ErrEmptyAddress = errors.New("address must not be empty")

	// ErrAlreadyOpen is returned when Open is called on a transport that
	// already holds a live socket
	ErrAlreadyOpen = errors.New("transport is already open")

	// ErrNotOpen is returned when an operation requires a live socket but
	// the transport was never opened or has been closed
	ErrNotOpen = errors.New("transport is not open")

	// ErrNotConnected is returned when a connected-mode operation (plain
	// write) is attempted on a transport that was opened in bound mode
	ErrNotConnected = errors.New("transport is not connected to a peer")

	// ErrNoPeer is returned when a datagram stream is flushed before any
	// peer is known, i.e. nothing was received yet and no peer was set
	ErrNoPeer = errors.New("no peer address known")
)

// --------------------------------------------------------------------------
// Error Kinds
// --------------------------------------------------------------------------

// ResolutionError reports a failure to turn an endpoint into a native
// socket address. It is fatal to the endpoint use and never retried.
type ResolutionError struct {
	Address string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve address %q: %v", e.Address, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// SocketError reports an OS-level socket failure (socket/bind/listen/
// connect/setsockopt/send/recv). It carries the failing operation, an
// optional peer description, and the underlying OS error. Fatal to the
// operation; this layer never retries.
type SocketError struct {
	Op   string
	Peer string
	Err  error
}

func (e *SocketError) Error() string {
	if e.Peer != "" {
		return fmt.Sprintf("socket error during %s (peer %s): %v", e.Op, e.Peer, e.Err)
	}
	return fmt.Sprintf("socket error during %s: %v", e.Op, e.Err)
}

func (e *SocketError) Unwrap() error { return e.Err }

// TimeoutError is raised only when an explicitly configured timeout
// expired. It is distinct from a hard failure: the operation may simply be
// retried.
type TimeoutError struct {
	Op      string
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Op, e.Duration)
}

// Timeout marks the error as a timeout in the net.Error sense.
func (e *TimeoutError) Timeout() bool   { return true }
func (e *TimeoutError) Temporary() bool { return true }

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// IsTimeout reports whether err is a configured-timeout expiry, either one
// of this package's TimeoutError values or an OS deadline error surfaced
// through the net package.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
