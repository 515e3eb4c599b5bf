package tcp

import (
	"context"
	"errors"
	"fmt"
	"github.com/markushocke/modern-io/netio/common"
	"net"
	"sync"
	"time"
)

// acceptResult is what a listener feeder hands to Accept
type acceptResult struct {
	conn net.Conn
	err  error
}

// Server owns one listening socket per supported address family (IPv4 and
// IPv6, the latter restricted to IPv6-only) and multiplexes Accept across
// all of them. It satisfies stream.Acceptable[*Client].
type Server struct {
	endpoint common.TCPEndpoint
	opts     common.SocketOptions
	timeout  time.Duration
	timed    bool

	mu        sync.Mutex
	listeners []net.Listener
	results   chan acceptResult
	stop      chan struct{}
	started   bool
	stopped   bool
}

// Option configures a Server
type Option func(*Server)

// WithAcceptTimeout bounds every accept wait. A zero duration makes Accept
// a pure poll; without this option Accept blocks indefinitely.
func WithAcceptTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
		s.timed = true
	}
}

// NewServer creates a server for the given endpoint. Nothing is bound
// until Start.
func NewServer(endpoint common.TCPEndpoint, opts common.SocketOptions, options ...Option) *Server {
	s := &Server{endpoint: endpoint, opts: opts}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// --------------------------------------------------------------------------
// Interface Methods (docu see stream.Acceptable)
// --------------------------------------------------------------------------

// Start binds one listening socket per address family on the configured
// port with address reuse enabled and the OS-maximum backlog. A family
// that cannot be bound is logged and skipped; Start fails only if no
// socket could be bound at all.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return common.ErrAlreadyOpen
	}

	port := int(s.endpoint.Port)
	var firstErr error

	for _, family := range []string{"tcp4", "tcp6"} {
		lc := net.ListenConfig{Control: s.opts.ListenControl(family == "tcp6")}
		l, err := lc.Listen(context.Background(), family, fmt.Sprintf(":%d", port))
		if err != nil {
			Logger.Warningf("failed to bind %s listener on port %d: %v", family, port, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		// with an ephemeral port, keep both families on the port the OS chose first
		if port == 0 {
			port = l.Addr().(*net.TCPAddr).Port
		}
		Logger.Infof("listening on %s (%s)", l.Addr(), family)
		s.listeners = append(s.listeners, l)
	}

	if len(s.listeners) == 0 {
		return &common.SocketError{Op: "listen", Peer: s.endpoint.String(), Err: firstErr}
	}

	s.results = make(chan acceptResult)
	s.stop = make(chan struct{})
	for _, l := range s.listeners {
		go s.feed(l)
	}

	s.started = true
	return nil
}

// Accept waits for readiness across all listening sockets. When an accept
// timeout is configured and expires, it returns a TimeoutError; otherwise
// it blocks until a connection arrives or the server is stopped. The
// accepted socket is returned wrapped in a Client carrying the server's
// socket options.
func (s *Server) Accept() (*Client, error) {
	s.mu.Lock()
	started, results, stop := s.started, s.results, s.stop
	s.mu.Unlock()

	if !started {
		return nil, common.ErrNotOpen
	}

	var res acceptResult

	switch {
	case s.timed && s.timeout == 0:
		// pure poll: only connections that are already pending
		select {
		case res = <-results:
		case <-stop:
			return nil, common.ErrNotOpen
		default:
			return nil, &common.TimeoutError{Op: "accept", Duration: 0}
		}
	case s.timed:
		timer := time.NewTimer(s.timeout)
		defer timer.Stop()
		select {
		case res = <-results:
		case <-timer.C:
			return nil, &common.TimeoutError{Op: "accept", Duration: s.timeout}
		case <-stop:
			return nil, common.ErrNotOpen
		}
	default:
		select {
		case res = <-results:
		case <-stop:
			return nil, common.ErrNotOpen
		}
	}

	if res.err != nil {
		return nil, &common.SocketError{Op: "accept", Err: res.err}
	}
	return NewConnClient(res.conn, s.opts), nil
}

// Stop closes every listening socket. Idempotent; an accept in progress
// returns common.ErrNotOpen.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.stopped {
		return nil
	}
	s.stopped = true
	close(s.stop)
	for _, l := range s.listeners {
		if err := l.Close(); err != nil {
			Logger.Warningf("failed to close listener %s: %v", l.Addr(), err)
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Diagnostics
// --------------------------------------------------------------------------

// Addr returns the address of the first bound listener, nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.listeners) == 0 {
		return nil
	}
	return s.listeners[0].Addr()
}

// Port returns the bound port, 0 before Start. Useful when the endpoint
// requested an ephemeral port.
func (s *Server) Port() uint16 {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return uint16(addr.Port)
	}
	return 0
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// feed accepts from one listener and forwards the result to the shared
// channel until the listener is closed
func (s *Server) feed(l net.Listener) {
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			select {
			case s.results <- acceptResult{err: err}:
			case <-s.stop:
				return
			}
			continue
		}
		select {
		case s.results <- acceptResult{conn: conn}:
		case <-s.stop:
			_ = conn.Close()
			return
		}
	}
}
