package server

import (
	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/markushocke/modern-io/lib/stream"
	"github.com/markushocke/modern-io/netio/adapters"
	"github.com/markushocke/modern-io/netio/common"
	"github.com/markushocke/modern-io/netio/tcp"
	"github.com/puzpuzpuz/xsync/v3"
	"sync/atomic"
	"time"
)

var Logger = logger.GetLogger("netio/server")

// DefaultAcceptTimeout bounds each accept wait of the dispatch loop when
// the caller does not configure one. It also bounds the shutdown latency:
// the running flag is polled once per expiry.
const DefaultAcceptTimeout = 500 * time.Millisecond

// HandlerFunc processes one connection. It runs on whatever goroutine the
// executor provides; the stream is closed by the loop when the handler
// returns.
type HandlerFunc func(s *stream.Shared)

// StreamBuilder converts an accepted connection into a shared stream.
type StreamBuilder[C any] func(conn C) (*stream.Shared, error)

// --------------------------------------------------------------------------
// Live Connection Registry & Metrics
// --------------------------------------------------------------------------

var (
	liveStreams = xsync.NewMapOf[string, *stream.Shared]()
	activeConns atomic.Int64

	acceptedTotal       = metrics.GetOrCreateCounter("modernio_server_accepted_total")
	acceptErrorsTotal   = metrics.GetOrCreateCounter("modernio_server_accept_errors_total")
	acceptTimeoutsTotal = metrics.GetOrCreateCounter("modernio_server_accept_timeouts_total")
	handlerPanicsTotal  = metrics.GetOrCreateCounter("modernio_server_handler_panics_total")
	_                   = metrics.GetOrCreateGauge("modernio_server_active_connections", func() float64 {
		return float64(activeConns.Load())
	})
)

// ActiveConnections returns the number of streams currently registered
// with a running handler. Diagnostics only.
func ActiveConnections() int {
	return liveStreams.Size()
}

// --------------------------------------------------------------------------
// Generic Dispatch Loop
// --------------------------------------------------------------------------

// Serve drives the accept/dispatch loop over any Acceptable until the
// running flag goes false: start the server, accept, build a stream,
// submit the handler, repeat. Accept timeouts and errors are logged and
// absorbed so the loop never terminates on a partial failure; handlers in
// flight when the flag flips are unaffected.
func Serve[C any](
	exec IExecutor,
	acceptor stream.Acceptable[C],
	build StreamBuilder[C],
	handler HandlerFunc,
	running *atomic.Bool,
) error {
	if err := acceptor.Start(); err != nil {
		return err
	}
	defer func() {
		if err := acceptor.Stop(); err != nil {
			Logger.Errorf("failed to stop server: %v", err)
		}
	}()

	for running.Load() {
		conn, err := acceptor.Accept()

		// Case timeout: poll the running flag and try again
		if common.IsTimeout(err) {
			acceptTimeoutsTotal.Inc()
			Logger.Debugf("accept timed out, polling running flag")
			continue
		}

		// Case error: log and keep accepting
		if err != nil {
			acceptErrorsTotal.Inc()
			Logger.Errorf("accept failed: %v", err)
			continue
		}

		s, err := build(conn)
		if err != nil {
			acceptErrorsTotal.Inc()
			Logger.Errorf("failed to build stream for accepted connection: %v", err)
			continue
		}

		id := uuid.NewString()
		liveStreams.Store(id, s)
		activeConns.Add(1)
		acceptedTotal.Inc()
		Logger.Debugf("accepted connection %s", id)

		exec.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					handlerPanicsTotal.Inc()
					Logger.Errorf("handler for connection %s panicked: %v", id, r)
				}
				liveStreams.Delete(id)
				activeConns.Add(-1)
				if err := s.Close(); err != nil {
					Logger.Errorf("failed to close stream %s: %v", id, err)
				}
			}()
			handler(s)
		})
	}

	return nil
}

// --------------------------------------------------------------------------
// TCP Server Loop
// --------------------------------------------------------------------------

// RunTCPServer instantiates the dispatch loop for a TCP server at the
// endpoint: every accepted connection is wrapped into a shared duplex
// stream and handed to the handler via the executor. The call returns once
// the running flag goes false; shutdown latency is bounded by the accept
// timeout plus the longest in-flight handler.
func RunTCPServer(
	exec IExecutor,
	handler HandlerFunc,
	running *atomic.Bool,
	endpoint common.TCPEndpoint,
	opts common.SocketOptions,
	acceptTimeout time.Duration,
) error {
	if acceptTimeout <= 0 {
		acceptTimeout = DefaultAcceptTimeout
	}
	srv := tcp.NewServer(endpoint, opts, tcp.WithAcceptTimeout(acceptTimeout))

	build := func(conn *tcp.Client) (*stream.Shared, error) {
		return adapters.NewTCPConnStream(conn), nil
	}

	Logger.Infof("starting tcp server on %s", endpoint.String())
	return Serve(exec, srv, build, handler, running)
}
