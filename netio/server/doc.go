// Package server provides the executor contract and the generic
// accept/dispatch loop.
//
// The executor is a narrow "run this work somewhere" interface. The
// default implementation spawns one goroutine per submission, unbounded,
// with no pooling and no backpressure; a bounded implementation can be
// substituted without touching the loop. A synchronous implementation is
// included for tests.
//
// The loop is written against stream.Acceptable, never against a concrete
// server type: while the shared running flag is set it blocks on Accept,
// converts each accepted connection into a shared stream via a
// caller-supplied builder, and submits the caller's handler to the
// executor so handling never blocks the accept loop. Accept failures are
// logged and absorbed, the loop continues. Shutdown is cooperative only:
// the flag is polled before each accept attempt, so shutdown latency is
// bounded by the accept timeout plus the longest in-flight handler, which
// is never cancelled.
//
// Live connections are registered in a concurrent map keyed by a per
// connection id, and the loop maintains Prometheus-style counters for
// accepted connections, accept errors and timeouts, and handler panics.
package server
