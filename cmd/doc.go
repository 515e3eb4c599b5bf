// Package cmd implements the command-line interface of modern-io. It
// provides a hierarchical command structure for running the echo server
// and exercising it as a client.
//
// The package is organized into several subpackages:
//
//   - serve: Commands for starting the length-prefixed echo server (TCP or UDP)
//   - demo: End-to-end round trips over every transport of the module
//   - perf: Round-trip latency measurements against a running server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See mio -help for a list of all commands.
package cmd
