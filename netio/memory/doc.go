// Package memory provides an in-process datagram transport: a pair of
// connected endpoints that preserve message boundaries exactly like UDP
// sockets, without touching the network stack. Adapter and serialization
// tests run against it, and the demo command uses it to show that the
// stream contracts compose independently of the transport.
package memory
