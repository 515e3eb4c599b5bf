// Package buffered wraps any Readable/Writable in transparent in-memory
// buffering. The wrappers require no knowledge of the underlying
// transport; Flush and Close are forwarded down the chain.
package buffered
