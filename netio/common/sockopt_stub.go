//go:build !unix

package common

// Non-unix platforms rely on the defaults of the net package; the raw
// option setters degrade to no-ops there.

func applySocketOptions(fd uintptr, o SocketOptions, ipv6Only bool) error { return nil }

func setNonblock(fd uintptr, enable bool) error { return nil }

func setBroadcast(fd uintptr, enable bool) error { return nil }
