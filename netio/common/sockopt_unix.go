//go:build unix

package common

import (
	"golang.org/x/sys/unix"
)

// applySocketOptions sets the boolean socket options on a raw descriptor.
// Called from the ListenConfig control function, i.e. after socket() and
// before bind().
func applySocketOptions(fd uintptr, o SocketOptions, ipv6Only bool) error {
	if o.ReuseAddr {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			return err
		}
	}
	if o.Broadcast {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1); err != nil {
			return err
		}
	}
	if ipv6Only {
		if err := unix.SetsockoptInt(int(fd), unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, 1); err != nil {
			return err
		}
	}
	if o.NonBlocking {
		if err := unix.SetNonblock(int(fd), true); err != nil {
			return err
		}
	}
	return nil
}

func setNonblock(fd uintptr, enable bool) error {
	return unix.SetNonblock(int(fd), enable)
}

func setBroadcast(fd uintptr, enable bool) error {
	v := 0
	if enable {
		v = 1
	}
	return unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, v)
}
