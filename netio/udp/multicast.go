package udp

import (
	"fmt"
	"github.com/markushocke/modern-io/netio/common"
	"golang.org/x/net/ipv4"
	"net"
)

// JoinGroup joins an IPv4 multicast group on the given interface (nil for
// the system default). The group must be a valid IPv4 multicast address;
// failures carry the group address in the error.
func (t *Transport) JoinGroup(group string, ifi *net.Interface) error {
	conn := t.current()
	if conn == nil {
		return common.ErrNotOpen
	}

	addr, err := multicastAddr(group)
	if err != nil {
		return err
	}

	if err := ipv4.NewPacketConn(conn).JoinGroup(ifi, addr); err != nil {
		return &common.SocketError{Op: fmt.Sprintf("join multicast group %s", group), Err: err}
	}
	Logger.Debugf("joined multicast group %s", group)
	return nil
}

// LeaveGroup leaves a previously joined IPv4 multicast group.
func (t *Transport) LeaveGroup(group string, ifi *net.Interface) error {
	conn := t.current()
	if conn == nil {
		return common.ErrNotOpen
	}

	addr, err := multicastAddr(group)
	if err != nil {
		return err
	}

	if err := ipv4.NewPacketConn(conn).LeaveGroup(ifi, addr); err != nil {
		return &common.SocketError{Op: fmt.Sprintf("leave multicast group %s", group), Err: err}
	}
	Logger.Debugf("left multicast group %s", group)
	return nil
}

// multicastAddr parses and validates an IPv4 multicast group address
func multicastAddr(group string) (*net.UDPAddr, error) {
	ip := net.ParseIP(group)
	if ip == nil || ip.To4() == nil {
		return nil, &common.SocketError{
			Op:  fmt.Sprintf("join multicast group %s", group),
			Err: fmt.Errorf("not a valid IPv4 address"),
		}
	}
	if !ip.IsMulticast() {
		return nil, &common.SocketError{
			Op:  fmt.Sprintf("join multicast group %s", group),
			Err: fmt.Errorf("not a multicast address"),
		}
	}
	return &net.UDPAddr{IP: ip}, nil
}
