package common

import (
	"fmt"
	"net"
)

// --------------------------------------------------------------------------
// TCP Endpoint
// --------------------------------------------------------------------------

// TCPEndpoint is an address+port descriptor prior to OS-level resolution.
// It is immutable after construction; resolution happens per call and is
// never cached, so DNS changes are always picked up and resolution failures
// are always surfaced.
type TCPEndpoint struct {
	Address string
	Port    uint16
}

// NewTCPEndpoint creates a TCP endpoint. An empty address fails immediately,
// before any socket is created.
func NewTCPEndpoint(address string, port uint16) (TCPEndpoint, error) {
	if address == "" {
		return TCPEndpoint{}, &ResolutionError{Address: address, Err: ErrEmptyAddress}
	}
	return TCPEndpoint{Address: address, Port: port}, nil
}

// Resolve turns the endpoint into a native TCP address. With passive=true
// the result is a wildcard bind address at the endpoint's port (server
// side); with passive=false it targets Address:Port (client side).
func (e TCPEndpoint) Resolve(passive bool) (*net.TCPAddr, error) {
	if passive {
		return &net.TCPAddr{Port: int(e.Port)}, nil
	}
	if e.Address == "" {
		return nil, &ResolutionError{Address: e.Address, Err: ErrEmptyAddress}
	}
	addr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(e.Address, fmt.Sprintf("%d", e.Port)))
	if err != nil {
		return nil, &ResolutionError{Address: e.Address, Err: err}
	}
	return addr, nil
}

func (e TCPEndpoint) String() string {
	return net.JoinHostPort(e.Address, fmt.Sprintf("%d", e.Port))
}

// --------------------------------------------------------------------------
// UDP Endpoint
// --------------------------------------------------------------------------

// UDPEndpoint is the datagram variant of TCPEndpoint. Address and Port name
// the remote target; BindLocal requests a local bind at LocalPort before
// (or instead of) connecting.
type UDPEndpoint struct {
	Address   string
	Port      uint16
	BindLocal bool
	LocalPort uint16
}

// NewUDPEndpoint creates a client-side UDP endpoint (no local bind). An
// empty address fails immediately.
func NewUDPEndpoint(address string, port uint16) (UDPEndpoint, error) {
	if address == "" {
		return UDPEndpoint{}, &ResolutionError{Address: address, Err: ErrEmptyAddress}
	}
	return UDPEndpoint{Address: address, Port: port}, nil
}

// NewBoundUDPEndpoint creates a UDP endpoint that additionally requests a
// local bind at localPort. Servers typically use localPort == port.
func NewBoundUDPEndpoint(address string, port uint16, localPort uint16) (UDPEndpoint, error) {
	if address == "" {
		return UDPEndpoint{}, &ResolutionError{Address: address, Err: ErrEmptyAddress}
	}
	return UDPEndpoint{Address: address, Port: port, BindLocal: true, LocalPort: localPort}, nil
}

// Resolve turns the endpoint into a native UDP address. With passive=true
// the result is a wildcard bind address at the local port (LocalPort when
// a local bind was requested, Port otherwise); with passive=false it
// targets Address:Port.
func (e UDPEndpoint) Resolve(passive bool) (*net.UDPAddr, error) {
	if passive {
		port := e.Port
		if e.BindLocal {
			port = e.LocalPort
		}
		return &net.UDPAddr{Port: int(port)}, nil
	}
	if e.Address == "" {
		return nil, &ResolutionError{Address: e.Address, Err: ErrEmptyAddress}
	}
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(e.Address, fmt.Sprintf("%d", e.Port)))
	if err != nil {
		return nil, &ResolutionError{Address: e.Address, Err: err}
	}
	return addr, nil
}

func (e UDPEndpoint) String() string {
	return net.JoinHostPort(e.Address, fmt.Sprintf("%d", e.Port))
}
