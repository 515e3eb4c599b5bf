// Package udp provides the datagram transport of the netio tree.
//
// A Transport owns one UDP socket and is opened in exactly one of two
// modes: OpenBind creates a bound socket that receives from arbitrary
// senders (server side, sender addresses captured via ReadFrom), while
// OpenConnect optionally binds a local port and then connects the socket
// to one fixed remote peer (client side, after which plain Read/Write
// target that peer implicitly).
//
// Broadcast, non-blocking mode and IPv4 multicast group membership are
// supported on top of either mode. Multicast join/leave goes through
// golang.org/x/net/ipv4; failures carry the group address in the error.
package udp
