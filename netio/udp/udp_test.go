package udp

import (
	"errors"
	"github.com/markushocke/modern-io/netio/common"
	"net"
	"strings"
	"testing"
)

// openBoundTransport binds a transport to an ephemeral local port and
// returns it together with the port the OS chose
func openBoundTransport(t *testing.T, opts common.SocketOptions) (*Transport, uint16) {
	t.Helper()

	ep, err := common.NewBoundUDPEndpoint("127.0.0.1", 0, 0)
	if err != nil {
		t.Fatalf("failed to create endpoint: %v", err)
	}

	tr := NewTransport(opts)
	if err := tr.OpenBind(ep); err != nil {
		t.Fatalf("failed to bind: %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })

	port := uint16(tr.LocalAddr().(*net.UDPAddr).Port)
	return tr, port
}

// openConnectedTransport connects a client transport to the given port
func openConnectedTransport(t *testing.T, port uint16, opts common.SocketOptions) *Transport {
	t.Helper()

	ep, err := common.NewUDPEndpoint("127.0.0.1", port)
	if err != nil {
		t.Fatalf("failed to create endpoint: %v", err)
	}

	tr := NewTransport(opts)
	if err := tr.OpenConnect(ep); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestBoundAndConnectedRoundTrip(t *testing.T) {
	server, port := openBoundTransport(t, common.DefaultSocketOptions())
	client := openConnectedTransport(t, port, common.DefaultSocketOptions())

	if !client.Connected() {
		t.Fatal("client transport must report connected")
	}
	if server.Connected() {
		t.Fatal("bound transport must not report connected")
	}

	if _, err := client.Write([]byte("UDP-PING")); err != nil {
		t.Fatalf("client write failed: %v", err)
	}

	buf := make([]byte, 64)
	n, from, err := server.ReadFrom(buf)
	if err != nil {
		t.Fatalf("server read failed: %v", err)
	}
	if string(buf[:n]) != "UDP-PING" {
		t.Fatalf("expected 'UDP-PING', got %q", buf[:n])
	}
	if from == nil {
		t.Fatal("bound-mode read must capture the sender address")
	}

	// reply to the captured sender without the client ever telling us
	if _, err := server.WriteTo([]byte("UDP-PONG"), from); err != nil {
		t.Fatalf("server reply failed: %v", err)
	}

	n, err = client.Read(buf)
	if err != nil {
		t.Fatalf("client read failed: %v", err)
	}
	if string(buf[:n]) != "UDP-PONG" {
		t.Fatalf("expected 'UDP-PONG', got %q", buf[:n])
	}
}

func TestWriteOnBoundSocketFails(t *testing.T) {
	server, _ := openBoundTransport(t, common.DefaultSocketOptions())

	if _, err := server.Write([]byte("nope")); !errors.Is(err, common.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestDoubleOpenFails(t *testing.T) {
	server, port := openBoundTransport(t, common.DefaultSocketOptions())

	ep, _ := common.NewUDPEndpoint("127.0.0.1", port)
	if err := server.OpenConnect(ep); !errors.Is(err, common.ErrAlreadyOpen) {
		t.Fatalf("expected ErrAlreadyOpen, got %v", err)
	}

	ep2, _ := common.NewBoundUDPEndpoint("127.0.0.1", 0, 0)
	if err := server.OpenBind(ep2); !errors.Is(err, common.ErrAlreadyOpen) {
		t.Fatalf("expected ErrAlreadyOpen, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	server, _ := openBoundTransport(t, common.DefaultSocketOptions())

	for i := 0; i < 3; i++ {
		if err := server.Close(); err != nil {
			t.Fatalf("close %d failed: %v", i, err)
		}
	}
	if server.IsOpen() {
		t.Fatal("transport must not report open after close")
	}
	if _, _, err := server.ReadFrom(make([]byte, 1)); !errors.Is(err, common.ErrNotOpen) {
		t.Errorf("expected ErrNotOpen after close, got %v", err)
	}
}

func TestReadTimeout(t *testing.T) {
	opts := common.DefaultSocketOptions()
	opts.ReadTimeoutMs = 30
	server, _ := openBoundTransport(t, opts)

	_, _, err := server.ReadFrom(make([]byte, 16))
	if !common.IsTimeout(err) {
		t.Fatalf("expected a timeout error, got %v", err)
	}
	var te *common.TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TimeoutError, got %T", err)
	}
}

func TestConnectWithLocalBind(t *testing.T) {
	server, port := openBoundTransport(t, common.DefaultSocketOptions())

	// pick a free local port first
	probe, probePort := openBoundTransport(t, common.DefaultSocketOptions())
	_ = probe.Close()

	ep, err := common.NewBoundUDPEndpoint("127.0.0.1", port, probePort)
	if err != nil {
		t.Fatalf("failed to create endpoint: %v", err)
	}

	client := NewTransport(common.DefaultSocketOptions())
	if err := client.OpenConnect(ep); err != nil {
		t.Skipf("local port %d was rebound in the meantime: %v", probePort, err)
	}
	defer client.Close()

	local := client.LocalAddr().(*net.UDPAddr)
	if local.Port != int(probePort) {
		t.Errorf("expected local port %d, got %d", probePort, local.Port)
	}

	if _, err := client.Write([]byte("hello")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	buf := make([]byte, 16)
	n, from, err := server.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("unexpected payload %q", buf[:n])
	}
	if from.(*net.UDPAddr).Port != int(probePort) {
		t.Errorf("sender port mismatch: expected %d, got %d", probePort, from.(*net.UDPAddr).Port)
	}
}

func TestBroadcastToggle(t *testing.T) {
	server, _ := openBoundTransport(t, common.DefaultSocketOptions())

	if err := server.SetBroadcast(true); err != nil {
		t.Fatalf("enabling broadcast failed: %v", err)
	}
	if err := server.SetBroadcast(false); err != nil {
		t.Fatalf("disabling broadcast failed: %v", err)
	}
}

func TestMulticastJoinLeave(t *testing.T) {
	server, _ := openBoundTransport(t, common.DefaultSocketOptions())

	if err := server.JoinGroup("224.0.0.251", nil); err != nil {
		t.Skipf("multicast not available in this environment: %v", err)
	}
	if err := server.LeaveGroup("224.0.0.251", nil); err != nil {
		t.Fatalf("leave failed: %v", err)
	}
}

func TestMulticastRejectsNonMulticastAddress(t *testing.T) {
	server, _ := openBoundTransport(t, common.DefaultSocketOptions())

	err := server.JoinGroup("127.0.0.1", nil)
	var se *common.SocketError
	if !errors.As(err, &se) {
		t.Fatalf("expected SocketError, got %T: %v", err, err)
	}
	// the group address must appear in the error context
	if !strings.Contains(se.Error(), "127.0.0.1") {
		t.Errorf("error %q misses the group address", se.Error())
	}
}

func TestNativeHandle(t *testing.T) {
	server, _ := openBoundTransport(t, common.DefaultSocketOptions())

	fd, err := server.NativeHandle()
	if err != nil {
		t.Fatalf("native handle failed: %v", err)
	}
	if fd == 0 {
		t.Error("expected a non-zero descriptor")
	}

	_ = server.Close()
	if _, err := server.NativeHandle(); !errors.Is(err, common.ErrNotOpen) {
		t.Errorf("expected ErrNotOpen after close, got %v", err)
	}
}
