package server

import (
	"encoding/binary"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/markushocke/modern-io/lib/datastream"
	"github.com/markushocke/modern-io/lib/stream"
	"github.com/markushocke/modern-io/netio/adapters"
	"github.com/markushocke/modern-io/netio/common"
	"github.com/markushocke/modern-io/netio/tcp"
)

// startEchoServer runs the dispatch loop on an ephemeral port with a
// length-prefixed string echo handler and returns the bound port plus a
// stop function that blocks until the loop has returned.
func startEchoServer(t *testing.T, exec IExecutor) (uint16, func()) {
	t.Helper()

	running := &atomic.Bool{}
	running.Store(true)

	srv := tcp.NewServer(
		common.TCPEndpoint{Address: "127.0.0.1", Port: 0},
		common.SocketOptions{ReuseAddr: true},
		tcp.WithAcceptTimeout(20*time.Millisecond),
	)

	handler := func(s *stream.Shared) {
		in := datastream.NewInput(s, binary.BigEndian)
		out := datastream.NewOutput(s, binary.BigEndian)
		for {
			msg, err := in.ReadString()
			if err != nil {
				return
			}
			reply := msg
			if msg == "PING" {
				reply = "PONG"
			}
			if err := out.WriteString(reply); err != nil {
				return
			}
			if err := out.Flush(); err != nil {
				return
			}
		}
	}

	build := func(conn *tcp.Client) (*stream.Shared, error) {
		return adapters.NewTCPConnStream(conn), nil
	}

	done := make(chan error, 1)
	go func() {
		done <- Serve(exec, srv, build, handler, running)
	}()

	// Start happens inside Serve, poll until the ephemeral port is known
	deadline := time.Now().Add(2 * time.Second)
	for srv.Port() == 0 {
		if time.Now().After(deadline) {
			running.Store(false)
			t.Fatal("server did not bind in time")
		}
		time.Sleep(time.Millisecond)
	}

	return srv.Port(), func() {
		running.Store(false)
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("serve returned an error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("serve did not stop within the accept timeout")
		}
	}
}

func TestServeEchoesPingPong(t *testing.T) {
	port, stop := startEchoServer(t, NewThreadExecutor())
	defer stop()

	client, err := adapters.NewTCPClientStream(
		common.TCPEndpoint{Address: "127.0.0.1", Port: port},
		common.SocketOptions{},
	)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	in := datastream.NewInput(client, binary.BigEndian)
	out := datastream.NewOutput(client, binary.BigEndian)

	for i := 0; i < 3; i++ {
		if err := out.WriteString("PING"); err != nil {
			t.Fatalf("failed to send: %v", err)
		}
		if err := out.Flush(); err != nil {
			t.Fatalf("failed to flush: %v", err)
		}
		reply, err := in.ReadString()
		if err != nil {
			t.Fatalf("failed to receive: %v", err)
		}
		if reply != "PONG" {
			t.Fatalf("expected PONG, got %q", reply)
		}
	}
}

func TestServeHandlesConnectionsSequentiallyWithSyncExecutor(t *testing.T) {
	port, stop := startEchoServer(t, NewSyncExecutor())
	defer stop()

	// two clients in sequence; the inline executor serves each fully
	// before the loop accepts the next
	for i := 0; i < 2; i++ {
		client, err := adapters.NewTCPClientStream(
			common.TCPEndpoint{Address: "127.0.0.1", Port: port},
			common.SocketOptions{},
		)
		if err != nil {
			t.Fatalf("failed to connect: %v", err)
		}

		in := datastream.NewInput(client, binary.BigEndian)
		out := datastream.NewOutput(client, binary.BigEndian)

		if err := out.WriteString("hello"); err != nil {
			t.Fatalf("failed to send: %v", err)
		}
		if err := out.Flush(); err != nil {
			t.Fatalf("failed to flush: %v", err)
		}
		reply, err := in.ReadString()
		if err != nil {
			t.Fatalf("failed to receive: %v", err)
		}
		if reply != "hello" {
			t.Fatalf("expected echo, got %q", reply)
		}
		_ = client.Close()
	}
}

func TestServeSurvivesIdlePeriods(t *testing.T) {
	port, stop := startEchoServer(t, NewThreadExecutor())
	defer stop()

	// several accept timeouts expire before the client shows up; the loop
	// must still be accepting afterwards
	time.Sleep(150 * time.Millisecond)

	client, err := adapters.NewTCPClientStream(
		common.TCPEndpoint{Address: "127.0.0.1", Port: port},
		common.SocketOptions{},
	)
	if err != nil {
		t.Fatalf("failed to connect after idle period: %v", err)
	}
	defer client.Close()

	out := datastream.NewOutput(client, binary.BigEndian)
	in := datastream.NewInput(client, binary.BigEndian)
	if err := out.WriteString("PING"); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	if err := out.Flush(); err != nil {
		t.Fatalf("failed to flush: %v", err)
	}
	if reply, err := in.ReadString(); err != nil || reply != "PONG" {
		t.Fatalf("expected PONG, got %q (err %v)", reply, err)
	}
}

func TestServeClosesStreamWhenHandlerReturns(t *testing.T) {
	running := &atomic.Bool{}
	running.Store(true)

	srv := tcp.NewServer(
		common.TCPEndpoint{Address: "127.0.0.1", Port: 0},
		common.SocketOptions{ReuseAddr: true},
		tcp.WithAcceptTimeout(20*time.Millisecond),
	)

	// handler returns immediately without touching the stream; the loop
	// owns the close
	handler := func(s *stream.Shared) {}
	build := func(conn *tcp.Client) (*stream.Shared, error) {
		return adapters.NewTCPConnStream(conn), nil
	}

	done := make(chan error, 1)
	go func() {
		done <- Serve(NewThreadExecutor(), srv, build, handler, running)
	}()
	defer func() {
		running.Store(false)
		<-done
	}()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Port() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("server did not bind in time")
		}
		time.Sleep(time.Millisecond)
	}

	client, err := adapters.NewTCPClientStream(
		common.TCPEndpoint{Address: "127.0.0.1", Port: srv.Port()},
		common.SocketOptions{},
	)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	// the server side closes the connection, so the read ends with EOF
	buf := make([]byte, 1)
	readDone := make(chan error, 1)
	go func() {
		_, err := client.Read(buf)
		readDone <- err
	}()
	select {
	case err := <-readDone:
		if err != io.EOF {
			t.Fatalf("expected EOF after server-side close, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never closed the connection")
	}
}
