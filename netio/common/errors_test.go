package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestIsTimeout(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"timeout error", &TimeoutError{Op: "accept", Duration: time.Second}, true},
		{"wrapped timeout error", fmt.Errorf("accept failed: %w", &TimeoutError{Op: "accept"}), true},
		{"socket error", &SocketError{Op: "connect", Err: errors.New("refused")}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTimeout(tc.err); got != tc.expected {
				t.Errorf("IsTimeout(%v) = %v, expected %v", tc.err, got, tc.expected)
			}
		})
	}
}

func TestSocketErrorMessage(t *testing.T) {
	err := &SocketError{Op: "connect", Peer: "127.0.0.1:9050", Err: errors.New("connection refused")}
	msg := err.Error()
	if !strings.Contains(msg, "connect") || !strings.Contains(msg, "127.0.0.1:9050") {
		t.Errorf("message misses operation or peer: %q", msg)
	}
	if !errors.Is(err, err.Err) {
		t.Errorf("SocketError must unwrap to the OS error")
	}
}
