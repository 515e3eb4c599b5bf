package common

import (
	"errors"
	"testing"
)

func TestEmptyAddressFailsAtConstruction(t *testing.T) {
	// constructing with an empty address must fail before any socket exists
	constructors := map[string]func() error{
		"TCP": func() error {
			_, err := NewTCPEndpoint("", 9050)
			return err
		},
		"UDP": func() error {
			_, err := NewUDPEndpoint("", 9050)
			return err
		},
		"UDP bound": func() error {
			_, err := NewBoundUDPEndpoint("", 9050, 9050)
			return err
		},
	}

	for name, construct := range constructors {
		t.Run(name, func(t *testing.T) {
			err := construct()
			if err == nil {
				t.Fatal("expected an error for an empty address")
			}
			var re *ResolutionError
			if !errors.As(err, &re) {
				t.Fatalf("expected ResolutionError, got %T: %v", err, err)
			}
			if !errors.Is(err, ErrEmptyAddress) {
				t.Errorf("expected the error to wrap ErrEmptyAddress, got %v", err)
			}
		})
	}
}

func TestTCPEndpointResolve(t *testing.T) {
	ep, err := NewTCPEndpoint("127.0.0.1", 9050)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	// active resolution targets address:port
	addr, err := ep.Resolve(false)
	if err != nil {
		t.Fatalf("active resolve failed: %v", err)
	}
	if addr.Port != 9050 || addr.IP.String() != "127.0.0.1" {
		t.Errorf("unexpected active address: %v", addr)
	}

	// passive resolution binds any local address at the port
	addr, err = ep.Resolve(true)
	if err != nil {
		t.Fatalf("passive resolve failed: %v", err)
	}
	if addr.Port != 9050 || addr.IP != nil {
		t.Errorf("unexpected passive address: %v", addr)
	}
}

func TestUDPEndpointResolvePassiveUsesLocalPort(t *testing.T) {
	ep, err := NewBoundUDPEndpoint("127.0.0.1", 9050, 9051)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	addr, err := ep.Resolve(true)
	if err != nil {
		t.Fatalf("passive resolve failed: %v", err)
	}
	if addr.Port != 9051 {
		t.Errorf("expected local port 9051, got %d", addr.Port)
	}

	addr, err = ep.Resolve(false)
	if err != nil {
		t.Fatalf("active resolve failed: %v", err)
	}
	if addr.Port != 9050 {
		t.Errorf("expected remote port 9050, got %d", addr.Port)
	}
}

func TestResolveUnresolvableHost(t *testing.T) {
	ep := TCPEndpoint{Address: "host.invalid", Port: 1}
	if _, err := ep.Resolve(false); err == nil {
		t.Skip("resolver unexpectedly resolved host.invalid")
	} else {
		var re *ResolutionError
		if !errors.As(err, &re) {
			t.Fatalf("expected ResolutionError, got %T: %v", err, err)
		}
	}
}
