package osc

import (
	"errors"
	"testing"
)

func TestNewTarget(t *testing.T) {
	target, err := NewTarget("192.168.1.20", 9000)
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}
	if !target.IsValid() {
		t.Errorf("IsValid() = false for %v", target)
	}
	if got, want := target.String(), "192.168.1.20:9000"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := target.udpAddr().Port; got != 9000 {
		t.Errorf("udpAddr().Port = %d, want 9000", got)
	}

	for _, in := range []string{
		"",
		"localhost",
		"example.com",
		"256.0.0.1",
		"1.2.3",
		"::1",
		"1.2.3.4:80",
	} {
		target, err := NewTarget(in, 9000)
		if !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("NewTarget(%q) = (%v, %v), want ErrInvalidAddress", in, target, err)
		}
		if target.IsValid() {
			t.Errorf("NewTarget(%q) returned a valid target", in)
		}
	}

	if (Target{}).IsValid() {
		t.Errorf("zero Target is valid")
	}
}
