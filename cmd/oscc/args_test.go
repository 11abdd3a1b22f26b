package main

import (
	"errors"
	"testing"
	"time"

	osc "github.com/pfcm/osclite"
)

func TestParseArgs(t *testing.T) {
	got, err := parseArgs([]string{"i:42", "h:-84", "f:3.14", "d:6.28", "s:foo:bar", "s:", "b:bar"})
	if err != nil {
		t.Fatal(err)
	}
	msg := &osc.Message{Pattern: "/test", Arguments: got}
	if want := `/test ,ihfdssb Int32(42) Int64(-84) Float32(3.140000) Float64(6.280000) String("foo:bar") String("") Blob(626172)`; msg.String() != want {
		t.Errorf("got %s, want %s", msg, want)
	}
}

func TestParseArgsErrors(t *testing.T) {
	for _, arg := range []string{
		"42",
		"i:",
		"i:4294967296",
		"h:1.5",
		"f:pi",
		"d:",
		"x:1",
		"T:",
	} {
		if a, err := parseArgs([]string{"s:ok", arg}); err == nil {
			t.Errorf("parseArgs(%q) = %v, want error", arg, a)
		}
	}
}

func TestParseTarget(t *testing.T) {
	got, err := parseTarget("192.168.1.10:9000")
	if err != nil {
		t.Fatal(err)
	}
	if want := "192.168.1.10:9000"; got.String() != want {
		t.Errorf("parseTarget = %v, want %s", got, want)
	}

	for _, s := range []string{
		"",
		"192.168.1.10",
		"192.168.1.10:",
		"192.168.1.10:65536",
		"localhost:9000",
		"[::1]:9000",
		"1.2.3:9000",
	} {
		_, err := parseTarget(s)
		if err == nil {
			t.Errorf("parseTarget(%q) succeeded, want error", s)
		}
	}
	if _, err := parseTarget("localhost:9000"); !errors.Is(err, osc.ErrInvalidAddress) {
		t.Errorf("parseTarget(localhost) = %v, want ErrInvalidAddress", err)
	}
}

func TestCheckDurations(t *testing.T) {
	for _, c := range []struct {
		interval, reinit time.Duration
		ok               bool
	}{
		{time.Second, 5 * time.Second, true},
		{time.Millisecond, time.Millisecond, true},
		{0, 5 * time.Second, false},
		{-time.Second, 5 * time.Second, false},
		{time.Second, 0, false},
		{time.Second, -time.Second, false},
	} {
		err := checkDurations(c.interval, c.reinit)
		if (err == nil) != c.ok {
			t.Errorf("checkDurations(%v, %v) = %v, want ok=%v", c.interval, c.reinit, err, c.ok)
		}
	}
}
