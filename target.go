package osc

import (
	"fmt"
	"net"
	"net/netip"
)

// Target is a destination for messages: an IPv4 address and UDP port. The
// zero Target is not valid.
type Target struct {
	addr netip.AddrPort
}

// NewTarget builds a Target from a literal dotted-decimal IPv4 address. No
// name resolution is done.
func NewTarget(address string, port uint16) (Target, error) {
	ip, err := netip.ParseAddr(address)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if !ip.Is4() {
		return Target{}, fmt.Errorf("%w: %q is not IPv4", ErrInvalidAddress, address)
	}
	return Target{netip.AddrPortFrom(ip, port)}, nil
}

// IsValid reports whether t was built by NewTarget.
func (t Target) IsValid() bool {
	return t.addr.IsValid()
}

// AddrPort returns the address and port of t.
func (t Target) AddrPort() netip.AddrPort {
	return t.addr
}

func (t Target) udpAddr() *net.UDPAddr {
	return net.UDPAddrFromAddrPort(t.addr)
}

func (t Target) String() string {
	return t.addr.String()
}
