package osc

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/netip"
	"sync"
	"syscall"

	"golang.org/x/net/ipv4"
)

// MaxBufferLen is the largest buffer a Client can be initialised with, the
// largest UDP payload.
const MaxBufferLen = 1<<16 - 1

// Client sends and receives OSC messages on a single UDP socket, using one
// fixed size buffer for each direction.
//
// The zero Client is uninitialised; call Init before use. One goroutine may
// run Receive while another sends, but sends must not overlap each other, and
// Init must not overlap either. Close may be called at any time to stop a
// blocked Receive; it releases the socket and buffers, and the client is
// uninitialised again until the next Init.
type Client struct {
	// Logger gets a line for every failure. If nil, log.Default() is used.
	Logger *log.Logger
	// TTL, if non-zero, is applied to outgoing unicast and multicast
	// datagrams.
	TTL int
	// ReuseAddr sets SO_REUSEADDR before binding, so a client can be
	// re-initialised on a port that was only just released.
	ReuseAddr bool

	mu   sync.Mutex // guards the fields below
	len  int
	sbuf []byte
	rbuf []byte
	conn net.PacketConn
}

func (c *Client) logf(format string, args ...any) {
	l := c.Logger
	if l == nil {
		l = log.Default()
	}
	l.Printf("osc: "+format, args...)
}

// Init allocates the send and receive buffers, bufLen bytes each, and
// creates the socket, bound to port on all interfaces unless port is 0.
// Buffers and sockets from an earlier Init are released first, so Init can be
// called again to recover a client.
func (c *Client) Init(bufLen int, port uint16) error {
	if bufLen <= 0 || bufLen > MaxBufferLen {
		return fmt.Errorf("%w: %d bytes", ErrAllocation, bufLen)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sbuf = make([]byte, bufLen)
	// The extra byte makes an oversized datagram visible as a long read.
	c.rbuf = make([]byte, bufLen+1)
	c.len = bufLen

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	conn, err := c.listen(port)
	if err != nil {
		c.logf("%v", err)
		return err
	}
	c.conn = conn
	return nil
}

func (c *Client) listen(port uint16) (net.PacketConn, error) {
	// created is set once the socket exists and its options are applied,
	// after which only the bind can fail.
	var created bool
	lc := net.ListenConfig{
		Control: func(_, _ string, rc syscall.RawConn) error {
			if c.ReuseAddr {
				if err := setReuseAddr(rc); err != nil {
					return fmt.Errorf("setting SO_REUSEADDR: %w", err)
				}
			}
			created = true
			return nil
		},
	}
	addr := netip.AddrPortFrom(netip.IPv4Unspecified(), port)
	conn, err := lc.ListenPacket(context.Background(), "udp4", addr.String())
	if err != nil {
		if created && port != 0 {
			return nil, fmt.Errorf("%w to port %d: %w", ErrBind, port, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrSocketCreate, err)
	}
	if c.TTL != 0 {
		pc := ipv4.NewPacketConn(conn)
		if err := pc.SetTTL(c.TTL); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%w: setting TTL: %w", ErrSocketCreate, err)
		}
		if err := pc.SetMulticastTTL(c.TTL); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%w: setting multicast TTL: %w", ErrSocketCreate, err)
		}
	}
	return conn, nil
}

// BufferLen returns the size of each of the client's buffers, which bounds
// the size of messages sent and received.
func (c *Client) BufferLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.len
}

// LocalAddr returns the address the socket is bound to, or nil before Init.
func (c *Client) LocalAddr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	return c.conn.LocalAddr()
}

// Close closes the socket and drops the buffers. A Receive blocked on the
// socket returns an error wrapping ErrReceive; later sends and receives fail
// with ErrNotInitialized.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn := c.conn
	c.conn, c.sbuf, c.rbuf, c.len = nil, nil, nil, 0
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// Send builds and sends a message using the provided arguments, to the given
// pattern at the provided target.
func (c *Client) Send(t Target, pattern string, args ...Argument) error {
	return c.SendMessage(t, &Message{
		Pattern:   pattern,
		Arguments: args,
	})
}

// SendMessage encodes msg into the send buffer and sends it to t as a single
// datagram. A nil error only means the datagram was handed to the OS.
func (c *Client) SendMessage(t Target, msg *Message) error {
	c.mu.Lock()
	conn, buf := c.conn, c.sbuf
	c.mu.Unlock()
	if conn == nil {
		return ErrNotInitialized
	}
	n, err := msg.Encode(buf)
	if err != nil {
		c.logf("failed to encode message for %v: %v", t, err)
		return err
	}
	if !t.IsValid() {
		return fmt.Errorf("%w: %w", ErrTransmit, ErrInvalidAddress)
	}
	if _, err := conn.WriteTo(buf[:n], t.udpAddr()); err != nil {
		c.logf("failed to send message to %v: %v", t, err)
		return fmt.Errorf("%w: %w", ErrTransmit, err)
	}
	return nil
}

// Receive reads datagrams one at a time, decodes each as a message and calls
// h with it. It blocks until a datagram cannot be read, is larger than the
// receive buffer, is a bundle or fails to decode, or until h returns an error.
// The error describing why is returned; Receive never returns nil.
//
// Blob arguments passed to h point into the receive buffer and are only
// valid until h returns.
func (c *Client) Receive(h Handler) error {
	c.mu.Lock()
	conn, buf, limit := c.conn, c.rbuf, c.len
	c.mu.Unlock()
	if conn == nil {
		return ErrNotInitialized
	}
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			c.logf("failed to receive message: %v", err)
			return fmt.Errorf("%w: %w", ErrReceive, err)
		}
		if n > limit {
			c.logf("discard too long message from %v", addr)
			return fmt.Errorf("%w: more than %d bytes from %v", ErrMessageTooLong, limit, addr)
		}
		msg, err := ParseMessage(buf[:n])
		if err != nil {
			c.logf("discard message from %v: %v", addr, err)
			return err
		}
		if err := h.Handle(msg); err != nil {
			return fmt.Errorf("handling %s: %w", msg.Pattern, err)
		}
	}
}
