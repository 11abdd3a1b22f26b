package osc

import "errors"

var (
	// ErrAllocation is returned by Init for a buffer length the client
	// cannot allocate.
	ErrAllocation = errors.New("invalid buffer length")
	// ErrSocketCreate is returned by Init when the UDP socket could not be
	// created.
	ErrSocketCreate = errors.New("failed to create socket")
	// ErrBind is returned by Init when the socket could not be bound to the
	// requested port.
	ErrBind = errors.New("failed to bind socket")
	// ErrNotInitialized is returned by Send and Receive on a client without
	// a socket.
	ErrNotInitialized = errors.New("client not initialized")

	ErrEncodingOverflow  = errors.New("encoded message exceeds buffer")
	ErrTransmit          = errors.New("failed to send message")
	ErrReceive           = errors.New("failed to receive message")
	ErrMessageTooLong    = errors.New("message too long")
	ErrUnsupportedBundle = errors.New("bundles are not supported")
	ErrParse             = errors.New("malformed message")
	ErrTooManyValues     = errors.New("message has too many values")

	ErrInvalidAddress  = errors.New("invalid IPv4 address")
	ErrTypeMismatch    = errors.New("value does not match type tag")
	ErrUnsupportedType = errors.New("unsupported type tag")
)
