package osc

import (
	"bytes"
	"fmt"
	"strings"
)

// MaxArguments is the largest number of arguments ParseMessage will decode
// from a single message.
const MaxArguments = 32

// bundleMarker starts every OSC bundle.
var bundleMarker = []byte("#bundle\x00")

// Message represents an OSC message.
type Message struct {
	// Pattern is the address pattern, a string beginning with a "/".
	Pattern string
	// Arguments is the values.
	Arguments []Argument
}

// NewMessage builds a message from a type tag string and one Go value per
// tag character. The accepted values are int32 or int for 'i', int64 for 'h',
// float32 for 'f', float64 for 'd', string for 's' and []byte for 'b', or any
// Argument with the same type tag.
func NewMessage(pattern, typeTag string, values ...any) (*Message, error) {
	if len(values) != len(typeTag) {
		return nil, fmt.Errorf("%w: %d values for type tag %q", ErrTypeMismatch, len(values), typeTag)
	}
	args := make([]Argument, len(values))
	for i, t := range []byte(typeTag) {
		a, err := toArgument(rune(t), values[i])
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		args[i] = a
	}
	m := &Message{
		Pattern:   pattern,
		Arguments: args,
	}
	if err := m.checkStrings(); err != nil {
		return nil, err
	}
	return m, nil
}

// checkStrings reports a pattern or String argument containing a NUL byte,
// which would end it early on the wire.
func (m Message) checkStrings() error {
	if strings.IndexByte(m.Pattern, 0) >= 0 {
		return fmt.Errorf("%w: NUL in pattern %q", ErrTypeMismatch, m.Pattern)
	}
	for i, a := range m.Arguments {
		s, ok := a.(*String)
		if !ok {
			continue
		}
		if strings.IndexByte(string(*s), 0) >= 0 {
			return fmt.Errorf("%w: value %d: NUL in string %q", ErrTypeMismatch, i, string(*s))
		}
	}
	return nil
}

func toArgument(tag rune, v any) (Argument, error) {
	if _, ok := newByTypeTag[tag]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, tag)
	}
	if a, ok := v.(Argument); ok {
		if a.TypeTag() != tag {
			return nil, fmt.Errorf("%w: %v for %q", ErrTypeMismatch, a, tag)
		}
		return a, nil
	}
	var a Argument
	switch v := v.(type) {
	case int32:
		a = AsInt32(v)
	case int:
		if tag == 'i' {
			a = AsInt32(v)
		}
	case int64:
		a = AsInt64(v)
	case float32:
		a = AsFloat32(v)
	case float64:
		a = AsFloat64(v)
	case string:
		a = AsString(v)
	case []byte:
		a = AsBlob(v)
	}
	if a == nil || a.TypeTag() != tag {
		return nil, fmt.Errorf("%w: %T for %q", ErrTypeMismatch, v, tag)
	}
	return a, nil
}

// IsBundle reports whether buf holds an OSC bundle rather than a message.
func IsBundle(buf []byte) bool {
	return bytes.HasPrefix(buf, bundleMarker)
}

// ParseMessage parses a message. Blob arguments alias buf.
func ParseMessage(buf []byte) (*Message, error) {
	if IsBundle(buf) {
		return nil, ErrUnsupportedBundle
	}
	// A message begins with the address, which is a string.
	addr, buf, err := consumeString(buf)
	if err != nil {
		return nil, fmt.Errorf("reading address pattern: %w", err)
	}
	// Next is the type tag string.
	tt, buf, err := consumeString(buf)
	if err != nil {
		return nil, fmt.Errorf("reading type tag: %w", err)
	}
	if len(tt) == 0 || tt[0] != ',' {
		return nil, fmt.Errorf("%w: invalid type tag string %q", ErrParse, tt)
	}
	tt = tt[1:]
	if len(tt) > MaxArguments {
		return nil, fmt.Errorf("%w: %d type tags, at most %d supported", ErrTooManyValues, len(tt), MaxArguments)
	}
	args := make([]Argument, len(tt))
	for i, t := range tt {
		c, ok := newByTypeTag[rune(t)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown type tag %q", ErrParse, t)
		}
		a := c()
		buf, err = a.Consume(buf)
		if err != nil {
			return nil, fmt.Errorf("reading argument %d (%c): %w", i, t, err)
		}
		args[i] = a
	}

	return &Message{
		Pattern:   string(addr),
		Arguments: args,
	}, nil
}

// TypeTag returns the type tag characters of the arguments, without the
// leading comma.
func (m Message) TypeTag() string {
	var sb strings.Builder
	for _, a := range m.Arguments {
		sb.WriteRune(a.TypeTag())
	}
	return sb.String()
}

// Size returns the encoded length of the message in bytes.
func (m Message) Size() int {
	// The type tag string is a comma and one byte per argument.
	n := padded(len(m.Pattern)+1) + padded(len(m.Arguments)+2)
	for _, a := range m.Arguments {
		n += a.Size()
	}
	return n
}

// Append encodes the message and appends it to the provided slice.
func (m Message) Append(b []byte) []byte {
	b = appendString(b, m.Pattern)
	b = appendString(b, ","+m.TypeTag())
	for _, a := range m.Arguments {
		b = a.Append(b)
	}
	return b
}

// Encode writes the message to the start of buf and returns the number of
// bytes written. If the message does not fit, nothing is written and the
// error wraps ErrEncodingOverflow. A pattern or string argument containing a
// NUL byte cannot be encoded and is an ErrTypeMismatch.
func (m Message) Encode(buf []byte) (int, error) {
	if err := m.checkStrings(); err != nil {
		return 0, err
	}
	if n := m.Size(); n > len(buf) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrEncodingOverflow, n, len(buf))
	}
	return len(m.Append(buf[:0])), nil
}

func (m Message) String() string {
	var sb strings.Builder
	sb.WriteString(m.Pattern)
	if tt := m.TypeTag(); tt != "" {
		fmt.Fprintf(&sb, " ,%s", tt)
	}
	for _, a := range m.Arguments {
		fmt.Fprintf(&sb, " %v", a)
	}
	return sb.String()
}
