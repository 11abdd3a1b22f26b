package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Argument represents an OSC value.
type Argument interface {
	// TypeTag must return the type tag of the argument, a single character.
	TypeTag() rune
	// Size returns the number of bytes Append will add, including padding.
	Size() int
	// Append appends the binary representation of the argument to the
	// provided byte slice.
	Append([]byte) []byte
	// Consume fills in the argument from the provided bytes, returning any
	// remainder.
	Consume([]byte) ([]byte, error)
}

// newByTypeTag holds functions to construct an empty argument for each
// supported type tag.
var newByTypeTag = map[rune]func() Argument{
	Int32(0).TypeTag():   func() Argument { return new(Int32) },
	Int64(0).TypeTag():   func() Argument { return new(Int64) },
	Float32(0).TypeTag(): func() Argument { return new(Float32) },
	Float64(0).TypeTag(): func() Argument { return new(Float64) },
	String("").TypeTag(): func() Argument { return new(String) },
	Blob(nil).TypeTag():  func() Argument { return new(Blob) },
}

// padded rounds n up to the next multiple of 4.
func padded(n int) int {
	return (n + 3) &^ 3
}

// consumePadding checks that the n bytes of padding at the start of b are all
// zero.
func consumePadding(b []byte, n int) error {
	for i, c := range b[:n] {
		if c != 0 {
			return fmt.Errorf("%w: non-zero padding byte %#x at offset %d", ErrParse, c, i)
		}
	}
	return nil
}

// consumeString reads a null-terminated, 4-byte aligned OSC string from b.
// The returned bytes alias b.
func consumeString(b []byte) (s, rest []byte, err error) {
	end := bytes.IndexByte(b, 0)
	if end < 0 {
		return nil, nil, fmt.Errorf("%w: no termination in string %q", ErrParse, b)
	}
	size := padded(end + 1)
	if size > len(b) {
		return nil, nil, fmt.Errorf("%w: string %q is missing %d bytes of padding", ErrParse, b[:end], size-len(b))
	}
	if err := consumePadding(b[end+1:], size-end-1); err != nil {
		return nil, nil, err
	}
	return b[:end], b[size:], nil
}

// appendString appends s null-terminated and zero padded to a multiple of 4
// bytes.
func appendString(b []byte, s string) []byte {
	b = append(b, s...)
	for n := len(s); n < padded(len(s)+1); n++ {
		b = append(b, 0)
	}
	return b
}

// Int32 is the OSC int32: a "32-bit big-endian two’s complement integer"
type Int32 int32

func (Int32) TypeTag() rune { return 'i' }
func (Int32) Size() int     { return 4 }

func (i Int32) Append(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(i))
}

func (i *Int32) Consume(b []byte) ([]byte, error) {
	if l := len(b); l < 4 {
		return nil, fmt.Errorf("%w: expect int32, only %d bytes", ErrParse, l)
	}
	*i = Int32(binary.BigEndian.Uint32(b))
	return b[4:], nil
}

func (i Int32) String() string {
	return fmt.Sprintf("Int32(%d)", i)
}

// Int64 is the OSC 64-bit big-endian two's complement integer.
type Int64 int64

func (Int64) TypeTag() rune { return 'h' }
func (Int64) Size() int     { return 8 }

func (i Int64) Append(b []byte) []byte {
	return binary.BigEndian.AppendUint64(b, uint64(i))
}

func (i *Int64) Consume(b []byte) ([]byte, error) {
	if l := len(b); l < 8 {
		return nil, fmt.Errorf("%w: expect int64, only %d bytes", ErrParse, l)
	}
	*i = Int64(binary.BigEndian.Uint64(b))
	return b[8:], nil
}

func (i Int64) String() string {
	return fmt.Sprintf("Int64(%d)", i)
}

// Float32 is a normal float32: "32-bit big-endian IEEE 754 floating point
// number"
type Float32 float32

func (Float32) TypeTag() rune { return 'f' }
func (Float32) Size() int     { return 4 }

func (f Float32) Append(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, math.Float32bits(float32(f)))
}

func (f *Float32) Consume(b []byte) ([]byte, error) {
	if l := len(b); l < 4 {
		return nil, fmt.Errorf("%w: expect float32, only %d bytes", ErrParse, l)
	}
	*f = Float32(math.Float32frombits(binary.BigEndian.Uint32(b)))
	return b[4:], nil
}

func (f Float32) String() string {
	return fmt.Sprintf("Float32(%f)", f)
}

// Float64 is the OSC double, a 64-bit big-endian IEEE 754 number.
type Float64 float64

func (Float64) TypeTag() rune { return 'd' }
func (Float64) Size() int     { return 8 }

func (f Float64) Append(b []byte) []byte {
	return binary.BigEndian.AppendUint64(b, math.Float64bits(float64(f)))
}

func (f *Float64) Consume(b []byte) ([]byte, error) {
	if l := len(b); l < 8 {
		return nil, fmt.Errorf("%w: expect float64, only %d bytes", ErrParse, l)
	}
	*f = Float64(math.Float64frombits(binary.BigEndian.Uint64(b)))
	return b[8:], nil
}

func (f Float64) String() string {
	return fmt.Sprintf("Float64(%f)", f)
}

// String is an ASCII string, on the wire it's null-terminated and padded for
// alignment. Consume copies the string out of the buffer.
type String string

func (String) TypeTag() rune { return 's' }

func (s String) Size() int { return padded(len(s) + 1) }

func (s String) Append(b []byte) []byte {
	return appendString(b, string(s))
}

func (s *String) Consume(b []byte) ([]byte, error) {
	str, rest, err := consumeString(b)
	if err != nil {
		return nil, err
	}
	*s = String(str)
	return rest, nil
}

func (s String) String() string {
	return fmt.Sprintf("String(%q)", string(s))
}

// Blob is arbitrary binary data, sent as an int32 size followed by the bytes
// and zero padding.
//
// A Blob filled in by Consume aliases the buffer it was read from: one
// decoded by Client.Receive is only valid until the handler returns.
type Blob []byte

func (Blob) TypeTag() rune { return 'b' }

func (bl Blob) Size() int { return 4 + padded(len(bl)) }

func (bl Blob) Append(b []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(bl)))
	b = append(b, bl...)
	for n := len(bl); n%4 > 0; n++ {
		b = append(b, 0)
	}
	return b
}

func (bl *Blob) Consume(b []byte) ([]byte, error) {
	if l := len(b); l < 4 {
		return nil, fmt.Errorf("%w: expect blob size, only %d bytes", ErrParse, l)
	}
	n := int(int32(binary.BigEndian.Uint32(b)))
	if n < 0 {
		return nil, fmt.Errorf("%w: negative blob size %d", ErrParse, n)
	}
	b = b[4:]
	size := padded(n)
	if size > len(b) {
		return nil, fmt.Errorf("%w: blob of %d bytes, only %d available", ErrParse, n, len(b))
	}
	if err := consumePadding(b[n:], size-n); err != nil {
		return nil, err
	}
	*bl = Blob(b[:n:n])
	return b[size:], nil
}

func (bl Blob) String() string {
	return fmt.Sprintf("Blob(%x)", []byte(bl))
}
