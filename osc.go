// package osc sends and receives Open Sound Control messages over UDP/IPv4,
// per the OSC 1.0 spec (https://ccrma.stanford.edu/groups/osc/spec-1_0.html).
//
// Only messages are supported, with int32, int64, float32, float64, string
// and blob arguments. Bundles are recognised and rejected.
package osc

import (
	"golang.org/x/exp/constraints"
)

func AsString(s string) *String {
	os := String(s)
	return &os
}

func AsBlob(b []byte) *Blob {
	bl := Blob(b)
	return &bl
}

func AsInt32[T constraints.Integer](i T) *Int32 {
	ii := Int32(i)
	return &ii
}

func AsInt64[T constraints.Integer](i T) *Int64 {
	ii := Int64(i)
	return &ii
}

func AsFloat32[T constraints.Float](f T) *Float32 {
	ff := Float32(f)
	return &ff
}

func AsFloat64[T constraints.Float](f T) *Float64 {
	ff := Float64(f)
	return &ff
}

// Handler is something that can handle OSC messages. Returning an error
// stops the receive loop that called it.
type Handler interface {
	Handle(*Message) error
}

// HandlerFunc converts a function into a Handler.
func HandlerFunc(f func(*Message) error) Handler {
	return handlerFunc(f)
}

type handlerFunc func(*Message) error

func (h handlerFunc) Handle(m *Message) error {
	return h(m)
}
