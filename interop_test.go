package osc

import (
	"errors"
	"reflect"
	"testing"

	hosc "github.com/hypebeast/go-osc/osc"
)

// Messages are checked against github.com/hypebeast/go-osc, an independent
// implementation. It rejects empty blobs, so none are used here.

func TestInteropEncode(t *testing.T) {
	msg, err := NewMessage("/test", "ihfdsb", 42, int64(-84), float32(3.14), 6.28, "foo", []byte("bar"))
	if err != nil {
		t.Fatal(err)
	}
	p, err := hosc.ParsePacket(string(msg.Append(nil)))
	if err != nil {
		t.Fatalf("hosc.ParsePacket: %v", err)
	}
	got, ok := p.(*hosc.Message)
	if !ok {
		t.Fatalf("hosc.ParsePacket returned %T, want *osc.Message", p)
	}
	if got.Address != "/test" {
		t.Errorf("Address = %q, want %q", got.Address, "/test")
	}
	want := []interface{}{int32(42), int64(-84), float32(3.14), 6.28, "foo", []byte("bar")}
	if !reflect.DeepEqual(got.Arguments, want) {
		t.Errorf("Arguments = %v, want %v", got.Arguments, want)
	}
}

func TestInteropDecode(t *testing.T) {
	b, err := hosc.NewMessage("/test", int32(42), int64(-84), float32(3.14), 6.28, "foo", []byte("bar")).MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got, err := ParseMessage(b)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	want, err := NewMessage("/test", "ihfdsb", 42, int64(-84), float32(3.14), 6.28, "foo", []byte("bar"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Pattern != want.Pattern || !sameArguments(got.Arguments, want.Arguments) {
		t.Errorf("ParseMessage = %v, want %v", got, want)
	}
}

func TestInteropReceive(t *testing.T) {
	port := freePort(t)
	c := newTestClient(t, 256, port)
	msg := hosc.NewMessage("/from/go-osc", "hello", int32(7))
	if err := hosc.NewClient("127.0.0.1", int(port)).Send(msg); err != nil {
		t.Fatalf("hosc Send: %v", err)
	}
	var got string
	err := receive(t, c, HandlerFunc(func(m *Message) error {
		got = m.String()
		return errStop
	}))
	if !errors.Is(err, errStop) {
		t.Fatalf("Receive = %v", err)
	}
	if want := `/from/go-osc ,si String("hello") Int32(7)`; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
