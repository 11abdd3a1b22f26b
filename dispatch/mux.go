// package dispatch routes received OSC messages to handlers by address.
package dispatch

import (
	"errors"
	"fmt"
	"log"

	osc "github.com/pfcm/osclite"
)

// Mux is an osc.Handler that passes each message to every handler registered
// for an address matched by the message's address pattern. Handlers run one
// at a time, in the order they were added, on the goroutine calling Handle.
type Mux struct {
	// NotFound, if set, handles messages that match no registered address.
	NotFound osc.Handler
	// Strict makes a message with an invalid pattern, or one that matches
	// nothing when NotFound is nil, an error instead of being dropped.
	Strict bool
	// Logger gets a line for every dropped message. If nil, log.Default()
	// is used.
	Logger *log.Logger

	handlers []handler
}

type handler struct {
	p string
	h osc.Handler
}

// Add registers a handler to receive messages whose pattern matches address.
func (m *Mux) Add(address string, h osc.Handler) {
	m.handlers = append(m.handlers, handler{address, h})
}

// AddFunc is Add for a plain function.
func (m *Mux) AddFunc(address string, f func(*osc.Message) error) {
	m.Add(address, osc.HandlerFunc(f))
}

func (m *Mux) logf(format string, args ...any) {
	l := m.Logger
	if l == nil {
		l = log.Default()
	}
	l.Printf(format, args...)
}

// Handle dispatches an individual message to each of the applicable
// handlers. Errors from the handlers are joined and returned.
func (m *Mux) Handle(msg *osc.Message) error {
	pattern, err := ParsePattern(msg.Pattern)
	if err != nil {
		if m.Strict {
			return err
		}
		m.logf("Dropping message with invalid pattern: %v", err)
		return nil
	}
	var (
		matched bool
		errs    []error
	)
	for _, h := range m.handlers {
		if pattern.Match(h.p) {
			matched = true
			if err := h.h.Handle(msg); err != nil {
				errs = append(errs, fmt.Errorf("handler %q: %w", h.p, err))
			}
		}
	}
	if !matched {
		switch {
		case m.NotFound != nil:
			return m.NotFound.Handle(msg)
		case m.Strict:
			return unmatched(msg)
		}
		m.logf("Dropping message: %v", unmatched(msg))
	}
	return errors.Join(errs...)
}

// UnmatchedPatternError is returned by a strict Mux for a message that no
// handler was registered for.
type UnmatchedPatternError struct {
	Message *osc.Message
}

func unmatched(msg *osc.Message) UnmatchedPatternError {
	return UnmatchedPatternError{msg}
}

func (u UnmatchedPatternError) Error() string {
	return fmt.Sprintf("no handlers for message: %v", u.Message)
}
