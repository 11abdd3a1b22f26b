package dispatch

import (
	"fmt"
	"strings"

	osc "github.com/pfcm/osclite"
)

// Pattern is a parsed OSC address pattern, usually received with a message.
type Pattern struct {
	src   string
	parts []part
}

type partKind uint8

const (
	literal partKind = iota
	anyOne           // ?
	anyRun           // *
	class            // [abc], [!a-z]
	choice           // {foo,bar}
)

type part struct {
	kind partKind
	text string     // literal
	set  *[256]bool // class, with any negation already applied
	alts []string   // choice
}

// ParsePattern parses an OSC address pattern. Besides literal characters it
// understands "?", "*", character classes such as "[a-z]" or "[!0-9]", and
// alternatives such as "{left,right}".
func ParsePattern(s string) (Pattern, error) {
	p := Pattern{src: s}
	for rest := s; rest != ""; {
		var (
			pt  part
			err error
		)
		switch rest[0] {
		case '?':
			pt, rest = part{kind: anyOne}, rest[1:]
		case '*':
			pt, rest = part{kind: anyRun}, rest[1:]
		case '[':
			pt, rest, err = parseClass(rest[1:])
		case '{':
			pt, rest, err = parseChoice(rest[1:])
		default:
			n := strings.IndexAny(rest, "?*[{")
			if n < 0 {
				n = len(rest)
			}
			pt, rest = part{kind: literal, text: rest[:n]}, rest[n:]
		}
		if err != nil {
			return Pattern{}, fmt.Errorf("%w: pattern %q: %w", osc.ErrParse, s, err)
		}
		p.parts = append(p.parts, pt)
	}
	return p, nil
}

// Match reports whether the address is matched by the pattern. Wildcards
// never match a "/".
func (p Pattern) Match(address string) bool {
	return match(p.parts, address)
}

func (p Pattern) String() string {
	return p.src
}

func match(parts []part, s string) bool {
	for ; len(parts) > 0; parts = parts[1:] {
		switch pt := parts[0]; pt.kind {
		case literal:
			var ok bool
			if s, ok = strings.CutPrefix(s, pt.text); !ok {
				return false
			}
		case anyOne:
			if s == "" || s[0] == '/' {
				return false
			}
			s = s[1:]
		case class:
			if s == "" || !pt.set[s[0]] {
				return false
			}
			s = s[1:]
		case anyRun:
			n := strings.IndexByte(s, '/')
			if n < 0 {
				n = len(s)
			}
			for i := n; i >= 0; i-- {
				if match(parts[1:], s[i:]) {
					return true
				}
			}
			return false
		case choice:
			for _, a := range pt.alts {
				if rest, ok := strings.CutPrefix(s, a); ok && match(parts[1:], rest) {
					return true
				}
			}
			return false
		}
	}
	return s == ""
}

// parseClass parses a character class, after the opening "[". A "-" at
// either end of the class is a literal.
func parseClass(s string) (part, string, error) {
	negate := false
	if rest, ok := strings.CutPrefix(s, "!"); ok {
		negate, s = true, rest
	}
	body, rest, ok := strings.Cut(s, "]")
	if !ok {
		return part{}, "", fmt.Errorf("expect %q somewhere, got: %q", "]", s)
	}
	var set [256]bool
	for i := 0; i < len(body); i++ {
		lo := body[i]
		if i+2 < len(body) && body[i+1] == '-' {
			hi := body[i+2]
			if hi < lo {
				return part{}, "", fmt.Errorf("invalid range %c-%c", lo, hi)
			}
			for c := int(lo); c <= int(hi); c++ {
				set[c] = true
			}
			i += 2
			continue
		}
		set[lo] = true
	}
	if negate {
		for c := range set {
			set[c] = !set[c]
		}
	}
	return part{kind: class, set: &set}, rest, nil
}

// parseChoice parses a list of alternatives, after the opening "{".
func parseChoice(s string) (part, string, error) {
	body, rest, ok := strings.Cut(s, "}")
	if !ok {
		return part{}, "", fmt.Errorf("expect %q somewhere, got: %q", "}", s)
	}
	return part{kind: choice, alts: strings.Split(body, ",")}, rest, nil
}
