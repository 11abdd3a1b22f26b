package main

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	osc "github.com/pfcm/osclite"
)

const argsep = ":"

// parseArgs parses message arguments written as <typetag>:<data>.
func parseArgs(args []string) ([]osc.Argument, error) {
	out := make([]osc.Argument, 0, len(args))
	for _, arg := range args {
		a, err := parseArg(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse argument %q", arg)
		}
		out = append(out, a)
	}
	return out, nil
}

func parseArg(arg string) (osc.Argument, error) {
	typetag, data, ok := strings.Cut(arg, argsep)
	if !ok {
		return nil, errors.New("expected <typetag>" + argsep + "<data>")
	}
	switch typetag {
	case "i":
		i, err := strconv.ParseInt(data, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse int32 from %s", data)
		}
		return osc.AsInt32(i), nil
	case "h":
		i, err := strconv.ParseInt(data, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse int64 from %s", data)
		}
		return osc.AsInt64(i), nil
	case "f":
		f, err := strconv.ParseFloat(data, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse float32 from %s", data)
		}
		return osc.AsFloat32(f), nil
	case "d":
		f, err := strconv.ParseFloat(data, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse float64 from %s", data)
		}
		return osc.AsFloat64(f), nil
	case "s":
		return osc.AsString(data), nil
	case "b":
		return osc.AsBlob([]byte(data)), nil
	}
	return nil, errors.Errorf("unsupported typetag %q", typetag)
}

// parseTarget parses a target written as <ipv4>:<port>.
func parseTarget(s string) (osc.Target, error) {
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return osc.Target{}, errors.Wrapf(err, "bad target %q", s)
	}
	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return osc.Target{}, errors.Wrapf(err, "bad port in target %q", s)
	}
	t, err := osc.NewTarget(host, uint16(p))
	if err != nil {
		return osc.Target{}, errors.Wrapf(err, "bad target %q", s)
	}
	return t, nil
}

// checkDurations rejects demo timings that would panic the ticker or
// re-initialise the client in a busy loop.
func checkDurations(interval, reinit time.Duration) error {
	if interval <= 0 {
		return errors.Errorf("--interval must be positive, got %v", interval)
	}
	if reinit <= 0 {
		return errors.Errorf("--reinit must be positive, got %v", reinit)
	}
	return nil
}
