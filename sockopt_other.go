//go:build !unix

package osc

import (
	"errors"
	"syscall"
)

func setReuseAddr(syscall.RawConn) error {
	return errors.ErrUnsupported
}
