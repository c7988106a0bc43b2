package tbl

import (
	"errors"
	"io"
	"syscall"
)

// IsBrokenPipe reports whether err came from writing a table to a reader
// that went away, as when stdout is piped into `head -n`. The convert
// command treats it as a clean exit.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
