package main

import (
	"fmt"
	"os"

	"github.com/mdobak/go-xerrors"
)

// wrapFatal attaches a stack trace to err at the point a CLI command
// gives up, so --verbose can show where the failure originated instead
// of just its message.
func wrapFatal(err error) error {
	if err == nil {
		return nil
	}
	return xerrors.WithStackTrace(err)
}

// printStackTrace prints the frames xerrors.WithStackTrace attached to
// err, innermost first. Errors that never passed through wrapFatal print
// nothing beyond the message fatal() already wrote.
func printStackTrace(err error) {
	frames := xerrors.StackTrace(err)
	if len(frames) == 0 {
		return
	}
	for _, f := range frames {
		fmt.Fprintf(os.Stderr, "\tat %s (%s:%d)\n", f.Func, f.File, f.Line)
	}
}
