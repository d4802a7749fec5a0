// Package batch runs the Extractor over many waveforms in parallel with
// a bounded worker pool, preserving input order on output (spec §4.6).
package batch

import "errors"

// ErrCancelled describes a waveform that was never scheduled because the
// driver's cancellation token fired before its turn. The Driver reports
// such waveforms through Result.Cancelled and does not set Result.Err to
// this value.
var ErrCancelled = errors.New("batch: cancelled before extraction started")

// ErrDeadlineExceeded describes an operation whose deadline has passed
// (spec §5). No operation in this package takes a deadline or returns it.
var ErrDeadlineExceeded = errors.New("batch: deadline exceeded")
