// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"strconv"
	"syscall"
)

const (
	// ExitInterrupted is reported when the child was stopped by an interrupt
	// (128 + SIGINT).
	ExitInterrupted ExitCode = 130

	// exitFailure stands for a child that never ran and for a status that
	// does not fit in a byte.
	exitFailure ExitCode = 1

	maxExitCode = 255
)

// ExitCode is a child's exit status the way a POSIX shell reports it: 0 to
// 255, with 128+N for a child killed by signal N. Zero means success.
type ExitCode int

// exitCodeOf converts a raw exit status. Values outside 0-255, such as
// Windows NTSTATUS codes, become a plain failure.
func exitCodeOf(status int) ExitCode {
	if status < 0 || status > maxExitCode {
		return exitFailure
	}
	return ExitCode(status)
}

// signalExitCode is the status of a child killed by sig.
func signalExitCode(sig syscall.Signal) ExitCode {
	return ExitCode(128 + int(sig))
}

// IsSuccess reports whether the child exited cleanly.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the status in decimal.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
