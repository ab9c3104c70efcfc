// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"fmt"
	"strings"

	"github.com/withtypes/withtypes/internal/runner"
)

var (
	// ErrInstallFailed is the sentinel error wrapped by InstallError.
	ErrInstallFailed = errors.New("install failed")

	// ErrInterrupted is the sentinel error wrapped by InterruptedError.
	ErrInterrupted = errors.New("install interrupted")
)

type (
	// InstallError is returned when a package manager subprocess failed.
	// It ends the run; dependencies after Dependency are not attempted.
	InstallError struct {
		Dependency Dependency
		Command    runner.Command
		// ExitCode is the subprocess exit status.
		ExitCode runner.ExitCode
		// Stderr is the subprocess standard error, verbatim.
		Stderr string
		// Err is set when the subprocess could not be started.
		Err error
	}

	// InterruptedError is returned when the run was interrupted, either by a
	// signal delivered to the subprocess or by context cancellation.
	InterruptedError struct {
		Dependency Dependency
		Command    runner.Command
	}
)

// Error implements the error interface.
func (e *InstallError) Error() string {
	cmdline := strings.Join(append([]string{e.Command.Name}, e.Command.Args...), " ")
	if e.Err != nil {
		return fmt.Sprintf("installing %s: %s: %v", e.Dependency.Spec(), cmdline, e.Err)
	}
	return fmt.Sprintf("installing %s: %s exited with code %d", e.Dependency.Spec(), cmdline, e.ExitCode)
}

// Unwrap returns ErrInstallFailed and, when the subprocess never started,
// the start error.
func (e *InstallError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInstallFailed, e.Err}
	}
	return []error{ErrInstallFailed}
}

// Error implements the error interface.
func (e *InterruptedError) Error() string {
	return fmt.Sprintf("interrupted while installing %s", e.Dependency.Spec())
}

// Unwrap returns ErrInterrupted for errors.Is() compatibility.
func (e *InterruptedError) Unwrap() error { return ErrInterrupted }

// ExitCode returns the conventional exit status of an interrupted process.
func (e *InterruptedError) ExitCode() runner.ExitCode { return runner.ExitInterrupted }
