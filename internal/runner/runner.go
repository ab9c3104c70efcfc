// SPDX-License-Identifier: MPL-2.0

// Package runner executes package-manager subprocesses and reports their
// exit status, captured output and whether they were interrupted.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// interruptGrace is how long a cancelled child may take to exit after the
// interrupt before it is killed.
const interruptGrace = 5 * time.Second

type (
	// Command is a program invocation.
	Command struct {
		// Name is the executable, resolved through PATH.
		Name string
		// Args are the arguments after the executable.
		Args []string
		// Dir is the working directory; empty means the current one.
		Dir string
	}

	// Result describes a finished subprocess.
	Result struct {
		// ExitCode is the child's exit status, or ExitInterrupted.
		ExitCode ExitCode
		// Stdout is everything the child wrote to standard output.
		Stdout string
		// Stderr is everything the child wrote to standard error.
		Stderr string
		// Interrupted is set when the child died from an interrupt signal
		// or the caller's context was cancelled.
		Interrupted bool
		// Err is set when the child could not be started or waited for.
		Err error
	}

	// Runner runs a command to completion.
	Runner interface {
		Run(ctx context.Context, cmd Command) Result
	}

	// ExecRunner runs commands as real child processes.
	ExecRunner struct{}
)

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts cmd, waits for it and drains both output streams. Cancelling
// ctx sends the child an interrupt rather than killing it outright.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) Result {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Cancel = func() error {
		if err := c.Process.Signal(os.Interrupt); err != nil {
			// Windows cannot deliver os.Interrupt to a child.
			return c.Process.Kill()
		}
		return nil
	}
	c.WaitDelay = interruptGrace

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	slog.Debug("running command", "name", cmd.Name, "args", cmd.Args, "dir", cmd.Dir)
	err := c.Run()

	result := resultFromError(err, ctx.Err() != nil)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	return result
}

// resultFromError turns the error of exec.Cmd.Run into a Result. A child
// that ran and failed has no Err, whatever its status; Err is only set when
// it could not be started.
func resultFromError(err error, cancelled bool) Result {
	if err == nil {
		return Result{}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		status, _ := exitErr.Sys().(syscall.WaitStatus)
		switch {
		case cancelled || (status.Signaled() && status.Signal() == syscall.SIGINT):
			return Result{ExitCode: ExitInterrupted, Interrupted: true}
		case status.Signaled():
			return Result{ExitCode: signalExitCode(status.Signal())}
		default:
			return Result{ExitCode: exitCodeOf(exitErr.ExitCode())}
		}
	}

	if cancelled {
		return Result{ExitCode: ExitInterrupted, Interrupted: true}
	}

	// Not started: missing executable, permission denied.
	return Result{ExitCode: exitFailure, Err: fmt.Errorf("failed to execute command: %w", err)}
}
