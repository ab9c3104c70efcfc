// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
)

type (
	// ActionableError reports one failed step of an install run: the
	// package and command involved, and what the user can do next.
	//
	//	err := issue.NewErrorContext("install").
	//		ForPackage("lodash@^4").
	//		RunningCommand("yarn add lodash@^4").
	//		Hint("Check that yarn is on your PATH").
	//		Wrap(startErr).
	//		Build()
	ActionableError struct {
		// Step is the failed action as a verb phrase ("install", "read").
		Step string
		// Package is the "name[@version]" being processed, if any.
		Package string
		// Command is the package manager command line, if one was started.
		Command string
		// File is the file the step worked on, if any.
		File string
		// Hints are remediation steps, printed one per line.
		Hints []string
		// Cause is the underlying error.
		Cause error
	}

	// ErrorContext builds an ActionableError.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext starts an ActionableError for step.
func NewErrorContext(step string) *ErrorContext {
	return &ErrorContext{err: ActionableError{Step: step}}
}

// ForPackage names the package spec the step was processing.
func (c *ErrorContext) ForPackage(spec string) *ErrorContext {
	c.err.Package = spec
	return c
}

// RunningCommand records the command line the step started.
func (c *ErrorContext) RunningCommand(cmdline string) *ErrorContext {
	c.err.Command = cmdline
	return c
}

// InFile names the file the step worked on.
func (c *ErrorContext) InFile(path string) *ErrorContext {
	c.err.File = path
	return c
}

// Hint adds a remediation step.
func (c *ErrorContext) Hint(text string) *ErrorContext {
	c.err.Hints = append(c.err.Hints, text)
	return c
}

// Wrap sets the underlying error.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns the ActionableError. The builder may be reused afterwards.
func (c *ErrorContext) Build() *ActionableError {
	out := c.err
	out.Hints = append([]string(nil), c.err.Hints...)
	return &out
}

// Error returns a one-line summary: "could not install lodash: cause".
func (e *ActionableError) Error() string {
	parts := []string{"could not " + e.Step}
	for _, subject := range []string{e.Package, e.File} {
		if subject != "" {
			parts = append(parts, subject)
		}
	}

	msg := strings.Join(parts, " ")
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the cause for errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the summary, the command that was started and the hints.
// verbose adds one "caused by" line per wrapped error.
func (e *ActionableError) Format(verbose bool) string {
	lines := []string{e.Error()}

	if e.Command != "" {
		lines = append(lines, "  $ "+e.Command)
	}
	for _, hint := range e.Hints {
		lines = append(lines, "  hint: "+hint)
	}
	if verbose {
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			lines = append(lines, "  caused by: "+err.Error())
		}
	}

	return strings.Join(lines, "\n")
}
