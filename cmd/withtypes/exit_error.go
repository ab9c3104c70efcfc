// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/withtypes/withtypes/internal/issue"
	"github.com/withtypes/withtypes/internal/runner"
)

const (
	// exitUsage is returned for an unknown --pm value.
	exitUsage runner.ExitCode = 64
	// exitDataErr is returned for an unparsable package token or manifest.
	exitDataErr runner.ExitCode = 65
	// exitNoInput is returned when no packages are named and there is no manifest.
	exitNoInput runner.ExitCode = 66
	// exitUnavailable is returned when no package manager can be found.
	exitUnavailable runner.ExitCode = 69
	// exitConfig is returned for configuration errors.
	exitConfig runner.ExitCode = 78
)

// ExitError ends an install run with Code. runInstall writes Message and the
// Issue catalog entry to stderr before returning it; Execute turns Code into
// the process exit status.
type ExitError struct {
	Code runner.ExitCode
	Err  error
	// Message is styled text describing the failure, newline-terminated.
	Message string
	// Issue is the catalog entry shown after Message; zero means none.
	Issue issue.Id
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// report writes Message and the rendered catalog entry to w. style is a
// glamour style name (see issue.Issue.Render).
func (e *ExitError) report(w io.Writer, style string) {
	fmt.Fprint(w, e.Message)

	entry := issue.Get(e.Issue)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(style)
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issue", e.Issue, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}
