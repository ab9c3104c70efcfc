// SPDX-License-Identifier: MPL-2.0

package pkgmanager

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/withtypes/withtypes/internal/runner"
)

// ErrNotFound is the sentinel error wrapped by NotFoundError.
var ErrNotFound = errors.New("no supported package manager found")

type (
	// DetectOptions are the inputs to Detect.
	DetectOptions struct {
		// FS is the project directory searched for lockfiles.
		FS fs.FS
		// Runner executes the "--version" probes.
		Runner runner.Runner
		// Dir is the working directory for probes.
		Dir string
		// Priority orders the candidates. Empty means DefaultPriority().
		Priority []Name
		// Preferred forces a manager, skipping lockfiles and probes.
		Preferred Name
	}

	// Source records why a manager was selected.
	Source string

	// Detection is the outcome of Detect.
	Detection struct {
		Descriptor Descriptor
		Source     Source
		// Lockfile is the file that decided the manager, for SourceLockfile.
		Lockfile string
	}

	// NotFoundError is returned when no candidate manager is usable.
	NotFoundError struct {
		Tried []Name
	}
)

const (
	// SourcePreferred means the manager was requested explicitly.
	SourcePreferred Source = "preferred"
	// SourceLockfile means a lockfile in the project selected the manager.
	SourceLockfile Source = "lockfile"
	// SourceProbe means the manager's executable answered a version probe.
	SourceProbe Source = "probe"
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	tried := make([]string, len(e.Tried))
	for i, n := range e.Tried {
		tried[i] = string(n)
	}
	return fmt.Sprintf("no supported package manager found (tried %s)", strings.Join(tried, ", "))
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Detect selects the package manager for a run.
func Detect(ctx context.Context, opts DetectOptions) (Detection, error) {
	if opts.Preferred != "" {
		d, err := Lookup(opts.Preferred)
		if err != nil {
			return Detection{}, err
		}
		return Detection{Descriptor: d, Source: SourcePreferred}, nil
	}

	priority := opts.Priority
	if len(priority) == 0 {
		priority = DefaultPriority()
	}

	candidates := make([]Descriptor, 0, len(priority))
	for _, name := range priority {
		d, err := Lookup(name)
		if err != nil {
			return Detection{}, err
		}
		candidates = append(candidates, d)
	}

	if opts.FS != nil {
		for _, d := range candidates {
			for _, lockfile := range d.Lockfiles {
				if fileExists(opts.FS, lockfile) {
					return Detection{Descriptor: d, Source: SourceLockfile, Lockfile: lockfile}, nil
				}
			}
		}
	}

	if opts.Runner != nil {
		for _, d := range candidates {
			if err := ctx.Err(); err != nil {
				return Detection{}, fmt.Errorf("package manager detection canceled: %w", err)
			}
			res := opts.Runner.Run(ctx, runner.Command{Name: d.Executable, Args: []string{"--version"}, Dir: opts.Dir})
			if res.Err == nil && res.ExitCode.IsSuccess() {
				return Detection{Descriptor: d, Source: SourceProbe}, nil
			}
			slog.Debug("package manager probe failed", "manager", d.Name, "exitCode", res.ExitCode, "error", res.Err)
		}
	}

	return Detection{}, &NotFoundError{Tried: priority}
}

// fileExists checks if a file exists and is not a directory
func fileExists(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && !info.IsDir()
}
