// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/withtypes/withtypes/internal/pkgmanager"
	"github.com/withtypes/withtypes/internal/pkgspec"
	"github.com/withtypes/withtypes/internal/runner"
)

const (
	// TypesInstalled means the type package was found and installed.
	TypesInstalled State = "types-installed"
	// TypesAbsent means the registry has no matching type package.
	TypesAbsent State = "types-absent"
	// TypesSkipped means the type step was not attempted.
	TypesSkipped State = "types-skipped"

	// SkipTypesPackage means the dependency is itself a type package.
	SkipTypesPackage SkipReason = "already a type-declaration package"
	// SkipDisabled means type installs are turned off for the run.
	SkipDisabled SkipReason = "type installs disabled"
	// SkipExcluded means the dependency matches an exclude pattern.
	SkipExcluded SkipReason = "excluded by configuration"
)

type (
	// State is the final state of a successfully installed dependency.
	State string

	// SkipReason explains why the type step was not attempted.
	SkipReason string

	// Prober answers whether a package exists in the registry.
	Prober interface {
		Exists(ctx context.Context, name, version string) (bool, error)
	}

	// Outcome records what happened to one dependency.
	Outcome struct {
		Dependency Dependency
		State      State
		// TypesPackage is the probed type package; empty when skipped.
		TypesPackage string
		// SkipReason is set for TypesSkipped.
		SkipReason SkipReason
	}

	// Report lists the outcome of every dependency processed, in order.
	Report struct {
		Manager  pkgmanager.Descriptor
		Outcomes []Outcome
	}

	// Orchestrator installs dependencies and their type packages.
	Orchestrator struct {
		manager      pkgmanager.Descriptor
		runner       runner.Runner
		prober       Prober
		observer     Observer
		dir          string
		extraArgs    []string
		typesEnabled bool
		typesScope   string
		exclude      []string
	}

	// Option configures an Orchestrator.
	Option func(*Orchestrator)
)

// WithObserver sets the receiver of progress events.
func WithObserver(o Observer) Option {
	return func(orc *Orchestrator) {
		if o != nil {
			orc.observer = o
		}
	}
}

// WithDir sets the working directory of the package manager subprocesses.
func WithDir(dir string) Option {
	return func(orc *Orchestrator) {
		orc.dir = dir
	}
}

// WithExtraArgs appends args to every install command.
func WithExtraArgs(args ...string) Option {
	return func(orc *Orchestrator) {
		orc.extraArgs = append(orc.extraArgs, args...)
	}
}

// WithTypes turns the type-package step on or off.
func WithTypes(enabled bool) Option {
	return func(orc *Orchestrator) {
		orc.typesEnabled = enabled
	}
}

// WithTypesScope overrides the scope holding type packages ("@types").
func WithTypesScope(scope string) Option {
	return func(orc *Orchestrator) {
		if scope != "" {
			orc.typesScope = scope
		}
	}
}

// WithExclude skips the type step for packages matching any of the
// doublestar patterns ("@internal/**", "eslint-*").
func WithExclude(patterns ...string) Option {
	return func(orc *Orchestrator) {
		orc.exclude = append(orc.exclude, patterns...)
	}
}

// New creates an Orchestrator driving manager through r and probing type
// packages with prober.
func New(manager pkgmanager.Descriptor, r runner.Runner, prober Prober, opts ...Option) (*Orchestrator, error) {
	orc := &Orchestrator{
		manager:      manager,
		runner:       r,
		prober:       prober,
		observer:     NopObserver{},
		typesEnabled: true,
		typesScope:   pkgspec.DefaultTypesScope,
	}
	for _, opt := range opts {
		opt(orc)
	}

	for _, pattern := range orc.exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return orc, nil
}

// Run installs deps one at a time, runtime dependencies first.
//
// The returned Report covers every dependency processed so far, also when
// Run fails. Failures are *InstallError (the subprocess exited non-zero or
// never started) and *InterruptedError.
func (o *Orchestrator) Run(ctx context.Context, deps []Dependency) (Report, error) {
	report := Report{Manager: o.manager}

	for _, dep := range Ordered(deps) {
		if err := o.install(ctx, dep); err != nil {
			return report, err
		}

		outcome, err := o.installTypes(ctx, dep)
		if err != nil {
			return report, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return report, nil
}

// install runs one install subprocess and converts its result into an error.
func (o *Orchestrator) install(ctx context.Context, dep Dependency) error {
	cmd := runner.Command{
		Name: o.manager.Executable,
		Args: o.manager.InstallArgs(dep.Spec(), dep.Dev, o.extraArgs...),
		Dir:  o.dir,
	}

	if ctx.Err() != nil {
		return &InterruptedError{Dependency: dep, Command: cmd}
	}

	o.observer.InstallStarted(dep, cmd)
	res := o.runner.Run(ctx, cmd)
	o.observer.InstallFinished(dep, cmd, res)

	switch {
	case res.Interrupted:
		return &InterruptedError{Dependency: dep, Command: cmd}
	case res.Err != nil || !res.ExitCode.IsSuccess():
		return &InstallError{
			Dependency: dep,
			Command:    cmd,
			ExitCode:   res.ExitCode,
			Stderr:     res.Stderr,
			Err:        res.Err,
		}
	}

	slog.Debug("installed package", "package", dep.Spec(), "dev", dep.Dev, "manager", o.manager.Name)
	return nil
}

// installTypes probes for and installs the type package of an installed
// dependency. Only a failed or interrupted type install is an error.
func (o *Orchestrator) installTypes(ctx context.Context, dep Dependency) (Outcome, error) {
	if reason, skip := o.skipReason(dep); skip {
		o.observer.TypesSkipped(dep, reason)
		return Outcome{Dependency: dep, State: TypesSkipped, SkipReason: reason}, nil
	}

	typesDep := Dependency{
		Name:    pkgspec.TypesName(dep.Name, o.typesScope),
		Version: typesVersion(dep.Version),
		Dev:     true,
	}

	found, err := o.prober.Exists(ctx, typesDep.Name, typesDep.Version)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, &InterruptedError{Dependency: typesDep}
		}
		slog.Debug("type package probe failed", "package", typesDep.Spec(), "error", err)
	}
	if !found {
		o.observer.TypesMissing(dep, typesDep.Spec(), err)
		return Outcome{Dependency: dep, State: TypesAbsent, TypesPackage: typesDep.Spec()}, nil
	}

	if err := o.install(ctx, typesDep); err != nil {
		return Outcome{}, err
	}
	return Outcome{Dependency: dep, State: TypesInstalled, TypesPackage: typesDep.Spec()}, nil
}

func (o *Orchestrator) skipReason(dep Dependency) (SkipReason, bool) {
	if pkgspec.IsTypesPackage(dep.Name, o.typesScope) {
		return SkipTypesPackage, true
	}
	if !o.typesEnabled {
		return SkipDisabled, true
	}
	for _, pattern := range o.exclude {
		if ok, _ := doublestar.Match(pattern, dep.Name); ok {
			return SkipExcluded, true
		}
	}
	return "", false
}

// typesVersion carries a semver constraint over to the type package.
// Dist-tags, paths and URLs fall back to the latest release.
func typesVersion(version string) string {
	if pkgspec.IsConstraint(version) {
		return version
	}
	return ""
}
