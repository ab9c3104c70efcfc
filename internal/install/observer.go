// SPDX-License-Identifier: MPL-2.0

package install

import "github.com/withtypes/withtypes/internal/runner"

type (
	// Observer receives progress events from Orchestrator.Run. Events are
	// delivered synchronously from the run loop, one at a time.
	Observer interface {
		// InstallStarted is called before a package manager subprocess starts.
		InstallStarted(dep Dependency, cmd runner.Command)
		// InstallFinished is called once the subprocess has exited.
		InstallFinished(dep Dependency, cmd runner.Command, res runner.Result)
		// TypesMissing is called when no type package is available for dep.
		// err is non-nil when the registry could not be queried.
		TypesMissing(dep Dependency, typesPackage string, err error)
		// TypesSkipped is called when the type step is not attempted for dep.
		TypesSkipped(dep Dependency, reason SkipReason)
	}

	// NopObserver ignores every event.
	NopObserver struct{}
)

// InstallStarted implements Observer.
func (NopObserver) InstallStarted(Dependency, runner.Command) {}

// InstallFinished implements Observer.
func (NopObserver) InstallFinished(Dependency, runner.Command, runner.Result) {}

// TypesMissing implements Observer.
func (NopObserver) TypesMissing(Dependency, string, error) {}

// TypesSkipped implements Observer.
func (NopObserver) TypesSkipped(Dependency, SkipReason) {}
