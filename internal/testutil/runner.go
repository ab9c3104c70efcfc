// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/withtypes/withtypes/internal/runner"
)

// FakeRunner is a runner.Runner returning scripted results.
//
// A result registered for the full command line ("npm install lodash") wins
// over one registered for the executable alone ("npm"); anything else gets
// Default, which is a successful run unless changed.
type FakeRunner struct {
	// Default is returned for commands without a scripted result.
	Default runner.Result

	mu      sync.Mutex
	results map[string]runner.Result
	calls   []runner.Command
}

// NewFakeRunner creates a FakeRunner where every command succeeds.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{results: make(map[string]runner.Result)}
}

// On scripts the result for a command line or executable name.
func (f *FakeRunner) On(cmdline string, res runner.Result) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[cmdline] = res
	return f
}

// Run records cmd and returns its scripted result.
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) runner.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, cmd)
	if res, ok := f.results[CommandLine(cmd)]; ok {
		return res
	}
	if res, ok := f.results[cmd.Name]; ok {
		return res
	}
	return f.Default
}

// Calls returns the commands received so far.
func (f *FakeRunner) Calls() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runner.Command(nil), f.calls...)
}

// CommandLines returns the received commands joined with spaces.
func (f *FakeRunner) CommandLines() []string {
	calls := f.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = CommandLine(c)
	}
	return lines
}

// CommandLine joins a command's executable and arguments with spaces.
func CommandLine(cmd runner.Command) string {
	return strings.Join(append([]string{cmd.Name}, cmd.Args...), " ")
}
