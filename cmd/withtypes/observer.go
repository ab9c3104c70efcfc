// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/withtypes/withtypes/internal/install"
	"github.com/withtypes/withtypes/internal/runner"
	"github.com/withtypes/withtypes/internal/tui"
)

// progressObserver prints one "> command" line per subprocess, animating
// a spinner after it while the package manager runs.
type progressObserver struct {
	out         io.Writer
	animate     bool
	spinnerOpts []tui.SpinnerOption
	spinner     *tui.Spinner
}

var _ install.Observer = (*progressObserver)(nil)

func newProgressObserver(out io.Writer, animate bool, spinnerType tui.SpinnerType) *progressObserver {
	return &progressObserver{
		out:     out,
		animate: animate,
		spinnerOpts: []tui.SpinnerOption{
			tui.WithType(spinnerType),
			tui.WithStyle(spinnerStyle),
		},
	}
}

// InstallStarted prints the command line and starts the spinner.
func (o *progressObserver) InstallStarted(_ install.Dependency, cmd runner.Command) {
	fmt.Fprint(o.out, CmdStyle.Render("> "+quoteCommand(cmd))+" ")
	if o.animate {
		o.spinner = tui.NewSpinner(o.out, o.spinnerOpts...)
		o.spinner.Start()
	}
}

// InstallFinished replaces the spinner with a check mark or a cross.
func (o *progressObserver) InstallFinished(_ install.Dependency, _ runner.Command, res runner.Result) {
	if o.spinner != nil {
		o.spinner.Stop()
		o.spinner = nil
	}

	if res.Err == nil && !res.Interrupted && res.ExitCode.IsSuccess() {
		fmt.Fprintln(o.out, SuccessStyle.Render("✓"))
		return
	}
	fmt.Fprintln(o.out, ErrorStyle.Render("✗"))
}

// TypesMissing reports a dependency without a type package.
func (o *progressObserver) TypesMissing(dep install.Dependency, typesPackage string, err error) {
	if err != nil {
		fmt.Fprintln(o.out, WarningStyle.Render(fmt.Sprintf("Could not look up %s (%v), skipping", typesPackage, err)))
		return
	}
	fmt.Fprintln(o.out, WarningStyle.Render(fmt.Sprintf("There is no types package for %s, skipping", dep.Name)))
}

// TypesSkipped only mentions exclusions; type packages and disabled runs
// are skipped silently.
func (o *progressObserver) TypesSkipped(dep install.Dependency, reason install.SkipReason) {
	if reason == install.SkipExcluded {
		fmt.Fprintln(o.out, VerboseStyle.Render(fmt.Sprintf("Types for %s %s", dep.Name, reason)))
	}
}

// quoteCommand renders cmd the way it would be typed into a shell.
func quoteCommand(cmd runner.Command) string {
	words := make([]string, 0, len(cmd.Args)+1)
	for _, w := range append([]string{cmd.Name}, cmd.Args...) {
		quoted, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			quoted = w
		}
		words = append(words, quoted)
	}
	return strings.Join(words, " ")
}
