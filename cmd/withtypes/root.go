// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/withtypes/withtypes/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the withtypes command. Flag parsing is disabled:
// the raw arguments go to the args normalizer in runInstall.
func newRootCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "withtypes [flags] [package[@version] ...]",
		Short: "Install npm packages together with their type declarations",
		Long: TitleStyle.Render("withtypes") + SubtitleStyle.Render(" - Install npm packages together with their type declarations") + `

Every package is installed with the project's package manager (yarn, npm,
pnpm or bun, picked by lockfile or by what is installed). Right after each
install the matching @types package is looked up in the registry and
installed as a dev dependency when it exists.

Without package names the dependencies listed in package.json are installed.

` + SubtitleStyle.Render("Flags:") + `
  -D, --save-dev        install as development dependencies
      --prod            skip devDependencies when reading package.json
      --pm <name>       use this package manager (npm, yarn, pnpm, bun)
      --registry <url>  registry queried for type packages
      --no-types        do not install type packages
      --config <path>   config file (default is $XDG_CONFIG_HOME/withtypes/config.cue)
  -v, --verbose         enable debug output
      --version         print the version

Any other flag is passed on to every install command.

` + SubtitleStyle.Render("Examples:") + `
  withtypes lodash              Install lodash and @types/lodash
  withtypes -D @babel/core      Install @babel/core and @types/babel__core as dev dependencies
  withtypes express@^4.18.0     Install express and a matching @types/express
  withtypes --prod              Install the runtime dependencies from package.json
  withtypes lodash --exact      Run "yarn add lodash --exact" (or the npm, pnpm, bun equivalent)`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runInstall(cmd.Context(), cmd, args)
		},
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the install run's exit code.
// This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render(err.Error()))
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// errorHandler leaves *ExitError alone: runInstall has already reported it.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
