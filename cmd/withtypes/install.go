// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/withtypes/withtypes/internal/args"
	"github.com/withtypes/withtypes/internal/config"
	"github.com/withtypes/withtypes/internal/install"
	"github.com/withtypes/withtypes/internal/issue"
	"github.com/withtypes/withtypes/internal/manifest"
	"github.com/withtypes/withtypes/internal/pkgmanager"
	"github.com/withtypes/withtypes/internal/pkgspec"
	"github.com/withtypes/withtypes/internal/runner"
	"github.com/withtypes/withtypes/internal/tui"
)

var (
	// baseSwitches are the flags that never take a value, whatever the config says.
	baseSwitches = []string{"help", "h", "version", "verbose", "v", "noTypes"}
	// valueFlags are the withtypes flags that take a value.
	valueFlags = []string{"config", "pm", "registry"}
)

// runInstall is the root command's handler. An *ExitError is reported to
// stderr before it is returned.
func (a *App) runInstall(ctx context.Context, cmd *cobra.Command, rawArgs []string) (err error) {
	style := issueStyle(a.stderr, config.ColorSchemeAuto)
	defer func() {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			exitErr.report(a.stderr, style)
		}
	}()

	pre := args.Normalize(rawArgs, args.WithSwitches(baseSwitches...))
	if pre.Flags.Truthy("help", "h") {
		return cmd.Help()
	}
	if pre.Flags.Truthy("version") {
		fmt.Fprintln(a.stdout, config.AppName+" "+getVersionString())
		return nil
	}

	verbose := pre.Flags.Truthy("verbose", "v")
	installLogger(newLogger(a.stderr, verbose))

	configPath, _ := pre.Flags.Text("config")
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath, BaseDir: a.workdir})
	if err != nil {
		return configError(err, configPath, verbose)
	}
	style = issueStyle(a.stderr, cfg.UI.ColorScheme)
	if cfg.UI.Verbose && !verbose {
		verbose = true
		installLogger(newLogger(a.stderr, verbose))
	}

	// The config may declare more switches, so normalize again.
	devFlags := flagNames(cfg.Flags.Dev)
	productionFlags := flagNames(cfg.Flags.Production)
	switches := slices.Concat(baseSwitches, devFlags, productionFlags, flagNames(cfg.Flags.Switches))
	parsed := args.Normalize(rawArgs, args.WithSwitches(switches...))

	forwarded := forwardedArgs(parsed.Occurrences, slices.Concat(baseSwitches, valueFlags, devFlags, productionFlags))
	if len(forwarded) > 0 {
		slog.Debug("forwarding flags to the package manager", "args", forwarded)
	}

	det, err := a.detectManager(ctx, parsed.Flags, cfg)
	if err != nil {
		return err
	}

	deps, err := a.resolveDependencies(parsed, devFlags, productionFlags, verbose)
	if err != nil {
		return err
	}
	if len(deps) == 0 {
		fmt.Fprintln(a.stdout, VerboseStyle.Render("Nothing to install"))
		return nil
	}

	manager := det.Descriptor.WithRegistry(cfg.PackageManager.Registry)
	if registryURL, ok := parsed.Flags.Text("registry"); ok {
		manager = manager.WithRegistry(registryURL)
	}

	orc, err := a.newOrchestrator(manager, parsed.Flags, cfg, forwarded)
	if err != nil {
		return configError(err, configPath, verbose)
	}

	report, err := orc.Run(ctx, deps)
	if err != nil {
		return a.installFailure(err, verbose)
	}

	a.printSummary(report)
	return nil
}

// detectManager selects the package manager; --pm wins over the config.
func (a *App) detectManager(ctx context.Context, flags args.Flags, cfg *config.Config) (pkgmanager.Detection, error) {
	preferred := cfg.PackageManager.Preferred.Manager()
	if pm, ok := flags.Text("pm"); ok {
		preferred = pkgmanager.Name(pm)
	}

	det, err := pkgmanager.Detect(ctx, pkgmanager.DetectOptions{
		FS:        os.DirFS(a.workdir),
		Runner:    a.Runner,
		Dir:       a.workdir,
		Priority:  cfg.PackageManager.Priority,
		Preferred: preferred,
	})
	switch {
	case err == nil:
		slog.Debug("selected package manager", "manager", det.Descriptor.Name, "source", det.Source, "lockfile", det.Lockfile)
		return det, nil
	case errors.Is(err, pkgmanager.ErrUnknownManager):
		return det, &ExitError{Code: exitUsage, Err: err, Message: ErrorStyle.Render(err.Error()) + "\n"}
	case errors.Is(err, pkgmanager.ErrNotFound):
		return det, &ExitError{Code: exitUnavailable, Err: err, Message: ErrorStyle.Render(err.Error()) + "\n", Issue: issue.PackageManagerNotFoundId}
	default:
		return det, &ExitError{Code: runner.ExitInterrupted, Err: err}
	}
}

// resolveDependencies turns the positional tokens into dependencies, or
// reads package.json when there are none.
func (a *App) resolveDependencies(parsed args.Parsed, devFlags, productionFlags []string, verbose bool) ([]install.Dependency, error) {
	if len(parsed.Commands) > 0 {
		deps, err := install.FromCommands(parsed.Commands, parsed.Flags.Truthy(devFlags...))
		if err != nil {
			if errors.Is(err, pkgspec.ErrInvalidSpec) {
				msg := issue.NewErrorContext("parse package arguments").
					Hint("Write packages as name[@version], for example lodash@^4.17.0").
					Wrap(err).
					Build()
				return nil, &ExitError{
					Code:    exitDataErr,
					Err:     err,
					Message: ErrorStyle.Render(formatErrorForDisplay(msg, verbose)) + "\n",
					Issue:   issue.InvalidPackageSpecId,
				}
			}
			return nil, &ExitError{Code: exitDataErr, Err: err, Message: ErrorStyle.Render(err.Error()) + "\n"}
		}
		return deps, nil
	}

	m, err := manifest.Load(os.DirFS(a.workdir))
	switch {
	case errors.Is(err, manifest.ErrNotFound):
		return nil, &ExitError{
			Code:    exitNoInput,
			Err:     err,
			Message: ErrorStyle.Render(manifest.FileName+" not found") + "\n",
			Issue:   issue.ManifestNotFoundId,
		}
	case err != nil:
		msg := issue.NewErrorContext("read").
			InFile(manifest.FileName).
			Hint("Check that " + manifest.FileName + " is valid JSON").
			Wrap(err).
			Build()
		return nil, &ExitError{Code: exitDataErr, Err: err, Message: ErrorStyle.Render(formatErrorForDisplay(msg, verbose)) + "\n"}
	}

	production := parsed.Flags.Truthy(productionFlags...)
	return install.FromManifest(m, !production), nil
}

// newOrchestrator wires the run. forwarded flags follow the configured
// extra_args on every install command line.
func (a *App) newOrchestrator(manager pkgmanager.Descriptor, flags args.Flags, cfg *config.Config, forwarded []string) (*install.Orchestrator, error) {
	extraArgs, err := cfg.PackageManager.ExtraArgList()
	if err != nil {
		return nil, err
	}

	spinnerType, err := tui.ParseSpinnerType(cfg.UI.Spinner)
	if err != nil {
		return nil, err
	}

	return install.New(manager, a.Runner, a.Registry(manager.RegistryURL),
		install.WithObserver(newProgressObserver(a.stdout, tui.IsTerminal(a.stdout), spinnerType)),
		install.WithDir(a.workdir),
		install.WithExtraArgs(slices.Concat(extraArgs, forwarded)...),
		install.WithTypes(cfg.Types.Enabled && !flags.Truthy("noTypes")),
		install.WithTypesScope(cfg.Types.Scope),
		install.WithExclude(cfg.Types.Exclude...),
	)
}

// installFailure maps an Orchestrator.Run error to the process exit code.
func (a *App) installFailure(err error, verbose bool) error {
	var interrupted *install.InterruptedError
	if errors.As(err, &interrupted) {
		fmt.Fprintln(a.stderr)
		fmt.Fprintln(a.stderr, ErrorStyle.Render("Aborted"))
		return &ExitError{Code: interrupted.ExitCode(), Err: err}
	}

	var installErr *install.InstallError
	if !errors.As(err, &installErr) {
		return &ExitError{Code: 1, Err: err, Message: ErrorStyle.Render(err.Error()) + "\n"}
	}

	var styled strings.Builder
	if stderr := strings.TrimRight(installErr.Stderr, "\n"); stderr != "" {
		styled.WriteString(stderrStyle.Render(stderr) + "\n")
	}

	ec := issue.NewErrorContext("install").
		ForPackage(installErr.Dependency.Spec()).
		RunningCommand(quoteCommand(installErr.Command))
	issueID := issue.InstallFailedId
	if installErr.Err != nil {
		ec = ec.Wrap(installErr.Err).Hint("Check that " + installErr.Command.Name + " is installed and on your PATH")
		issueID = issue.PackageManagerStartFailedId
	} else {
		ec = ec.Wrap(fmt.Errorf("%s exited with code %d", installErr.Command.Name, installErr.ExitCode))
	}
	styled.WriteString(ErrorStyle.Render(formatErrorForDisplay(ec.Build(), verbose)) + "\n")

	code := installErr.ExitCode
	if code.IsSuccess() {
		code = 1
	}
	return &ExitError{Code: code, Err: err, Message: styled.String(), Issue: issueID}
}

func (a *App) printSummary(report install.Report) {
	var typed int
	for _, o := range report.Outcomes {
		if o.State == install.TypesInstalled {
			typed++
		}
	}
	fmt.Fprintln(a.stdout, SuccessStyle.Render(fmt.Sprintf("Installed %d %s (%d with types) using %s",
		len(report.Outcomes), plural(len(report.Outcomes), "package", "packages"), typed, report.Manager.Name)))
}

// configError wraps a configuration failure for display with exit code 78.
func configError(err error, path string, verbose bool) error {
	ec := issue.NewErrorContext("load configuration").
		Hint("Run with --verbose to see the full error chain").
		Wrap(err)
	if path != "" {
		ec = ec.InFile(path)
	}
	return &ExitError{
		Code:    exitConfig,
		Err:     err,
		Message: ErrorStyle.Render(formatErrorForDisplay(ec.Build(), verbose)) + "\n",
		Issue:   issue.ConfigLoadFailedId,
	}
}

// issueStyle picks the glamour style for catalog entries written to w.
func issueStyle(w io.Writer, scheme config.ColorScheme) string {
	if !tui.IsTerminal(w) {
		return "notty"
	}
	return scheme.String()
}

// flagNames normalizes configured flag names ("save-dev" becomes "saveDev").
func flagNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = args.CamelCase(strings.TrimLeft(n, "-"))
	}
	return out
}

// forwardedArgs returns the raw tokens of every flag withtypes does not
// read itself, in input order, for the package manager's command line. A
// bundle of short flags keeps only its unknown letters ("-DE" gives "-E").
func forwardedArgs(occurrences []args.Occurrence, known []string) []string {
	var out []string
	for _, occ := range occurrences {
		if len(occ.Names) == 1 {
			if !slices.Contains(known, occ.Names[0]) {
				out = append(out, occ.Tokens...)
			}
			continue
		}

		var unknown strings.Builder
		for _, name := range occ.Names {
			if !slices.Contains(known, name) {
				unknown.WriteString(name)
			}
		}
		if unknown.Len() > 0 {
			out = append(out, "-"+unknown.String())
		}
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
