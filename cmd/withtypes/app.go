// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/withtypes/withtypes/internal/config"
	"github.com/withtypes/withtypes/internal/install"
	"github.com/withtypes/withtypes/internal/registry"
	"github.com/withtypes/withtypes/internal/runner"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: the root command handler receives an App and
	// delegates the install run through its services.
	App struct {
		Config   ConfigProvider
		Runner   runner.Runner
		Registry RegistryFactory
		workdir  string
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp. Tests can supply fakes
	// to isolate the subprocess and registry collaborators.
	Dependencies struct {
		Config   ConfigProvider
		Runner   runner.Runner
		Registry RegistryFactory
		// Workdir is the project directory; empty means the process working directory.
		Workdir string
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// RegistryFactory returns the prober for the registry at baseURL.
	RegistryFactory func(baseURL string) install.Prober
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = runner.NewExecRunner()
	}
	if deps.Registry == nil {
		deps.Registry = defaultRegistry
	}
	if deps.Workdir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		deps.Workdir = wd
	}

	return &App{
		Config:   deps.Config,
		Runner:   deps.Runner,
		Registry: deps.Registry,
		workdir:  deps.Workdir,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}, nil
}

// defaultRegistry probes baseURL over HTTPS.
func defaultRegistry(baseURL string) install.Prober {
	return registry.NewClient(
		registry.WithBaseURL(baseURL),
		registry.WithUserAgent(config.AppName+"/"+Version),
	)
}
