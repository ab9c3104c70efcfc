// SPDX-License-Identifier: MPL-2.0

// Package pkgmanager describes the supported JavaScript package managers and
// selects the one to use for a project.
//
// Selection order: an explicit preference, then the first lockfile found in
// the project directory, then the first executable that answers a
// "--version" probe. The priority list drives both the lockfile and the
// probe passes.
package pkgmanager

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// NameNpm is the npm CLI.
	NameNpm Name = "npm"
	// NameYarn is the Yarn CLI.
	NameYarn Name = "yarn"
	// NamePnpm is the pnpm CLI.
	NamePnpm Name = "pnpm"
	// NameBun is the Bun runtime's package manager.
	NameBun Name = "bun"

	// NpmRegistryURL is the public npm registry.
	NpmRegistryURL = "https://registry.npmjs.org"
	// YarnRegistryURL is Yarn's mirror of the npm registry.
	YarnRegistryURL = "https://registry.yarnpkg.com"
)

// ErrUnknownManager is the sentinel error wrapped by UnknownManagerError.
var ErrUnknownManager = errors.New("unknown package manager")

type (
	// Name identifies a package manager.
	Name string

	// UnknownManagerError is returned when a Name is not a supported manager.
	UnknownManagerError struct {
		Value Name
	}

	// Descriptor is the immutable record of how to drive one package manager.
	Descriptor struct {
		// Name identifies the manager.
		Name Name
		// Executable is the program looked up on PATH.
		Executable string
		// InstallCommand is the subcommand adding a package ("install" or "add").
		InstallCommand string
		// DevFlag marks an install as a development dependency.
		DevFlag string
		// Lockfiles are the files whose presence selects this manager.
		Lockfiles []string
		// RegistryURL is the registry queried for type packages.
		RegistryURL string
	}
)

var builtins = map[Name]Descriptor{
	NameYarn: {
		Name:           NameYarn,
		Executable:     "yarn",
		InstallCommand: "add",
		DevFlag:        "--dev",
		Lockfiles:      []string{"yarn.lock"},
		RegistryURL:    YarnRegistryURL,
	},
	NameNpm: {
		Name:           NameNpm,
		Executable:     "npm",
		InstallCommand: "install",
		DevFlag:        "--save-dev",
		Lockfiles:      []string{"package-lock.json", "npm-shrinkwrap.json"},
		RegistryURL:    NpmRegistryURL,
	},
	NamePnpm: {
		Name:           NamePnpm,
		Executable:     "pnpm",
		InstallCommand: "add",
		DevFlag:        "--save-dev",
		Lockfiles:      []string{"pnpm-lock.yaml"},
		RegistryURL:    NpmRegistryURL,
	},
	NameBun: {
		Name:           NameBun,
		Executable:     "bun",
		InstallCommand: "add",
		DevFlag:        "--dev",
		Lockfiles:      []string{"bun.lock", "bun.lockb"},
		RegistryURL:    NpmRegistryURL,
	},
}

// DefaultPriority is the order in which managers are tried when nothing
// else decides. Yarn comes first, matching the tool's historical behavior.
func DefaultPriority() []Name {
	return []Name{NameYarn, NameNpm, NamePnpm, NameBun}
}

// Names returns every supported manager name, sorted.
func Names() []Name {
	names := make([]Name, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the descriptor for name.
func Lookup(name Name) (Descriptor, error) {
	d, ok := builtins[name]
	if !ok {
		return Descriptor{}, &UnknownManagerError{Value: name}
	}
	d.Lockfiles = slices.Clone(d.Lockfiles)
	return d, nil
}

// Error implements the error interface.
func (e *UnknownManagerError) Error() string {
	valid := make([]string, 0, len(builtins))
	for _, n := range Names() {
		valid = append(valid, string(n))
	}
	return fmt.Sprintf("unknown package manager %q (valid: %s)", e.Value, strings.Join(valid, ", "))
}

// Unwrap returns ErrUnknownManager for errors.Is() compatibility.
func (e *UnknownManagerError) Unwrap() error { return ErrUnknownManager }

// Validate returns an error if n is not a supported manager.
func (n Name) Validate() error {
	if _, ok := builtins[n]; !ok {
		return &UnknownManagerError{Value: n}
	}
	return nil
}

// String returns the manager name.
func (n Name) String() string { return string(n) }

// InstallArgs builds the argument list installing pkg (a "name[@version]"
// string). extra arguments are appended after the dev flag.
func (d Descriptor) InstallArgs(pkg string, dev bool, extra ...string) []string {
	args := []string{d.InstallCommand, pkg}
	if dev {
		args = append(args, d.DevFlag)
	}
	return append(args, extra...)
}

// WithRegistry returns a copy of d that queries registryURL instead.
func (d Descriptor) WithRegistry(registryURL string) Descriptor {
	if registryURL != "" {
		d.RegistryURL = strings.TrimRight(registryURL, "/")
	}
	return d
}
