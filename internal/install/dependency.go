// SPDX-License-Identifier: MPL-2.0

package install

import (
	"github.com/withtypes/withtypes/internal/manifest"
	"github.com/withtypes/withtypes/internal/pkgspec"
)

// Dependency is one package to install.
type Dependency struct {
	// Name is the package name, including its scope.
	Name string
	// Version is the constraint passed to the package manager; empty means latest.
	Version string
	// Dev installs the package as a development dependency.
	Dev bool
}

// Spec renders the dependency as the "name[@version]" argument of an
// install command.
func (d Dependency) Spec() string {
	return pkgspec.Spec{Name: d.Name, Version: d.Version}.String()
}

// FromCommands parses positional tokens into dependencies, all with the
// given dev marker. The first invalid token stops parsing with a
// *pkgspec.ParseError.
func FromCommands(commands []string, dev bool) ([]Dependency, error) {
	deps := make([]Dependency, 0, len(commands))
	for _, token := range commands {
		spec, err := pkgspec.Parse(token)
		if err != nil {
			return nil, err
		}
		deps = append(deps, Dependency{Name: spec.Name, Version: spec.Version, Dev: dev})
	}
	return deps, nil
}

// FromManifest lists the manifest's runtime dependencies followed by its
// development dependencies, both in document order. includeDev=false leaves
// the development dependencies out.
func FromManifest(m *manifest.Manifest, includeDev bool) []Dependency {
	if m == nil {
		return nil
	}

	deps := make([]Dependency, 0, len(m.Dependencies)+len(m.DevDependencies))
	for _, e := range m.Dependencies {
		deps = append(deps, Dependency{Name: e.Name, Version: e.Version})
	}
	if includeDev {
		for _, e := range m.DevDependencies {
			deps = append(deps, Dependency{Name: e.Name, Version: e.Version, Dev: true})
		}
	}
	return deps
}

// Ordered returns deps with runtime dependencies first and development
// dependencies after them, keeping the relative order inside each group.
func Ordered(deps []Dependency) []Dependency {
	out := make([]Dependency, 0, len(deps))
	for _, d := range deps {
		if !d.Dev {
			out = append(out, d)
		}
	}
	for _, d := range deps {
		if d.Dev {
			out = append(out, d)
		}
	}
	return out
}
