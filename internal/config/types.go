// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"mvdan.cc/sh/v3/shell"

	"github.com/withtypes/withtypes/internal/pkgmanager"
	"github.com/withtypes/withtypes/internal/pkgspec"
	"github.com/withtypes/withtypes/internal/tui"
)

const (
	// PreferredAuto selects the package manager by lockfile, then by probing.
	PreferredAuto PreferredManager = "auto"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidPreferredManager is returned when a PreferredManager value is not recognized.
	ErrInvalidPreferredManager = errors.New("invalid preferred package manager")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidExcludePattern is returned when a types.exclude entry is not a valid glob.
	ErrInvalidExcludePattern = errors.New("invalid exclude pattern")
	// ErrInvalidExtraArgs is returned when package_manager.extra_args cannot be split.
	ErrInvalidExtraArgs = errors.New("invalid extra arguments")
	// ErrInvalidRegistryURL is returned when package_manager.registry is not an http(s) URL.
	ErrInvalidRegistryURL = errors.New("invalid registry URL")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// PreferredManager is a package manager name or PreferredAuto.
	PreferredManager string

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// FieldError ties a validation failure to its configuration key.
	FieldError struct {
		Field string
		Err   error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// PackageManagerConfig controls package manager selection and invocation.
	PackageManagerConfig struct {
		// Preferred forces a manager instead of detecting one.
		Preferred PreferredManager `json:"preferred" mapstructure:"preferred"`
		// Priority orders the lockfile and probe passes.
		Priority []pkgmanager.Name `json:"priority" mapstructure:"priority"`
		// ExtraArgs is appended to every install command.
		ExtraArgs string `json:"extra_args" mapstructure:"extra_args"`
		// Registry overrides the registry queried for type packages.
		Registry string `json:"registry" mapstructure:"registry"`
	}

	// TypesConfig controls the type-package step.
	TypesConfig struct {
		// Enabled turns the step on or off.
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Scope is the registry scope holding type packages.
		Scope string `json:"scope" mapstructure:"scope"`
		// Exclude lists doublestar globs of packages never probed.
		Exclude []string `json:"exclude" mapstructure:"exclude"`
	}

	// FlagsConfig maps command-line flags to their meaning. Names may be
	// given normalized ("saveDev") or dashed ("--save-dev").
	FlagsConfig struct {
		// Dev flags install the named packages as development dependencies.
		Dev []string `json:"dev" mapstructure:"dev"`
		// Production flags leave devDependencies out of manifest installs.
		Production []string `json:"production" mapstructure:"production"`
		// Switches are forwarded flags that never take a value, so
		// "--exact lodash" keeps lodash as a package.
		Switches []string `json:"switches" mapstructure:"switches"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// ColorScheme sets the color scheme ("auto", "dark", "light")
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Spinner names the animation shown while a package manager runs.
		Spinner string `json:"spinner" mapstructure:"spinner"`
	}

	// Config holds the application configuration.
	Config struct {
		PackageManager PackageManagerConfig `json:"package_manager" mapstructure:"package_manager"`
		Types          TypesConfig          `json:"types" mapstructure:"types"`
		Flags          FlagsConfig          `json:"flags" mapstructure:"flags"`
		UI             UIConfig             `json:"ui" mapstructure:"ui"`
	}
)

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether p is PreferredAuto or a supported manager name.
func (p PreferredManager) IsValid() (bool, []error) {
	if p == PreferredAuto {
		return true, nil
	}
	if err := pkgmanager.Name(p).Validate(); err != nil {
		return false, []error{fmt.Errorf("%w: %w", ErrInvalidPreferredManager, err)}
	}
	return true, nil
}

// Manager returns the forced manager, or "" for PreferredAuto.
func (p PreferredManager) Manager() pkgmanager.Name {
	if p == PreferredAuto {
		return ""
	}
	return pkgmanager.Name(p)
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying validation error.
func (e *FieldError) Unwrap() error { return e.Err }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// ExtraArgList splits ExtraArgs with shell word rules ("--registry 'http://x'"
// yields two arguments). Variable references are expanded from the environment.
func (c PackageManagerConfig) ExtraArgList() ([]string, error) {
	if c.ExtraArgs == "" {
		return nil, nil
	}
	args, err := shell.Fields(c.ExtraArgs, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExtraArgs, err)
	}
	return args, nil
}

// IsValid returns whether the PackageManagerConfig has valid fields.
func (c PackageManagerConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Preferred.IsValid(); !valid {
		errs = append(errs, fieldErrors("package_manager.preferred", fieldErrs)...)
	}
	for i, name := range c.Priority {
		if err := name.Validate(); err != nil {
			errs = append(errs, &FieldError{Field: fmt.Sprintf("package_manager.priority[%d]", i), Err: err})
		}
	}
	if _, err := c.ExtraArgList(); err != nil {
		errs = append(errs, &FieldError{Field: "package_manager.extra_args", Err: err})
	}
	if c.Registry != "" {
		if u, err := url.Parse(c.Registry); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, &FieldError{Field: "package_manager.registry", Err: fmt.Errorf("%w: %q", ErrInvalidRegistryURL, c.Registry)})
		}
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the TypesConfig has valid fields.
func (c TypesConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Scope != "" && !pkgspec.IsScope(c.Scope) {
		errs = append(errs, &FieldError{Field: "types.scope", Err: fmt.Errorf("%q is not a package scope", c.Scope)})
	}
	for i, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, &FieldError{Field: fmt.Sprintf("types.exclude[%d]", i), Err: fmt.Errorf("%w: %q", ErrInvalidExcludePattern, pattern)})
		}
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrors("ui.color_scheme", fieldErrs)...)
	}
	if _, err := tui.ParseSpinnerType(c.Spinner); err != nil {
		errs = append(errs, &FieldError{Field: "ui.spinner", Err: err})
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the Config has valid fields. Flag names need no
// validation beyond the schema.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.PackageManager.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Types.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PackageManager: PackageManagerConfig{
			Preferred: PreferredAuto,
			Priority:  pkgmanager.DefaultPriority(),
		},
		Types: TypesConfig{
			Enabled: true,
			Scope:   pkgspec.DefaultTypesScope,
			Exclude: []string{},
		},
		Flags: FlagsConfig{
			Dev:        []string{"saveDev", "D", "dev"},
			Production: []string{"prod", "production"},
			Switches:   []string{"exact", "E", "saveExact", "ignoreScripts"},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Spinner:     tui.SpinnerMiniDot.String(),
		},
	}
}

func fieldErrors(field string, errs []error) []error {
	out := make([]error, len(errs))
	for i, err := range errs {
		out[i] = &FieldError{Field: field, Err: err}
	}
	return out
}
