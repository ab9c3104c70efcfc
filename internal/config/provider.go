// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
	ErrInvalidLoadOptions = errors.New("invalid load options")
	// ErrLoad is the sentinel error wrapped by LoadError.
	ErrLoad = errors.New("failed to load configuration")
)

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
		// BaseDir is the project directory searched after the config directory.
		BaseDir string
	}

	// InvalidLoadOptionsError is returned when LoadOptions has invalid fields.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}

	// LoadError is returned when a config file cannot be read, parsed or validated.
	LoadError struct {
		// Path is the offending file; empty when the environment was at fault.
		Path string
		Err  error
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load configuration: %v", e.Err)
	}
	return fmt.Sprintf("load configuration from %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrLoad and the underlying error.
func (e *LoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }

// Validate rejects whitespace-only paths. Empty fields are valid and mean
// "use the default".
func (o LoadOptions) Validate() error {
	var errs []error
	for _, f := range []struct{ name, value string }{
		{"ConfigFilePath", o.ConfigFilePath},
		{"ConfigDirPath", o.ConfigDirPath},
		{"BaseDir", o.BaseDir},
	} {
		if f.value != "" && strings.TrimSpace(f.value) == "" {
			errs = append(errs, &FieldError{Field: f.name, Err: errors.New("path must not be whitespace-only")})
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
