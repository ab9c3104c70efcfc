// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/withtypes/withtypes/internal/pkgmanager"
	"github.com/withtypes/withtypes/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.PackageManager.Preferred != PreferredAuto {
		t.Errorf("expected preferred manager to be auto, got %s", cfg.PackageManager.Preferred)
	}
	if !slices.Equal(cfg.PackageManager.Priority, pkgmanager.DefaultPriority()) {
		t.Errorf("expected default priority, got %v", cfg.PackageManager.Priority)
	}
	if !cfg.Types.Enabled {
		t.Error("expected types to be enabled by default")
	}
	if cfg.Types.Scope != "@types" {
		t.Errorf("expected types scope @types, got %q", cfg.Types.Scope)
	}
	if !slices.Contains(cfg.Flags.Dev, "saveDev") || !slices.Contains(cfg.Flags.Dev, "D") {
		t.Errorf("expected saveDev and D dev flags, got %v", cfg.Flags.Dev)
	}
	if !slices.Equal(cfg.Flags.Production, []string{"prod", "production"}) {
		t.Errorf("expected prod/production flags, got %v", cfg.Flags.Production)
	}
	if !slices.Contains(cfg.Flags.Switches, "exact") {
		t.Errorf("expected exact among forwarded switches, got %v", cfg.Flags.Switches)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}
	if cfg.UI.Spinner != "minidot" {
		t.Errorf("expected default spinner minidot, got %q", cfg.UI.Spinner)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config should be valid, got %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME is only honored on linux")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join("/tmp/test-xdg-config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigDirPath: t.TempDir(),
		BaseDir:       t.TempDir(),
	})
	if err != nil {
		t.Fatalf("loadWithOptions() error: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want none", path)
	}
	if !cfg.Types.Enabled || cfg.PackageManager.Preferred != PreferredAuto {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_ConfigDirFile(t *testing.T) {
	t.Parallel()

	cfgDir := t.TempDir()
	testutil.MustWriteFile(t, cfgDir, "config.cue", `
package_manager: {
	preferred:  "pnpm"
	priority:   ["pnpm", "npm"]
	extra_args: "--prefer-offline --reporter 'silent'"
}
types: {
	exclude: ["@internal/**", "eslint-*"]
}
ui: verbose: true
`)

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: cfgDir, BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("loadWithOptions() error: %v", err)
	}
	if path != filepath.Join(cfgDir, "config.cue") {
		t.Errorf("resolved path = %q", path)
	}

	if cfg.PackageManager.Preferred.Manager() != pkgmanager.NamePnpm {
		t.Errorf("preferred = %q, want pnpm", cfg.PackageManager.Preferred)
	}
	if want := []pkgmanager.Name{pkgmanager.NamePnpm, pkgmanager.NameNpm}; !slices.Equal(cfg.PackageManager.Priority, want) {
		t.Errorf("priority = %v, want %v", cfg.PackageManager.Priority, want)
	}
	args, err := cfg.PackageManager.ExtraArgList()
	if err != nil {
		t.Fatalf("ExtraArgList() error: %v", err)
	}
	if want := []string{"--prefer-offline", "--reporter", "silent"}; !slices.Equal(args, want) {
		t.Errorf("extra args = %q, want %q", args, want)
	}
	if want := []string{"@internal/**", "eslint-*"}; !slices.Equal(cfg.Types.Exclude, want) {
		t.Errorf("exclude = %v, want %v", cfg.Types.Exclude, want)
	}
	if !cfg.Types.Enabled {
		t.Error("unset types.enabled should keep its default")
	}
	if !cfg.UI.Verbose {
		t.Error("ui.verbose should be true")
	}
}

func TestLoad_BaseDirFallback(t *testing.T) {
	t.Parallel()

	baseDir := t.TempDir()
	testutil.MustWriteFile(t, baseDir, "config.cue", `types: enabled: false`)

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: t.TempDir(), BaseDir: baseDir})
	if err != nil {
		t.Fatalf("loadWithOptions() error: %v", err)
	}
	if path != filepath.Join(baseDir, "config.cue") {
		t.Errorf("resolved path = %q", path)
	}
	if cfg.Types.Enabled {
		t.Error("types.enabled should be false")
	}
}

func TestLoad_ConfigDirWinsOverBaseDir(t *testing.T) {
	t.Parallel()

	cfgDir, baseDir := t.TempDir(), t.TempDir()
	testutil.MustWriteFile(t, cfgDir, "config.cue", `package_manager: preferred: "yarn"`)
	testutil.MustWriteFile(t, baseDir, "config.cue", `package_manager: preferred: "bun"`)

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: cfgDir, BaseDir: baseDir})
	if err != nil {
		t.Fatalf("loadWithOptions() error: %v", err)
	}
	if cfg.PackageManager.Preferred != "yarn" {
		t.Errorf("preferred = %q, want yarn", cfg.PackageManager.Preferred)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := testutil.MustWriteFile(t, t.TempDir(), "custom.cue", `types: scope: "@typings"`)

	cfg, resolved, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("loadWithOptions() error: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Types.Scope != "@typings" {
		t.Errorf("scope = %q, want @typings", cfg.Types.Scope)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown manager", `package_manager: preferred: "cargo"`, "package_manager.preferred"},
		{"wrong type", `types: enabled: "yes"`, "types.enabled"},
		{"unknown key", `colors: true`, "colors"},
		{"bad color scheme", `ui: color_scheme: "neon"`, "ui.color_scheme"},
		{"bad spinner", `ui: spinner: "globe"`, "ui.spinner"},
		{"duplicate priority", `package_manager: priority: ["npm", "npm"]`, "package_manager.priority"},
		{"bad registry", `package_manager: registry: "ftp://mirror"`, "package_manager.registry"},
		{"invalid cue", `types: {`, "config.cue"},
		{"flag name with space", `flags: dev: ["save dev"]`, "flags.dev"},
		{"flag name with value", `flags: switches: ["--tag=beta"]`, "flags.switches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfgDir := t.TempDir()
			testutil.MustWriteFile(t, cfgDir, "config.cue", tt.content)

			_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: cfgDir, BaseDir: t.TempDir()})
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrLoad) {
				t.Errorf("expected ErrLoad, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_DashedFlagNames(t *testing.T) {
	t.Parallel()

	cfgDir := t.TempDir()
	testutil.MustWriteFile(t, cfgDir, "config.cue", `
flags: {
	dev:        ["save-dev", "--dev-only", "-D"]
	production: ["omit_dev"]
	switches:   ["--legacy-peer-deps"]
}
`)

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: cfgDir, BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("loadWithOptions() error: %v", err)
	}
	if want := []string{"save-dev", "--dev-only", "-D"}; !slices.Equal(cfg.Flags.Dev, want) {
		t.Errorf("flags.dev = %q, want %q", cfg.Flags.Dev, want)
	}
	if want := []string{"--legacy-peer-deps"}; !slices.Equal(cfg.Flags.Switches, want) {
		t.Errorf("flags.switches = %q, want %q", cfg.Flags.Switches, want)
	}
}

func TestLoad_GoValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"bad glob", `types: exclude: ["[unclosed"]`, ErrInvalidExcludePattern},
		{"unterminated quote", `package_manager: extra_args: "--flag 'oops"`, ErrInvalidExtraArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfgDir := t.TempDir()
			testutil.MustWriteFile(t, cfgDir, "config.cue", tt.content)

			_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: cfgDir, BaseDir: t.TempDir()})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig in chain, got %v", err)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfgDir := t.TempDir()
	testutil.MustWriteFile(t, cfgDir, "config.cue", `package_manager: preferred: "yarn"`)

	t.Setenv("WITHTYPES_PACKAGE_MANAGER_PREFERRED", "npm")
	t.Setenv("WITHTYPES_TYPES_ENABLED", "false")
	t.Setenv("WITHTYPES_PACKAGE_MANAGER_REGISTRY", "http://localhost:4873")

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: cfgDir, BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("loadWithOptions() error: %v", err)
	}
	if cfg.PackageManager.Preferred != "npm" {
		t.Errorf("preferred = %q, want env override npm", cfg.PackageManager.Preferred)
	}
	if cfg.Types.Enabled {
		t.Error("types.enabled should be overridden to false")
	}
	if cfg.PackageManager.Registry != "http://localhost:4873" {
		t.Errorf("registry = %q", cfg.PackageManager.Registry)
	}
}

func TestLoad_EnvValidated(t *testing.T) {
	t.Setenv("WITHTYPES_PACKAGE_MANAGER_PREFERRED", "cargo")

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: t.TempDir(), BaseDir: t.TempDir()})
	if !errors.Is(err, ErrInvalidPreferredManager) {
		t.Fatalf("expected ErrInvalidPreferredManager, got %v", err)
	}
	if !errors.Is(err, pkgmanager.ErrUnknownManager) {
		t.Errorf("expected pkgmanager.ErrUnknownManager in chain, got %v", err)
	}
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := loadWithOptions(ctx, LoadOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"types"}, "types"},
		{[]string{"types", "exclude", "0"}, "types.exclude[0]"},
		{[]string{"package_manager", "priority", "1"}, "package_manager.priority[1]"},
		{[]string{"0"}, "0"},
	}

	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
