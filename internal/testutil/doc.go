// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by the package tests: a scripted
// runner.Runner that records every command it receives, and helpers writing
// project files (package.json, lockfiles) into temporary directories.
package testutil
