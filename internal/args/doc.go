// SPDX-License-Identifier: MPL-2.0

// Package args normalizes raw process arguments into typed flags and an
// ordered list of positional commands.
//
// The normalizer knows nothing about the flags a program accepts. Long flags
// (--save-dev, --key=value) are camel-cased, single-character short flags may
// take the following token as their value, and bundled short flags (-abc)
// always become independent boolean switches.
package args
