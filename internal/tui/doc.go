// SPDX-License-Identifier: MPL-2.0

// Package tui provides the terminal output components: an inline spinner
// animated after a line of text while a subprocess runs, and terminal
// detection for the writers it draws on.
package tui
