// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"io"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether w is a terminal. Writers without a file
// descriptor (buffers, pipes wrapped by the caller) are not.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
