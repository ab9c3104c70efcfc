// SPDX-License-Identifier: MPL-2.0

// Package install runs the install loop: every dependency is installed through
// the selected package manager, one at a time, and each successful install is
// followed by a best-effort install of its type-declaration package.
//
// The loop stops at the first failed or interrupted subprocess. A missing
// type package is never an error.
package install
