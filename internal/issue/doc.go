// SPDX-License-Identifier: MPL-2.0

// Package issue describes failures of an install run to the user.
//
// ActionableError names the failed step with the package, command and file
// involved plus hints. The catalog holds longer Markdown guidance for the
// failures users hit most often, rendered with glamour.
package issue
