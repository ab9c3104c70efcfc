// SPDX-License-Identifier: MPL-2.0

// Package registry checks whether a package exists in an npm-compatible
// registry.
//
// Existence is decided from HTTP status codes alone where possible: an
// unversioned name or an exact version is a single HEAD request. Ranges and
// dist-tags need the abbreviated packument, which is fetched and matched
// locally.
package registry
