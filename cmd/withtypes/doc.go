// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the withtypes command line.
//
// The root command owns its own flag handling: raw arguments go through
// the args normalizer, so package-manager style switches ("-D",
// "--save-dev", "--prod") behave the way they do for npm and yarn. The
// App type is the composition root wiring configuration, the subprocess
// runner and the registry client into an install run.
package cmd
