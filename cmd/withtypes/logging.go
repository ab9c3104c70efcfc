// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/withtypes/withtypes/internal/config"
)

// newLogger creates the CLI logger. Debug output is shown only in verbose mode.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// installLogger routes log/slog through logger so the internal packages'
// slog.Debug calls land in the same place.
func installLogger(logger *log.Logger) {
	slog.SetDefault(slog.New(logger))
}
