package main

import (
	"log/slog"
	"os"

	"golang.org/x/term"

	"assessments/internal/chart"
	"assessments/internal/config"
)

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// showChart opens the interactive chart unless display is disabled or the
// program is not running in a terminal. Display failures are not fatal.
func showChart(c *chart.Chart, cfg *config.Config, tty bool) {
	switch {
	case !cfg.Chart.Show:
		slog.Debug("interactive chart disabled")
		return
	case !tty:
		slog.Info("interactive chart skipped: stdout is not a terminal")
		return
	case cfg.Output.ChartHTML == "":
		slog.Warn("interactive chart skipped: no HTML path configured")
		return
	}

	if err := c.Show(cfg.Output.ChartHTML, cfg.Chart.Browser); err != nil {
		slog.Warn("failed to display chart", slog.String("error", err.Error()))
	}
}
