// Package cli implements the octomap command-line interface.
//
// The commands read station graphs (JSON or YAML), run them through
// [pipeline.Runner] and report the outcome with lipgloss styling:
//
//   - resolve: remove conflicts and write a layout file
//   - conflicts: list a graph's conflicts, worst first
//   - render: draw a graph or layout with graphviz
//   - inspect: browse resolver passes in a bubbletea TUI
//   - serve: the HTTP API of package api
//   - cache: clear or locate the layout cache
//
// Settings come from a TOML file (see package config); flags override it.
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with short timestamps ("14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "resolve finished (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
