// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package report implements the logger
// used by lbitree commands
// to report the progress of a run
// and the data quality warnings.
package report

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/js-arias/lbitree/tree"
)

// New creates a new logger
// that writes into w.
// If verbose is true,
// debug messages will be reported.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Warnings reports a set of warnings
// at the warning level,
// with a final count for each kind of warning.
func Warnings(l *log.Logger, stage string, ws tree.Warnings) {
	if len(ws) == 0 {
		return
	}

	var kinds []tree.Kind
	for _, w := range ws {
		l.Warn(w.Msg, "stage", stage, "kind", w.Kind, "node", w.Node)
		if !slices.Contains(kinds, w.Kind) {
			kinds = append(kinds, w.Kind)
		}
	}
	for _, k := range kinds {
		l.Warn("data quality warnings", "stage", stage, "kind", k, "count", ws.Count(k))
	}
}

// A Progress tracks the start time of a stage.
type Progress struct {
	l     *log.Logger
	start time.Time
}

// Start starts tracking a stage.
func Start(l *log.Logger) *Progress {
	return &Progress{l: l, start: time.Now()}
}

// Done logs a message
// with the elapsed time since the start of the stage.
func (p *Progress) Done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.l.Info(msg, keyvals...)
}
