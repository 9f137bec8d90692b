// Package tlog is a thin leveled wrapper over the standard log.Logger.
// The teacher never pulls in a structured-logging library (cmd/datalog's
// log.Fatalf/log.Printf is as far as it goes), so this module follows
// suit instead of introducing one: Debugf is gated behind a verbose flag
// the way datalog/annotations.OutputFormatter is gated behind -verbose,
// Warnf/Errorf always print. [EXPANSION]
package tlog

import (
	"io"
	"log"
	"os"
)

// Logger wraps a *log.Logger with leveled helpers. Debugf is silent
// unless Verbose is set; Infof, Warnf, and Errorf always print.
type Logger struct {
	*log.Logger
	Verbose bool
}

// New creates a Logger writing to w with the given verbosity. A nil w
// defaults to os.Stderr, matching cmd/datalog's diagnostic output
// destination.
func New(w io.Writer, verbose bool) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{Logger: log.New(w, "", log.LstdFlags), Verbose: verbose}
}

// Debugf logs a trace-level message (which operator fired, which window
// was cloned) only when Verbose is set.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.Verbose {
		return
	}
	l.Printf("DEBUG "+format, args...)
}

// Infof logs a normal-priority message.
func (l *Logger) Infof(format string, args ...any) {
	l.Printf("INFO "+format, args...)
}

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.Printf("WARN "+format, args...)
}

// Errorf logs an error.
func (l *Logger) Errorf(format string, args ...any) {
	l.Printf("ERROR "+format, args...)
}
