// Package logging provides the small prefixed-logger wrapper used by
// the TCP and serial transports, in the same shape as the
// teacher's own newLogger/Warningf/Errorf helpers: a thin wrapper around
// the standard library's *log.Logger so callers can supply their own
// sink or fall back to a package default.
package logging

import (
	"log"
	"os"
)

var defaultOutput = log.New(os.Stderr, "", log.LstdFlags)

// Logger prefixes every line with a component tag, e.g. "tcp-transport(host:port)".
type Logger struct {
	prefix string
	target *log.Logger
}

// New returns a Logger writing through custom if non-nil, otherwise
// through the package default (stderr).
func New(prefix string, custom *log.Logger) *Logger {
	target := custom
	if target == nil {
		target = defaultOutput
	}
	return &Logger{prefix: prefix, target: target}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.target.Printf("["+l.prefix+"] "+format, args...)
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.target.Printf("["+l.prefix+"] WARNING: "+format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.target.Printf("["+l.prefix+"] ERROR: "+format, args...)
}
