// Package debug implements per-event trace logging: a flag, off by
// default, that when enabled prints one line to stderr per notable
// scheduler event (spawn, steal, park, split, ...).
package debug

import (
	"fmt"
	"os"
	"time"
)

// Logger gates and writes trace lines for one Pool. The zero value has
// logging disabled.
type Logger struct {
	enabled bool
}

// New returns a Logger with tracing enabled or disabled as requested.
func New(enabled bool) *Logger {
	return &Logger{enabled: enabled}
}

// Enabled reports whether trace lines will actually be written.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// Tracef writes one trace line to stderr, timestamped, if enabled. Format
// and args follow fmt.Printf conventions. No-op (and allocation-free
// beyond the bool check) when disabled.
func (l *Logger) Tracef(format string, args ...any) {
	if !l.Enabled() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "[weave %s] %s\n", time.Now().Format(time.RFC3339Nano), msg)
}
