package debug

import "testing"

func TestLogger_DisabledByDefault(t *testing.T) {
	l := New(false)
	if l.Enabled() {
		t.Error("Enabled() = true for a logger constructed with enabled=false")
	}
	// Must not panic even though nothing is written.
	l.Tracef("unreachable %d", 1)
}

func TestLogger_Enabled(t *testing.T) {
	l := New(true)
	if !l.Enabled() {
		t.Error("Enabled() = false for a logger constructed with enabled=true")
	}
}

func TestLogger_NilIsDisabled(t *testing.T) {
	var l *Logger
	if l.Enabled() {
		t.Error("Enabled() = true on a nil *Logger")
	}
	l.Tracef("must not panic")
}
