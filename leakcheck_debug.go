//go:build weave_debug

package weave

import (
	"fmt"
	"os"
	"runtime"
)

// trackLeak registers a finalizer that flags a future-bearing task
// garbage-collected without ever being passed to Sync. Compiled only
// into -tags weave_debug builds — the finalizer overhead is not paid
// otherwise.
func trackLeak(t *Task) {
	runtime.SetFinalizer(t, func(t *Task) {
		if !t.synced.Load() {
			fmt.Fprintf(os.Stderr, "weave: Flowvar garbage-collected without Sync (task spawned, never joined)\n")
		}
	})
}
