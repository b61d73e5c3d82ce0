package weave

import "errors"

// Error kinds surfaced by the scheduler.
var (
	// ErrNumThreads is returned by New when NumThreads is configured < 1.
	ErrNumThreads = errors.New("weave: numThreads must be >= 1")

	// ErrNotRoot is the value SyncAll/Shutdown panic with when called
	// from a Context that belongs to one of the pool's own workers rather
	// than an external (root) caller.
	ErrNotRoot = errors.New("weave: SyncAll/Shutdown must be called from a root Context, not from inside a worker")

	// ErrShutdown is the value Spawn/Go/ParallelFor/... panic with when
	// called after Shutdown has been initiated.
	ErrShutdown = errors.New("weave: pool is shutting down")
)

// misuse panics on a programming error rather than returning an error.
// weave always checks preconditions (the cost is one branch), but panics
// instead of silently corrupting scheduler state.
func misuse(err error) {
	panic(err)
}
