package weave

import (
	"sync/atomic"

	"github.com/mratsim/constantine-sub009/internal/backoff"
)

// notStolen is the thiefID sentinel meaning "not yet stolen from its
// owner's queue". Only real pool workers (id >= 0) ever publish
// themselves as a thief; an id of -1 can never collide with a real one.
const notStolen int32 = -1

// readyNotifier is the sentinel stored into Task.waiter once a task has
// completed, distinguishing "nobody waiting yet" (nil), "someone parked,
// here is their Notifier" (any other pointer), and "already done, don't
// bother parking" (this value). Compared by identity, never dereferenced
// as a real Notifier.
var readyNotifier = &backoff.Notifier{}

// loopMeta holds the parallel-for/parallel-reduce range state for a loop
// task. Zero value means "not a loop task"; the notALoop field is not
// set or read anywhere.
type loopMeta struct {
	notALoop    bool
	start       int64
	stop        int64
	stride      int64
	stepsLeft   int64
	isFirstIter bool
}

// Task is one scheduled unit of work: either a plain spawned closure or
// a loop task produced by ParallelFor/ParallelReduce and their splits.
//
// Task deliberately carries no thread-local bookkeeping — the explicit
// *Context threaded through every call replaces the implicit
// thread-local WorkerContext the original scheduler relies on; see
// SPEC_FULL.md §2.
type Task struct {
	fn func(*Context)

	parent *Task
	scope  *ScopedBarrier

	// reductionNext chains this task's own splits in reverse spawn
	// order; only ever populated for parallel-reduce loop tasks
	// (hasFuture == true). Walked and sync'd by the owning task's own
	// runLoop once its own range is exhausted. On a split that is not
	// running, it instead links to the next sibling in its parent's
	// chain; reduceLoopBody detaches that link while the split runs and
	// restores it before the split completes.
	reductionNext *Task

	loop    loopMeta
	runLoop func(ctx *Context, self *Task)

	completed atomic.Bool
	thiefID   atomic.Int32
	waiter    atomic.Pointer[backoff.Notifier]

	hasFuture bool
	result    any

	// synced is set once a Flowvar wrapping this task has actually been
	// passed to Sync. Checked by the weave_debug leak finalizer (see
	// leakcheck_debug.go) to flag a Flowvar that was created and dropped
	// without ever being joined.
	synced atomic.Bool
}

func newTask(parent *Task, scope *ScopedBarrier) *Task {
	t := &Task{parent: parent, scope: scope}
	t.thiefID.Store(notStolen)
	return t
}

func newLoopTask(parent *Task, scope *ScopedBarrier, lo, hi, stride int64, isFirstIter bool) *Task {
	steps := (hi - lo + stride - 1) / stride
	t := newTask(parent, scope)
	t.loop = loopMeta{start: lo, stop: hi, stride: stride, stepsLeft: steps, isFirstIter: isFirstIter}
	return t
}

// bindLoopFn points t.fn at t.runLoop(ctx, t), so a single runLoop
// closure (captured once per ParallelFor/ParallelReduce call) can drive
// any number of split Task instances without each needing its own fn
// closure written out by hand.
func bindLoopFn(t *Task) {
	t.fn = func(ctx *Context) { t.runLoop(ctx, t) }
}

// ScopedBarrier is the join point for SyncScope and for the internal
// scopes ParallelFor/ParallelReduce open around their loop task: a
// count of not-yet-finished descendants, cleared to zero by each
// descendant's run() as it completes.
type ScopedBarrier struct {
	descendants atomic.Int64
}

func (s *ScopedBarrier) registerDescendant() {
	if s == nil {
		return
	}
	s.descendants.Add(1)
}

func (s *ScopedBarrier) unlistDescendant() {
	if s == nil {
		return
	}
	s.descendants.Add(-1)
}

func (s *ScopedBarrier) clear() bool {
	return s == nil || s.descendants.Load() == 0
}
