package weave

import (
	"time"

	"golang.org/x/sys/cpu"

	"github.com/mratsim/constantine-sub009/internal/backoff"
	"github.com/mratsim/constantine-sub009/internal/queue"
	"github.com/mratsim/constantine-sub009/internal/xoshiro"
)

// adaptiveStealHalfEnabled gates the adaptive steal-half policy. Shipped
// off: a single-task steal keeps victims' queues from
// being drained in one swoop when many workers contend for the same
// victim, which matters more than steal-half's amortization at the
// thread counts this scheduler targets. The hook is preserved in
// victim.go, but nothing reads this constant: turning the policy on
// also means calling shouldStealHalf and tryStealHalf from trySteal.
const adaptiveStealHalfEnabled = false

// workerContext holds one worker goroutine's private scheduling state:
// its own queue, its PRNG and victim-permutation walk, and the Notifier
// it parks on while syncing a specific future. id is the worker's index
// into Pool.workers, or -1 for an ephemeral "root" stand-in created by
// Pool.Root for external callers, which has no queue of its own but can
// still steal and run work while blocked in Sync/SyncAll/SyncScope.
type workerContext struct {
	id   int
	pool *Pool

	queue *queue.Deque[*Task]
	rng   *xoshiro.Rng
	perm  *xoshiro.Permutation

	localBackoff *backoff.Notifier

	recentTasks       uint64
	recentSteals      uint64
	recentStealHalves uint64

	_ cpu.CacheLinePad
}

// loop is a real pool worker's event loop: drain the local queue, then
// try to steal, then park on the shared EventCount.
func (w *workerContext) loop() {
	for {
		for {
			t, ok := w.queue.Pop()
			if !ok {
				break
			}
			w.run(t)
		}

		ticket := w.pool.globalBackoff.Sleepy()

		if t, ok := w.trySteal(); ok {
			w.pool.globalBackoff.CancelSleep()
			w.pool.globalBackoff.Wake()
			w.run(t)
			continue
		}

		if w.pool.terminate.Load() {
			w.pool.globalBackoff.CancelSleep()
			return
		}

		if w.pool.metrics != nil {
			w.pool.metrics.IncPark()
		}
		if w.pool.log.Enabled() {
			w.pool.log.Tracef("park worker=%d", w.id)
		}
		w.pool.globalBackoff.Sleep(ticket)
	}
}

// trySteal walks one full permutation cycle of victims starting from a
// freshly-seeded position, skipping indices >= numThreads and its own
// id, and returns the first successfully stolen task.
func (w *workerContext) trySteal() (*Task, bool) {
	w.perm.Reset(w.rng.Next())
	for {
		idx, wrapped := w.perm.Next()
		if int(idx) < w.pool.numThreads && int(idx) != w.id {
			victim := w.pool.workers[idx]
			if t, ok := victim.queue.Steal(); ok {
				// Only real workers publish themselves as a thief:
				// an ephemeral root caller has no queue to leapfrog
				// into, so recording it would only ever be a dead
				// end for sync's leapfrog step.
				if w.id >= 0 {
					t.thiefID.CompareAndSwap(notStolen, int32(w.id))
				}
				if w.pool.metrics != nil {
					w.pool.metrics.IncSteal()
				}
				if w.pool.log.Enabled() {
					w.pool.log.Tracef("steal worker=%d victim=%d task=%p", w.id, idx, t)
				}
				return t, true
			}
		}
		if wrapped {
			return nil, false
		}
	}
}

// schedule pushes a newly-created t onto ctx's worker's queue (or, for
// an external caller with no queue of its own, round-robins it onto a
// real worker's queue), registers it with its scope, and wakes a sleeper
// if the queue was empty or forceWake is set.
func schedule(ctx *Context, t *Task, forceWake bool) {
	if ctx.pool.terminate.Load() {
		misuse(ErrShutdown)
	}
	t.scope.registerDescendant()
	ctx.pool.liveTasks.Add(1)
	requeue(ctx, t, forceWake)
}

// requeue pushes an already-registered task (one schedule already
// accounted for in its scope and the pool's live-task count) back onto a
// queue. Used by Sync's drain step when it pops a task that turns out
// not to be a direct descendant of the syncing task: the task itself
// doesn't change, only which queue holds it.
func requeue(ctx *Context, t *Task, forceWake bool) {
	var q *queue.Deque[*Task]
	if ctx.worker.queue != nil {
		q = ctx.worker.queue
	} else {
		idx := ctx.pool.nextSubmit.Add(1) % uint64(ctx.pool.numThreads)
		q = ctx.pool.workers[idx].queue
	}

	wasEmpty := q.Empty()
	q.Push(t)
	if ctx.pool.log.Enabled() {
		ctx.pool.log.Tracef("schedule task parent=%p forceWake=%v", t.parent, forceWake)
	}
	if wasEmpty || forceWake {
		ctx.pool.globalBackoff.Wake()
	}
}

// run executes t's body to completion, clears its scope registration and
// the pool's live-task count, records its latency, and — if it carries a
// future — publishes completion and wakes anyone parked on it.
func (w *workerContext) run(t *Task) {
	childCtx := &Context{pool: w.pool, worker: w, current: t, scope: t.scope}

	var start time.Time
	if w.pool.metrics != nil {
		start = time.Now()
	}

	t.fn(childCtx)

	t.scope.unlistDescendant()
	w.pool.liveTasks.Add(-1)
	w.recentTasks++

	if w.pool.metrics != nil {
		w.pool.metrics.RecordTask(time.Since(start))
	}

	if !t.hasFuture {
		return
	}
	t.completed.Store(true)
	if old := t.waiter.Swap(readyNotifier); old != nil {
		old.Notify()
	}
}
