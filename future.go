package weave

// Flowvar is a handle to the eventual result of a Spawn'd computation —
// the Go-native stand-in for the original scheduler's Flowvar/future
// type. It is consumed exactly once, by Sync.
type Flowvar[T any] struct {
	task *Task
}

// IsReady reports whether fv's result is available without blocking.
func IsReady[T any](fv *Flowvar[T]) bool {
	return fv.task.completed.Load()
}

// Spawn schedules f to run asynchronously on ctx's pool and returns a
// Flowvar for its result. f receives a Context scoped to the spawned
// task, so it can itself Spawn further work or open a SyncScope.
func Spawn[T any](ctx *Context, f func(*Context) T) *Flowvar[T] {
	t := newTask(ctx.current, ctx.scope)
	t.hasFuture = true
	t.fn = func(childCtx *Context) {
		t.result = f(childCtx)
	}
	trackLeak(t)
	schedule(ctx, t, false)
	return &Flowvar[T]{task: t}
}

// SpawnAwaitable schedules f, a closure with no result, and returns a
// Flowvar usable only to join on its completion — the Go equivalent of
// the original scheduler's "spawn with a trivial/void return still gets
// a future because the caller wants to await it".
func SpawnAwaitable(ctx *Context, f func(*Context)) *Flowvar[struct{}] {
	return Spawn(ctx, func(c *Context) struct{} {
		f(c)
		return struct{}{}
	})
}

// Go schedules f to run asynchronously with no future at all: true
// fire-and-forget, for the common case for a spawned call that returns
// nothing and nobody ever needs to join. Still tracked by the pool's
// live-task count and any enclosing SyncScope/SyncAll.
func Go(ctx *Context, f func(*Context)) {
	t := newTask(ctx.current, ctx.scope)
	t.fn = f
	schedule(ctx, t, false)
}

// Sync blocks the calling Context until fv's task has completed,
// helping the pool make progress in the meantime: it first drains its
// own direct children from its local queue, then — per task iteration —
// tries to leapfrog into whichever worker stole fv's task, tries a
// normal steal, tries its own queue again, and finally parks. Modeled as
// a plain blocking call rather than async/await.
func Sync[T any](ctx *Context, fv *Flowvar[T]) T {
	t := fv.task
	w := ctx.worker

	if t.completed.Load() {
		return extractResult[T](t)
	}

	if w.queue != nil {
		for !t.completed.Load() {
			child, ok := w.queue.Pop()
			if !ok {
				break
			}
			if child.parent != ctx.current {
				requeue(ctx, child, true)
				break
			}
			w.run(child)
		}
	}

	for !t.completed.Load() {
		if thief := t.thiefID.Load(); thief != notStolen {
			if stolen, ok := w.pool.workers[thief].queue.Steal(); ok {
				if w.pool.metrics != nil {
					w.pool.metrics.IncLeap()
				}
				if w.pool.log.Enabled() {
					w.pool.log.Tracef("leap worker=%d thief=%d task=%p", w.id, thief, stolen)
				}
				w.run(stolen)
				continue
			}
		}

		if stolen, ok := w.trySteal(); ok {
			w.run(stolen)
			continue
		}

		if w.queue != nil {
			if local, ok := w.queue.Pop(); ok {
				w.run(local)
				continue
			}
		}

		w.localBackoff.Reset()
		if t.waiter.CompareAndSwap(nil, w.localBackoff) {
			if w.pool.metrics != nil {
				w.pool.metrics.IncPark()
			}
			w.localBackoff.Park()
		}
	}

	return extractResult[T](t)
}

func extractResult[T any](t *Task) T {
	t.synced.Store(true)
	return t.result.(T)
}
