package weave

import "runtime"

// SyncScope opens a new structured scope, runs body with a Context bound
// to it, and blocks until every task spawned (directly or transitively)
// within body via that Context has completed — including ones that
// outlive body itself because they were stolen and are still running
// elsewhere. Unlike Sync, the wait here never parks: it spins, helping
// drain the pool, because a scope is expected to close out quickly
// relative to a long-lived future.
func SyncScope(ctx *Context, body func(*Context)) {
	scope := &ScopedBarrier{}
	childCtx := &Context{pool: ctx.pool, worker: ctx.worker, current: ctx.current, scope: scope}
	body(childCtx)
	waitScope(childCtx, scope)
}

func waitScope(ctx *Context, scope *ScopedBarrier) {
	w := ctx.worker
	for !scope.clear() {
		if w.queue != nil {
			if t, ok := w.queue.Pop(); ok {
				w.run(t)
				continue
			}
		}
		if t, ok := w.trySteal(); ok {
			w.run(t)
			continue
		}
		runtime.Gosched()
	}
}
