package weave

import "math/bits"

// ForOption configures a ParallelFor/ParallelReduce call.
type ForOption func(*forConfig)

type forConfig struct {
	stride int64
}

func defaultForConfig() forConfig {
	return forConfig{stride: 1}
}

// WithStride sets the loop's step size. Defaults to 1.
func WithStride(stride int64) ForOption {
	return func(c *forConfig) { c.stride = stride }
}

// ParallelFor runs body(ctx, i) for every i in [lo, hi) with stride 1
// (or as overridden by WithStride), load-balancing the range across idle
// workers as it goes. Blocks until every split of the range has
// finished. body may itself Spawn, ParallelFor, or open a SyncScope
// using the Context it is given.
func ParallelFor(ctx *Context, lo, hi int64, body func(*Context, int64), opts ...ForOption) {
	cfg := defaultForConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if hi <= lo || cfg.stride <= 0 {
		return
	}

	SyncScope(ctx, func(sctx *Context) {
		t := newLoopTask(sctx.current, sctx.scope, lo, hi, cfg.stride, true)
		t.runLoop = func(c *Context, self *Task) {
			forLoopBody(c, self, body)
		}
		bindLoopFn(t)
		schedule(sctx, t, false)
	})
}

func forLoopBody(ctx *Context, self *Task, body func(*Context, int64)) {
	lb := newLoadBalancer(self.loop.start)
	idx := self.loop.start
	for idx < self.loop.stop {
		if idx == lb.nextCheck {
			loadBalanceCheck(ctx, self, idx, &lb)
		}
		body(ctx, idx)
		idx += self.loop.stride
		self.loop.stepsLeft--
	}
}

// loadBalancer tracks a log-log iterated backoff window: the number of
// loop iterations between idle-worker checks doubles on repeated
// failures to find idle capacity and halves on success.
type loadBalancer struct {
	round         int
	windowLogSize uint
	nextCheck     int64
}

func newLoadBalancer(start int64) loadBalancer {
	return loadBalancer{nextCheck: start}
}

func (lb *loadBalancer) onFail() {
	lb.round++
	if lb.round >= log2Floor(lb.windowLogSize)+1 {
		lb.windowLogSize++
		lb.round = 0
	}
}

func (lb *loadBalancer) onSuccess() {
	lb.round = 0
	if lb.windowLogSize > 0 {
		lb.windowLogSize--
	}
}

func log2Floor(n uint) int {
	if n == 0 {
		return 0
	}
	return bits.Len(n) - 1
}

// loadBalanceCheck runs at the current backoff window's iteration
// boundary: if the running worker still has local work queued, there is
// no point splitting (nobody idle would pick it up faster than the
// owner finishing it), so it just backs off further. Otherwise it reads
// the pool's approximate idle worker count off the shared EventCount and,
// if any workers look idle, splits the task's remaining range across
// them.
func loadBalanceCheck(ctx *Context, t *Task, idx int64, lb *loadBalancer) {
	w := ctx.worker
	switch {
	case w.queue != nil && !w.queue.Empty():
		lb.onFail()
	default:
		preSleep, committed := ctx.pool.globalBackoff.NumWaiters()
		approxIdle := preSleep + committed
		if t.loop.isFirstIter {
			approxIdle++
		}
		if approxIdle > 0 {
			splitAndDispatch(ctx, t, idx, approxIdle)
			lb.onSuccess()
		} else {
			lb.onFail()
		}
	}
	t.loop.isFirstIter = false
	lb.nextCheck = idx + (t.loop.stride << lb.windowLogSize)
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// splitAndDispatch divides t's remaining iterations into up to
// approxIdle+1 pieces: one piece (the smallest index range) stays with
// t itself, and the rest are cloned into new loop tasks and scheduled
// for any worker to pick up. For a parallel-reduce task (hasFuture),
// each split is chained onto t's own reductionNext list in reverse
// spawn order, to be merged back in once t's own range is exhausted.
func splitAndDispatch(ctx *Context, t *Task, curIdx int64, approxIdle int) {
	origStop := t.loop.stop
	workers := int64(approxIdle + 1)
	stepsLeft := t.loop.stepsLeft
	if stepsLeft <= 1 || workers <= 1 {
		return
	}

	base := stepsLeft / workers
	cutoff := stepsLeft % workers

	chunk0 := base
	if cutoff > 0 {
		chunk0++
	}
	t.loop.stepsLeft = chunk0
	t.loop.stop = minInt64(origStop, curIdx+chunk0*t.loop.stride)

	for i := int64(1); i < workers; i++ {
		var chunkSize int64
		if i < cutoff {
			chunkSize = base + 1
		} else {
			chunkSize = base
		}
		if chunkSize <= 0 {
			continue
		}

		var offset int64
		if i < cutoff {
			offset = curIdx + t.loop.stride*(chunkSize*i)
		} else {
			offset = curIdx + t.loop.stride*(base*i+cutoff)
		}
		stop := minInt64(origStop, offset+chunkSize*t.loop.stride)
		if offset >= stop {
			continue
		}

		split := newLoopTask(t.parent, t.scope, offset, stop, t.loop.stride, false)
		split.loop.stepsLeft = chunkSize
		split.runLoop = t.runLoop
		split.hasFuture = t.hasFuture
		bindLoopFn(split)

		if t.hasFuture {
			split.reductionNext = t.reductionNext
			t.reductionNext = split
		}

		schedule(ctx, split, false)
	}

	if ctx.pool.metrics != nil {
		ctx.pool.metrics.IncSplit()
	}
	if ctx.pool.log.Enabled() {
		ctx.pool.log.Tracef("split task=%p at=%d approxIdle=%d", t, curIdx, approxIdle)
	}
	ctx.pool.globalBackoff.WakeAll()
}
