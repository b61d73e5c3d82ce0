package weave

import "sort"

// ParallelReduce runs body(ctx, i, &acc) for every i in [lo, hi),
// maintaining a worker-local accumulator seeded from identity, and folds
// every split's partial result back together with merge once the task's
// own range is done, via a per-task-local reduction chain. merge must be
// associative; it need not be commutative, since acc always arrives as
// the left operand with the split's partial as the right one, and
// partials are merged in index order.
func ParallelReduce[T any](ctx *Context, lo, hi int64, identity T, body func(ctx *Context, idx int64, acc *T), merge func(acc, partial T) T, opts ...ForOption) T {
	cfg := defaultForConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if hi <= lo || cfg.stride <= 0 {
		return identity
	}

	var result T
	SyncScope(ctx, func(sctx *Context) {
		t := newLoopTask(sctx.current, sctx.scope, lo, hi, cfg.stride, true)
		t.hasFuture = true
		t.runLoop = func(c *Context, self *Task) {
			reduceLoopBody(c, self, identity, body, merge)
		}
		bindLoopFn(t)
		schedule(sctx, t, false)

		fv := &Flowvar[T]{task: t}
		result = Sync(sctx, fv)
	})
	return result
}

func reduceLoopBody[T any](ctx *Context, self *Task, identity T, body func(*Context, int64, *T), merge func(T, T) T) {
	// On a split, reductionNext is its link in the parent's chain: detach
	// it while this task builds its own chain, restore it before returning.
	siblings := self.reductionNext
	self.reductionNext = nil

	acc := identity
	lb := newLoadBalancer(self.loop.start)
	idx := self.loop.start
	for idx < self.loop.stop {
		if idx == lb.nextCheck {
			loadBalanceCheck(ctx, self, idx, &lb)
		}
		body(ctx, idx, &acc)
		idx += self.loop.stride
		self.loop.stepsLeft--
	}

	var parts []*Task
	for child := self.reductionNext; child != nil; child = child.reductionNext {
		Sync(ctx, &Flowvar[T]{task: child})
		parts = append(parts, child)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].loop.start < parts[j].loop.start })
	for _, child := range parts {
		acc = merge(acc, child.result.(T))
	}

	self.result = acc
	self.reductionNext = siblings
}
