// Package weave implements a work-stealing task scheduler: a fixed pool
// of worker goroutines, each owning a local task queue, that cooperate
// through stealing, leapfrogging, and a JIT-balanced parallel-for/reduce
// to keep every worker busy without a central dispatcher.
//
// A Pool is constructed once with New and entered through Root, which
// hands back a Context — the explicit stand-in for the thread-local
// state a native implementation would keep per OS thread. Every
// scheduling primitive (Spawn, Go, ParallelFor, ParallelReduce,
// SyncScope) takes a Context and, where it runs user code, hands that
// code a new Context scoped to the work it just created.
//
// Typical use:
//
//	pool, err := weave.New(weave.WithNumThreads(8))
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx := pool.Root()
//	fv := weave.Spawn(ctx, func(c *weave.Context) int { return fib(c, 30) })
//	result := weave.Sync(ctx, fv)
//	weave.Shutdown(ctx)
package weave
