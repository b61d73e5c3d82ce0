package weave

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, opts ...Option) *Pool {
	t.Helper()
	p, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		Shutdown(p.Root())
	})
	return p
}

func TestNew_DefaultsToGOMAXPROCS(t *testing.T) {
	p := newTestPool(t)
	require.Equal(t, runtime.GOMAXPROCS(0), p.NumThreads())
}

func TestNew_RejectsZeroThreads(t *testing.T) {
	_, err := New(WithNumThreads(0))
	require.ErrorIs(t, err, ErrNumThreads)
}

func TestSpawnSync_SingleTask(t *testing.T) {
	p := newTestPool(t, WithNumThreads(4))
	ctx := p.Root()

	fv := Spawn(ctx, func(c *Context) int { return 42 })
	require.Equal(t, 42, Sync(ctx, fv))
}

func fib(ctx *Context, n int) int {
	if n < 2 {
		return n
	}
	left := Spawn(ctx, func(c *Context) int { return fib(c, n-1) })
	right := fib(ctx, n-2)
	return Sync(ctx, left) + right
}

func TestFibonacci_DoubleRecursiveSpawn(t *testing.T) {
	p := newTestPool(t, WithNumThreads(4))
	ctx := p.Root()

	const n = 20
	const want = 6765 // fib(20)

	fv := Spawn(ctx, func(c *Context) int { return fib(c, n) })
	require.Equal(t, want, Sync(ctx, fv))
}

func TestShutdown_UnderLoad(t *testing.T) {
	p, err := New(WithNumThreads(4))
	require.NoError(t, err)
	ctx := p.Root()

	const n = 100_000
	done := make([]*Flowvar[struct{}], n)
	for i := 0; i < n; i++ {
		done[i] = SpawnAwaitable(ctx, func(c *Context) {})
	}
	for _, fv := range done {
		Sync(ctx, fv)
	}

	finished := make(chan struct{})
	go func() {
		Shutdown(ctx)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown did not return after draining 100k tasks")
	}
}

func TestSyncAll_WaitsForOutstandingWork(t *testing.T) {
	p := newTestPool(t, WithNumThreads(4))
	ctx := p.Root()

	var counter atomic.Int64
	for i := 0; i < 1000; i++ {
		Go(ctx, func(c *Context) {
			counter.Add(1)
		})
	}

	SyncAll(ctx)
	require.Equal(t, int64(1000), counter.Load())
}
