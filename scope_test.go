package weave

import (
	"sync/atomic"
	"testing"
)

func TestSyncScope_WaitsForAllDescendants(t *testing.T) {
	p := newTestPool(t, WithNumThreads(4))
	ctx := p.Root()

	var done atomic.Int64
	SyncScope(ctx, func(sctx *Context) {
		for i := 0; i < 50; i++ {
			Go(sctx, func(c *Context) {
				done.Add(1)
			})
		}
	})

	if got := done.Load(); got != 50 {
		t.Errorf("descendants completed by the time SyncScope returned = %d, want 50", got)
	}
}

func TestSyncScope_NestedScopes(t *testing.T) {
	p := newTestPool(t, WithNumThreads(4))
	ctx := p.Root()

	var outer, inner atomic.Int64
	SyncScope(ctx, func(sctx *Context) {
		Go(sctx, func(c *Context) {
			outer.Add(1)
			SyncScope(c, func(isctx *Context) {
				for i := 0; i < 10; i++ {
					Go(isctx, func(c2 *Context) { inner.Add(1) })
				}
			})
			if inner.Load() != 10 {
				t.Error("inner scope should be fully drained before outer task continues")
			}
		})
	})

	if outer.Load() != 1 || inner.Load() != 10 {
		t.Errorf("outer=%d inner=%d, want 1/10", outer.Load(), inner.Load())
	}
}
