package weave

import "github.com/mratsim/constantine-sub009/internal/queue"

// tryStealHalf is the adaptive steal-half policy: when the pool's steal
// ratio (see metrics.Counters.StealRatio) is low, a thief
// takes half of a victim's queue instead of one task, amortizing the
// cost of future steals. Not currently called from trySteal (see
// adaptiveStealHalfEnabled in worker.go for why it ships off by
// default) — re-enabling it also means wiring shouldStealHalf into
// trySteal's per-victim choice between this and victim.queue.Steal, not
// just flipping the constant.
func (w *workerContext) tryStealHalf(victim *workerContext) (*Task, bool) {
	t, ok := queue.StealHalf(w.queue, victim.queue)
	if ok {
		if w.id >= 0 {
			t.thiefID.CompareAndSwap(notStolen, int32(w.id))
		}
		if w.pool.metrics != nil {
			w.pool.metrics.IncStealHalf()
		}
	}
	return t, ok
}

// shouldStealHalf reports whether the adaptive policy would currently
// prefer steal-half over a single steal, based on a recent steal-ratio
// threshold. Not called anywhere (adaptiveStealHalfEnabled does not
// gate it); kept so the threshold logic doesn't need to be rederived if
// the policy is reenabled.
func shouldStealHalf(p *Pool, window uint64) bool {
	if p.metrics == nil || window == 0 {
		return false
	}
	const lowStealRatio = 0.25
	return p.metrics.StealRatio(window) < lowStealRatio
}
