// Package metrics tracks optional, low-overhead scheduler counters: task
// execution latency percentiles plus the steal/leap/split totals the
// adaptive work-stealing policy watches. Every method here is only ever
// called when a Pool was built with WithMetrics(true); the hot path
// (Counters disabled) touches none of this.
package metrics

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Counters aggregates per-pool scheduler statistics. Safe for concurrent
// use from any worker.
type Counters struct {
	mu sync.Mutex

	tasksExecuted uint64
	steals        uint64
	stealHalves   uint64
	leaps         uint64
	splits        uint64
	parks         uint64

	latencyP50 *quantile
	latencyP90 *quantile
	latencyP99 *quantile
}

// New returns a ready-to-use Counters.
func New() *Counters {
	return &Counters{
		latencyP50: newQuantile(0.50),
		latencyP90: newQuantile(0.90),
		latencyP99: newQuantile(0.99),
	}
}

// RecordTask records one completed task's execution latency.
func (c *Counters) RecordTask(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasksExecuted++
	us := float64(d.Microseconds())
	c.latencyP50.update(us)
	c.latencyP90.update(us)
	c.latencyP99.update(us)
}

// IncSteal records a successful single-task steal.
func (c *Counters) IncSteal() { c.inc(&c.steals) }

// IncStealHalf records a successful steal-half.
func (c *Counters) IncStealHalf() { c.inc(&c.stealHalves) }

// IncLeap records a leapfrog steal.
func (c *Counters) IncLeap() { c.inc(&c.leaps) }

// IncSplit records a parallel-for/reduce range split.
func (c *Counters) IncSplit() { c.inc(&c.splits) }

// IncPark records a worker committing to sleep.
func (c *Counters) IncPark() { c.inc(&c.parks) }

func (c *Counters) inc(field *uint64) {
	c.mu.Lock()
	*field++
	c.mu.Unlock()
}

// Snapshot is a point-in-time copy of the counters, safe to read without
// further locking.
type Snapshot struct {
	TasksExecuted uint64
	Steals        uint64
	StealHalves   uint64
	Leaps         uint64
	Splits        uint64
	Parks         uint64
	LatencyP50us  float64
	LatencyP90us  float64
	LatencyP99us  float64
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		TasksExecuted: c.tasksExecuted,
		Steals:        c.steals,
		StealHalves:   c.stealHalves,
		Leaps:         c.leaps,
		Splits:        c.splits,
		Parks:         c.parks,
		LatencyP50us:  c.latencyP50.value(),
		LatencyP90us:  c.latencyP90.value(),
		LatencyP99us:  c.latencyP99.value(),
	}
}

// StealRatio computes the adaptive ratio r as
// (tasks - leaps - (thefts - adaptiveThefts)) / window, from counters
// that accumulate since New and are never reset: it is not a ratio over
// only the last window steals. Used only
// by the (disabled by default) steal-half adaptive hook; kept so the
// policy can be re-enabled without re-deriving the counters it needs.
func (c *Counters) StealRatio(window uint64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if window == 0 || c.steals < c.stealHalves {
		return 0
	}
	return float64(c.tasksExecuted-c.leaps-(c.steals-c.stealHalves)) / float64(window)
}

// WriteTotals prints a one-shot totals dump of per-counter values,
// intended to be called once at shutdown.
func (c *Counters) WriteTotals(w io.Writer) {
	s := c.Snapshot()
	fmt.Fprintf(w, "scheduler metrics: tasks=%d steals=%d steal_halves=%d leaps=%d splits=%d parks=%d "+
		"latency_us(p50=%.1f p90=%.1f p99=%.1f)\n",
		s.TasksExecuted, s.Steals, s.StealHalves, s.Leaps, s.Splits, s.Parks,
		s.LatencyP50us, s.LatencyP90us, s.LatencyP99us)
}
