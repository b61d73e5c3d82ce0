// Package backoff implements the two parking primitives the scheduler
// uses to let idle workers sleep instead of spinning: EventCount (many
// waiters, one global backoff per pool) and Notifier (one waiter, used by
// a single syncing worker awaiting a specific task).
//
// Both favor clarity (sync.Mutex + sync.Cond) over the futex-level
// tricks a systems language would use; see DESIGN.md for why no
// ecosystem package fits this role.
package backoff

import "sync"

// Ticket is the opaque token returned by Sleepy. It is invalidated by any
// Wake observed between Sleepy and Sleep, which Sleep detects via the
// generation counter captured at Sleepy time.
type Ticket struct {
	gen uint64
}

// EventCount is a multi-producer/multi-consumer parking primitive. Workers
// declare intent to sleep (Sleepy), optionally abandon it (CancelSleep),
// or commit (Sleep) and block until a Wake/WakeAll. The two-phase
// sleepy/commit split lets a worker do one more check of its work sources
// between declaring intent and actually blocking, without losing a wake
// that lands in between (the generation counter makes that window safe).
type EventCount struct {
	mu             sync.Mutex
	cond           *sync.Cond
	generation     uint64
	preSleep       int
	committedSleep int
}

// New constructs an EventCount ready for use.
func New() *EventCount {
	ec := &EventCount{}
	ec.cond = sync.NewCond(&ec.mu)
	return ec
}

// Sleepy declares intent to sleep and returns a ticket capturing the
// current wake generation.
func (ec *EventCount) Sleepy() Ticket {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.preSleep++
	return Ticket{gen: ec.generation}
}

// CancelSleep abandons a previously declared intent without blocking.
func (ec *EventCount) CancelSleep() {
	ec.mu.Lock()
	ec.preSleep--
	ec.mu.Unlock()
}

// Sleep commits the ticket and blocks until a Wake/WakeAll bumps the
// generation counter past the ticket's. Returns immediately, without
// blocking, if a wake already landed since Sleepy.
func (ec *EventCount) Sleep(t Ticket) {
	ec.mu.Lock()
	ec.preSleep--
	if ec.generation != t.gen {
		ec.mu.Unlock()
		return
	}
	ec.committedSleep++
	for ec.generation == t.gen {
		ec.cond.Wait()
	}
	ec.committedSleep--
	ec.mu.Unlock()
}

// Wake bumps the generation and signals a single committed sleeper.
// The bump makes every outstanding Sleepy ticket stale, so each thread
// still in the pre-sleep phase returns from its Sleep without blocking;
// Wake therefore does not limit itself to one thread when several
// pre-sleep intents are outstanding, and it signals a committed sleeper
// even when a pre-sleeper is present. Used on the common "one more task
// became available" path, where it avoids broadcasting to every
// committed sleeper on every spawn.
func (ec *EventCount) Wake() {
	ec.mu.Lock()
	ec.generation++
	ec.mu.Unlock()
	ec.cond.Signal()
}

// WakeAll wakes every sleeper; used at shutdown.
func (ec *EventCount) WakeAll() {
	ec.mu.Lock()
	ec.generation++
	ec.mu.Unlock()
	ec.cond.Broadcast()
}

// NumWaiters returns the current (preSleep, committedSleep) counts, used
// by the parallel-for load balancer to approximate idle thread count.
func (ec *EventCount) NumWaiters() (preSleep, committedSleep int) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.preSleep, ec.committedSleep
}
