package backoff

import "sync"

// Notifier is a single-consumer, one-shot park/notify primitive: a
// worker awaiting one specific task's completion parks on its own
// Notifier, and whichever side publishes completion last wakes it. Each
// Notifier is used for exactly one park/notify cycle and then discarded
// or reset via Reset.
type Notifier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	prepared bool
	notified bool
}

// NewNotifier constructs a ready-to-use Notifier.
func NewNotifier() *Notifier {
	n := &Notifier{}
	n.cond = sync.NewCond(&n.mu)
	return n
}

// PrepareToPark marks the notifier as about to park, matching the
// two-phase protocol EventCount uses: a Notify that lands between
// PrepareToPark and Park must not be lost.
func (n *Notifier) PrepareToPark() {
	n.mu.Lock()
	n.prepared = true
	n.mu.Unlock()
}

// Park blocks until Notify is called. If Notify already landed since
// PrepareToPark, returns immediately.
func (n *Notifier) Park() {
	n.mu.Lock()
	for !n.notified {
		n.cond.Wait()
	}
	n.mu.Unlock()
}

// Notify wakes the parked (or soon-to-park) waiter. Idempotent: calling
// it more than once after PrepareToPark has no further effect until the
// Notifier is Reset.
func (n *Notifier) Notify() {
	n.mu.Lock()
	n.notified = true
	n.mu.Unlock()
	n.cond.Broadcast()
}

// Reset clears prior notification state so the Notifier can be reused for
// a subsequent park/notify cycle on the same worker.
func (n *Notifier) Reset() {
	n.mu.Lock()
	n.prepared = false
	n.notified = false
	n.mu.Unlock()
}
