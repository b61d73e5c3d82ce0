package weave

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/cpu"

	"github.com/mratsim/constantine-sub009/internal/backoff"
	"github.com/mratsim/constantine-sub009/internal/debug"
	"github.com/mratsim/constantine-sub009/internal/metrics"
	"github.com/mratsim/constantine-sub009/internal/queue"
	"github.com/mratsim/constantine-sub009/internal/xoshiro"
)

// Pool is a work-stealing thread pool: a fixed set of worker goroutines,
// each with its own task queue, backed by a shared EventCount for
// park/wake coordination. Construct with New; it is ready to accept work
// the moment New returns.
type Pool struct {
	id         uuid.UUID
	numThreads int

	workers []*workerContext

	globalBackoff *backoff.EventCount
	metrics       *metrics.Counters
	log           *debug.Logger

	nextSubmit  atomic.Uint64
	seedCounter atomic.Uint64
	liveTasks   atomic.Int64
	terminate   atomic.Bool

	shutdownOnce sync.Once
	wg           sync.WaitGroup

	_ cpu.CacheLinePad
}

// New constructs a Pool and starts its worker goroutines. The returned
// Pool is ready to accept Spawn/ParallelFor/ParallelReduce calls via
// Root() immediately.
func New(opts ...Option) (*Pool, error) {
	cfg := resolvePoolOptions(opts)
	if cfg.numThreads < 1 {
		return nil, ErrNumThreads
	}

	p := &Pool{
		id:            uuid.New(),
		numThreads:    cfg.numThreads,
		globalBackoff: backoff.New(),
		log:           debug.New(cfg.debugLogging),
	}
	if cfg.metrics {
		p.metrics = metrics.New()
	}

	p.workers = make([]*workerContext, cfg.numThreads)
	for i := 0; i < cfg.numThreads; i++ {
		seed := uint64(time.Now().UnixNano()) ^ (p.seedCounter.Add(1) * 0x9e3779b97f4a7c15)
		rng := xoshiro.New(seed)
		p.workers[i] = &workerContext{
			id:           i,
			pool:         p,
			queue:        queue.New[*Task](cfg.initialQueueCap),
			rng:          rng,
			perm:         xoshiro.NewPermutation(rng, cfg.numThreads),
			localBackoff: backoff.NewNotifier(),
		}
	}

	p.wg.Add(cfg.numThreads)
	for i := 0; i < cfg.numThreads; i++ {
		w := p.workers[i]
		go func() {
			defer p.wg.Done()
			w.loop()
		}()
	}

	p.log.Tracef("pool %s started with %d workers", p.id, cfg.numThreads)
	return p, nil
}

// Root returns a fresh Context for submitting work from outside the
// pool's own workers — the entry point any external goroutine uses to
// Spawn, ParallelFor, or Sync against this Pool. Each call returns an
// independent ephemeral worker identity that one goroutine may use for
// any number of calls; Contexts returned by Root must not be shared
// between concurrently-running goroutines.
func (p *Pool) Root() *Context {
	seed := uint64(time.Now().UnixNano()) ^ (p.seedCounter.Add(1) * 0xbf58476d1ce4e5b9)
	rng := xoshiro.New(seed)
	w := &workerContext{
		id:           -1,
		pool:         p,
		queue:        nil,
		rng:          rng,
		perm:         xoshiro.NewPermutation(rng, p.numThreads),
		localBackoff: backoff.NewNotifier(),
	}
	return &Context{pool: p, worker: w}
}

// NumThreads returns the number of worker goroutines this Pool was built
// with.
func (p *Pool) NumThreads() int {
	return p.numThreads
}

// Metrics returns the Pool's scheduler counters, or nil if it was built
// without WithMetrics(true).
func (p *Pool) Metrics() *metrics.Counters {
	return p.metrics
}

// SyncAll blocks until the pool has no pending or in-flight work,
// including work submitted by other external callers. ctx must be a
// root Context (from Root()), not one belonging to a worker — a worker
// waiting on its own pool's global drain could deadlock against itself.
func SyncAll(ctx *Context) {
	if ctx.IsWorker() {
		misuse(ErrNotRoot)
	}
	w := ctx.worker
	for ctx.pool.liveTasks.Load() > 0 {
		if t, ok := w.trySteal(); ok {
			w.run(t)
			continue
		}
		time.Sleep(time.Microsecond)
	}
}

// Shutdown stops accepting new internal scheduling decisions and blocks
// until every worker goroutine has drained its queue and exited. After
// Shutdown returns, the Pool must not be used again. ctx must be a root
// Context.
func Shutdown(ctx *Context) {
	if ctx.IsWorker() {
		misuse(ErrNotRoot)
	}
	p := ctx.pool
	SyncAll(ctx)
	p.shutdownOnce.Do(func() {
		p.terminate.Store(true)
		p.globalBackoff.WakeAll()
	})
	p.wg.Wait()
	if p.metrics != nil {
		p.metrics.WriteTotals(os.Stderr)
	}
}
