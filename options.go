package weave

import "runtime"

// Option configures a Pool at construction time, following the usual
// Go functional-options style rather than a config struct.
type Option func(*poolConfig)

type poolConfig struct {
	numThreads      int
	initialQueueCap int
	debugLogging    bool
	metrics         bool
}

func defaultPoolConfig() poolConfig {
	return poolConfig{
		numThreads:      runtime.GOMAXPROCS(0),
		initialQueueCap: 32,
		debugLogging:    false,
		metrics:         false,
	}
}

func resolvePoolOptions(opts []Option) poolConfig {
	cfg := defaultPoolConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithNumThreads sets the number of worker goroutines. Defaults to
// runtime.GOMAXPROCS(0). n must be >= 1.
func WithNumThreads(n int) Option {
	return func(c *poolConfig) { c.numThreads = n }
}

// WithInitialQueueCapacity sets the initial backing capacity of each
// worker's local queue, amortizing the first few grow-reallocations on
// workloads with a predictable fan-out factor.
func WithInitialQueueCapacity(n int) Option {
	return func(c *poolConfig) { c.initialQueueCap = n }
}

// WithDebugLogging turns on per-event trace lines to stderr (spawn,
// steal, leap, split, park).
func WithDebugLogging(enabled bool) Option {
	return func(c *poolConfig) { c.debugLogging = enabled }
}

// WithMetrics turns on the scheduler counters (task latency percentiles,
// steal/leap/split/park totals) exposed via Pool.Metrics.
func WithMetrics(enabled bool) Option {
	return func(c *poolConfig) { c.metrics = enabled }
}
