package memo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/scenectx/internal/evalctx"
	"github.com/roach88/scenectx/internal/store"
	"github.com/roach88/scenectx/internal/value"
)

// DefaultMaxDepth is the default limit on nested Compute calls.
const DefaultMaxDepth = 1000

// Func computes the value of a node. ec is the evaluation Context, which
// is also current on the Stack carried by ctx. Func must not modify ec.
type Func func(ctx context.Context, ec *evalctx.Context) (value.Value, error)

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits        int64 // served from memory
	Loads       int64 // served from the result store
	Misses      int64 // computed
	Waits       int64 // joined another caller's in-flight compute
	Entries     int   // results held in memory
	StoreErrors int64 // failed write-throughs
}

// Cache memoizes node results by (node, Context hash).
//
// Thread-safety: Cache is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]value.Value
	inflight map[string]*call
	stats    Stats

	store    *store.Store
	clock    SeqSource
	resume   sync.Once
	runID    string
	maxDepth int
}

// call is one in-flight compute. done is closed once val/err are set.
type call struct {
	done chan struct{}
	val  value.Value
	err  error
}

// Option configures a Cache.
type Option func(*cacheConfig)

type cacheConfig struct {
	store    *store.Store
	clock    SeqSource
	runIDs   RunIDGenerator
	maxDepth int
}

// WithStore backs the cache with a durable result store.
func WithStore(s *store.Store) Option {
	return func(c *cacheConfig) {
		c.store = s
	}
}

// WithClock sets the source of write seq numbers.
//
// Default: a Clock that resumes after the highest seq in the store.
func WithClock(clock SeqSource) Option {
	return func(c *cacheConfig) {
		c.clock = clock
	}
}

// WithRunIDGenerator sets the generator for the cache's run ID.
//
// Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(c *cacheConfig) {
		c.runIDs = g
	}
}

// WithMaxDepth sets the limit on nested Compute calls.
//
// Default: 1000 (DefaultMaxDepth).
func WithMaxDepth(depth int) Option {
	return func(c *cacheConfig) {
		c.maxDepth = depth
	}
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	cfg := cacheConfig{
		runIDs:   UUIDv7Generator{},
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Cache{
		entries:  make(map[string]value.Value),
		inflight: make(map[string]*call),
		store:    cfg.store,
		clock:    cfg.clock,
		runID:    cfg.runIDs.Generate(),
		maxDepth: cfg.maxDepth,
	}
	if c.clock != nil {
		// Caller-supplied clocks are never resumed
		c.resume.Do(func() {})
	} else {
		c.clock = NewClock()
	}
	return c
}

// RunID returns the ID stamped on results this cache writes.
func (c *Cache) RunID() string {
	return c.runID
}

// Key returns the in-memory identity of node evaluated under ec.
func Key(ec *evalctx.Context, node string) string {
	return value.HashWithDomain(value.DomainResult, []byte(node+"\x00"+ec.Hash()))
}

// Compute returns the value of node under ec, running fn on a miss.
//
// The returned value is a copy; callers may modify it freely. Errors from
// fn are wrapped in *Error with code COMPUTE_FAILED and are not cached, so
// a later Compute retries.
func (c *Cache) Compute(ctx context.Context, ec *evalctx.Context, node string, fn Func) (value.Value, error) {
	cacheKey := ec.Hash()
	key := Key(ec, node)

	chain := chainFrom(ctx)
	if chain.contains(key) {
		return nil, &Error{
			Code:     ErrCodeCycleDetected,
			Node:     node,
			CacheKey: cacheKey,
			Chain:    append(chain.nodes(), node),
		}
	}
	if chain != nil && chain.depth >= c.maxDepth {
		return nil, &Error{
			Code:     ErrCodeDepthExceeded,
			Node:     node,
			CacheKey: cacheKey,
			Chain:    append(chain.nodes(), node),
		}
	}

	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.stats.Hits++
		c.mu.Unlock()
		slog.Debug("memo hit", "node", node, "cache_key", cacheKey)
		return value.Clone(v), nil
	}
	if cl, ok := c.inflight[key]; ok {
		c.stats.Waits++
		c.mu.Unlock()
		return c.wait(ctx, cl, node)
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	cl.val, cl.err = c.load(ctx, ec, node, cacheKey, key, fn)

	c.mu.Lock()
	delete(c.inflight, key)
	if cl.err == nil {
		c.entries[key] = cl.val
	}
	c.mu.Unlock()
	close(cl.done)

	if cl.err != nil {
		return nil, cl.err
	}
	return value.Clone(cl.val), nil
}

func (c *Cache) wait(ctx context.Context, cl *call, node string) (value.Value, error) {
	slog.Debug("memo waiting for in-flight compute", "node", node)
	select {
	case <-cl.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if cl.err != nil {
		return nil, cl.err
	}
	return value.Clone(cl.val), nil
}

// load resolves a miss from the store, or by running fn and writing the
// result through.
func (c *Cache) load(ctx context.Context, ec *evalctx.Context, node, cacheKey, key string, fn Func) (value.Value, error) {
	if c.store != nil {
		r, found, err := c.store.ReadResult(ctx, cacheKey, node)
		if err != nil {
			return nil, &Error{Code: ErrCodeStoreFailed, Node: node, CacheKey: cacheKey, Err: err}
		}
		if found {
			c.mu.Lock()
			c.stats.Loads++
			c.mu.Unlock()
			slog.Debug("memo loaded from store", "node", node, "cache_key", cacheKey, "seq", r.Seq)
			return r.Value, nil
		}
	}

	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
	slog.Debug("memo miss", "node", node, "cache_key", cacheKey)

	v, err := c.run(ctx, ec, node, key, fn)
	var me *Error
	if errors.As(err, &me) && (me.Code == ErrCodeCycleDetected || me.Code == ErrCodeDepthExceeded) {
		// Surfaces unchanged through every enclosing compute
		return nil, err
	}
	if err != nil {
		return nil, &Error{Code: ErrCodeComputeFailed, Node: node, CacheKey: cacheKey, Err: err}
	}
	if v == nil {
		return nil, &Error{Code: ErrCodeNilResult, Node: node, CacheKey: cacheKey}
	}
	v = value.Clone(v)

	if c.store != nil {
		c.writeThrough(ctx, node, cacheKey, v)
	}
	return v, nil
}

// run calls fn with ec current and the compute chain extended.
func (c *Cache) run(ctx context.Context, ec *evalctx.Context, node, key string, fn Func) (v value.Value, err error) {
	ctx, _ = withLink(ctx, key, node)
	ctx, scope := evalctx.Enter(ctx, ec)
	defer scope.Exit()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, ec)
}

func (c *Cache) writeThrough(ctx context.Context, node, cacheKey string, v value.Value) {
	c.resume.Do(func() {
		seq, err := c.store.MaxSeq(ctx)
		if err != nil {
			slog.Warn("memo clock resume failed", "error", err)
			return
		}
		if clock, ok := c.clock.(*Clock); ok {
			clock.advanceTo(seq)
		}
	})

	r := store.Result{
		CacheKey: cacheKey,
		Node:     node,
		Value:    v,
		Seq:      c.clock.Next(),
		RunID:    c.runID,
	}
	if _, err := c.store.WriteResult(ctx, r); err != nil {
		c.mu.Lock()
		c.stats.StoreErrors++
		c.mu.Unlock()
		slog.Warn("memo write-through failed",
			"node", node,
			"cache_key", cacheKey,
			"error", err,
		)
	}
}

// Forget drops the in-memory result for node under ec. Stored results are
// kept.
func (c *Cache) Forget(ec *evalctx.Context, node string) {
	key := Key(ec, node)
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of results held in memory.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of cache activity.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}
