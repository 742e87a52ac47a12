package schema

import (
	"context"
	"sync"
	"time"

	"github.com/docql/docql/pkg/logger"
)

const (
	DefaultCacheTTL     = 5 * time.Minute
	DefaultWarmInterval = 30 * time.Second
	DefaultMaxEntries   = 256
)

// CacheConfig carries the resolved cache settings. Zero values fall back to
// documented defaults instead of failing.
type CacheConfig struct {
	Strategy     CacheStrategy
	TTL          time.Duration
	WarmInterval time.Duration
	MaxEntries   int
}

func (c CacheConfig) withDefaults() CacheConfig {
	if c.TTL == 0 {
		c.TTL = DefaultCacheTTL
	}
	if c.WarmInterval <= 0 {
		c.WarmInterval = DefaultWarmInterval
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = DefaultMaxEntries
	}
	return c
}

// CacheStats is a point-in-time copy of the cache counters.
type CacheStats struct {
	Hits               int64
	Misses             int64
	Refreshes          int64
	BackgroundFailures int64
	Entries            int
}

type flight struct {
	done chan struct{}
	snap Snapshot
	err  error
}

// Cache memoizes detector runs per table with a TTL, single-flight miss
// recomputation, and an optional background warming loop. One instance is
// owned per driver lifetime; Close stops the warmer.
type Cache struct {
	detector *Detector
	config   CacheConfig
	log      *logger.Logger

	mu       sync.Mutex
	entries  map[string]*CachedSchemaEntry
	inflight map[string]*flight
	accesses map[string]int64
	stats    CacheStats

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewCache(detector *Detector, config CacheConfig, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.NewLogger(false)
	}
	c := &Cache{
		detector: detector,
		config:   config.withDefaults(),
		log:      log,
		entries:  make(map[string]*CachedSchemaEntry),
		inflight: make(map[string]*flight),
		accesses: make(map[string]int64),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if c.config.Strategy.refreshesInBackground() {
		go c.warmLoop()
	} else {
		close(c.done)
	}
	return c
}

// GetSchema returns the table's current snapshot, detecting it on a cold or
// expired entry. Concurrent callers missing on the same table share a single
// detector run.
func (c *Cache) GetSchema(ctx context.Context, table string) (Snapshot, error) {
	if c.config.Strategy == CacheNone {
		c.mu.Lock()
		c.stats.Misses++
		c.mu.Unlock()
		return c.detector.DetectSchema(ctx, table)
	}

	c.mu.Lock()
	c.accesses[table]++
	if entry := c.entries[table]; entry != nil && entry.IsValid() {
		c.stats.Hits++
		c.mu.Unlock()
		return entry.Data(), nil
	}
	c.stats.Misses++
	if f := c.inflight[table]; f != nil {
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.snap, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f := &flight{done: make(chan struct{})}
	c.inflight[table] = f
	c.mu.Unlock()

	snap, err := c.detector.DetectSchema(ctx, table)

	c.mu.Lock()
	delete(c.inflight, table)
	if err == nil {
		c.entries[table] = NewCachedSchemaEntry(table, snap, c.config.TTL)
		c.evictLocked()
	}
	c.mu.Unlock()

	f.snap, f.err = snap, err
	close(f.done)
	return snap, err
}

// Refresh unconditionally re-runs detection and publishes a new entry. The
// old entry stays in place when detection fails.
func (c *Cache) Refresh(ctx context.Context, table string) error {
	snap, err := c.detector.DetectSchema(ctx, table)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[table] = NewCachedSchemaEntry(table, snap, c.config.TTL)
	c.stats.Refreshes++
	c.evictLocked()
	c.mu.Unlock()
	return nil
}

// Invalidate discards the table's entry unconditionally.
func (c *Cache) Invalidate(table string) {
	c.mu.Lock()
	delete(c.entries, table)
	c.mu.Unlock()
}

func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := c.stats
	stats.Entries = len(c.entries)
	return stats
}

// Close stops the background warming loop. Safe to call more than once.
func (c *Cache) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	<-c.done
}

// evictLocked drops least-recently-accessed entries once the cache exceeds
// its configured size. Caller holds c.mu.
func (c *Cache) evictLocked() {
	for len(c.entries) > c.config.MaxEntries {
		var victim string
		var oldest time.Time
		for table, entry := range c.entries {
			accessed := entry.LastAccessedAt()
			if victim == "" || accessed.Before(oldest) {
				victim, oldest = table, accessed
			}
		}
		delete(c.entries, victim)
	}
}

func (c *Cache) warmLoop() {
	defer close(c.done)
	ticker := time.NewTicker(c.config.WarmInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.warmOnce(context.Background())
		}
	}
}

// warmOnce refreshes entries nearing expiry so foreground callers rarely see
// a cold miss. Failures are logged and swallowed; the stale-but-valid entry
// outlives a broken refresh.
func (c *Cache) warmOnce(ctx context.Context) {
	c.mu.Lock()
	due := make([]string, 0, len(c.entries))
	for table, entry := range c.entries {
		lead := c.refreshLeadLocked(table)
		if lead > 0 && entry.Remaining() < lead {
			due = append(due, table)
		}
	}
	if c.config.Strategy == CacheAdaptive {
		c.accesses = make(map[string]int64)
	}
	c.mu.Unlock()

	for _, table := range due {
		select {
		case <-c.stop:
			return
		default:
		}
		if err := c.Refresh(ctx, table); err != nil {
			c.mu.Lock()
			c.stats.BackgroundFailures++
			c.mu.Unlock()
			c.log.Warnf("background schema refresh for %s failed: %v", table, err)
		}
	}
}

// refreshLeadLocked decides how far ahead of expiry a table is refreshed.
// Predictive uses one warm interval for every table; adaptive stretches the
// lead for frequently-read tables and skips tables nobody read since the
// last cycle. Caller holds c.mu.
func (c *Cache) refreshLeadLocked(table string) time.Duration {
	if c.config.Strategy != CacheAdaptive {
		return c.config.WarmInterval
	}
	reads := c.accesses[table]
	if reads == 0 {
		return 0
	}
	if reads > 3 {
		reads = 3
	}
	return c.config.WarmInterval * time.Duration(1+reads)
}
