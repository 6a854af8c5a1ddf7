package quote

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/gridform/quotecore/internal/pricing"
)

const (
	defaultCacheTTL        = 5 * time.Minute
	defaultCacheMaxEntries = 100
)

type cacheEntry struct {
	result    Result
	createdAt time.Time
}

// CacheStats is a point-in-time snapshot of cache behavior.
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// Cache memoizes complete quote results keyed by the canonical input hash,
// with TTL expiry and a bounded entry count. It is best-effort shared state:
// entries are immutable once stored, and anything unexpected degrades to a
// miss.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	max     int
	hits    int64
	misses  int64

	now func() time.Time
}

// NewCache returns a cache with the given TTL and size bound. Non-positive
// arguments select the defaults (5 minutes, 100 entries).
func NewCache(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultCacheMaxEntries
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		max:     maxEntries,
		now:     time.Now,
	}
}

// Key derives the cache key from the stable input fields: the canonical JSON
// of the request (struct fields in declaration order, map keys sorted by the
// encoder), hashed. Two semantically identical requests always collide; any
// differing field changes the key.
func Key(in Input) string {
	raw, err := json.Marshal(in)
	if err != nil {
		// Input is plain data; marshalling cannot realistically fail. Treat
		// it as uncacheable rather than erroring the quote path.
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached result for key if present and fresh.
func (c *Cache) Get(key string) (Result, bool) {
	if key == "" {
		return Result{}, false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.isValid(entry) {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return Result{}, false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return cloneResult(entry.result), true
}

// Set stores a result. Empty keys are ignored.
func (c *Cache) Set(key string, result Result) {
	if key == "" {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{result: cloneResult(result), createdAt: c.now()}
	c.mu.Unlock()
}

// cloneResult copies every pointer and slice field so stored entries cannot
// be mutated through results handed to callers, or through the result a
// caller passed in.
func cloneResult(r Result) Result {
	out := r
	if r.Power != nil {
		p := *r.Power
		out.Power = &p
	}
	out.Equipment.Batteries = cloneLineItem(r.Equipment.Batteries)
	out.Equipment.Inverters = cloneLineItem(r.Equipment.Inverters)
	out.Equipment.Transformers = cloneLineItem(r.Equipment.Transformers)
	out.Equipment.Solar = cloneLineItem(r.Equipment.Solar)
	out.Equipment.Wind = cloneLineItem(r.Equipment.Wind)
	out.Equipment.Generators = cloneLineItem(r.Equipment.Generators)
	out.Equipment.FuelCells = cloneLineItem(r.Equipment.FuelCells)
	out.Financials.CashFlow = slices.Clone(r.Financials.CashFlow)
	out.Warnings = slices.Clone(r.Warnings)
	return out
}

func cloneLineItem(item *pricing.LineItem) *pricing.LineItem {
	if item == nil {
		return nil
	}
	clone := *item
	return &clone
}

func (c *Cache) isValid(entry cacheEntry) bool {
	return c.now().Sub(entry.createdAt) < c.ttl
}

// Cleanup removes expired entries and, if the cache is still above its size
// bound, evicts the oldest surplus entries.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.createdAt) >= c.ttl {
			delete(c.entries, key)
		}
	}

	surplus := len(c.entries) - c.max
	if surplus <= 0 {
		return
	}

	type aged struct {
		key       string
		createdAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for key, entry := range c.entries {
		all = append(all, aged{key, entry.createdAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].createdAt.Before(all[j].createdAt) })
	for _, a := range all[:surplus] {
		delete(c.entries, a.key)
	}
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len reports the current entry count, including not-yet-swept expired
// entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats snapshots hit/miss counters and the entry count.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}
