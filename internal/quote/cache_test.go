package quote

import (
	"fmt"
	"testing"
	"time"

	"github.com/gridform/quotecore/internal/finance"
	"github.com/gridform/quotecore/internal/power"
	"github.com/gridform/quotecore/internal/pricing"
)

// fakeClock drives a cache's notion of now from the test.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testResult(id string) Result {
	return Result{Metadata: Metadata{QuoteID: id, EngineVersion: EngineVersion}}
}

func TestCache_EntriesIsolatedFromCallerMutation(t *testing.T) {
	c := NewCache(time.Minute, 10)

	stored := Result{
		Power: &power.Estimate{PeakKW: 500},
		Equipment: pricing.Breakdown{
			Batteries: &pricing.LineItem{Quantity: 2, TotalCost: 1200000},
		},
		Financials: finance.Result{
			CashFlow: []finance.YearCashFlow{{Year: 1, CashFlow: 100}},
		},
		Warnings: []string{"check utility tariff"},
		Metadata: Metadata{QuoteID: "q-1"},
	}
	c.Set("k", stored)
	// Mutating the value handed to Set must not reach the stored entry.
	stored.Power.PeakKW = -1

	first, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	first.Power.PeakKW = -2
	first.Equipment.Batteries.TotalCost = -2
	first.Financials.CashFlow[0].CashFlow = -2
	first.Warnings[0] = "mutated"

	second, ok := c.Get("k")
	if !ok {
		t.Fatal("expected second hit")
	}
	if second.Power.PeakKW != 500 {
		t.Fatalf("PeakKW = %v, want 500", second.Power.PeakKW)
	}
	if second.Equipment.Batteries.TotalCost != 1200000 {
		t.Fatalf("battery total = %v, want 1200000", second.Equipment.Batteries.TotalCost)
	}
	if second.Financials.CashFlow[0].CashFlow != 100 {
		t.Fatalf("cash flow = %v, want 100", second.Financials.CashFlow[0].CashFlow)
	}
	if second.Warnings[0] != "check utility tariff" {
		t.Fatalf("warning = %q", second.Warnings[0])
	}
}

func TestCacheKey_StableAndDiscriminating(t *testing.T) {
	a := Input{StorageSizeMW: 2, DurationHours: 4, ElectricityRate: 0.12, Location: "Austin, TX"}
	b := a

	if Key(a) == "" {
		t.Fatal("key should not be empty")
	}
	if Key(a) != Key(b) {
		t.Fatal("identical inputs must produce identical keys")
	}

	b.DurationHours = 6
	if Key(a) == Key(b) {
		t.Fatal("differing inputs must produce differing keys")
	}
}

func TestCache_GetSetRoundTrip(t *testing.T) {
	c := NewCache(time.Minute, 10)
	key := Key(Input{StorageSizeMW: 1, DurationHours: 2})

	if _, ok := c.Get(key); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	c.Set(key, testResult("q-1"))

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if got.Metadata.QuoteID != "q-1" {
		t.Fatalf("QuoteID = %q, want q-1", got.Metadata.QuoteID)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
		t.Fatalf("stats = %+v, want 1 hit, 1 miss, 1 entry", stats)
	}
}

func TestCache_EntriesExpireAfterTTL(t *testing.T) {
	clock := newFakeClock()
	c := NewCache(5*time.Minute, 10)
	c.now = clock.now

	key := Key(Input{StorageSizeMW: 1, DurationHours: 2})
	c.Set(key, testResult("q-1"))

	clock.advance(4 * time.Minute)
	if _, ok := c.Get(key); !ok {
		t.Fatal("entry should still be fresh at 4 minutes")
	}

	clock.advance(2 * time.Minute)
	if _, ok := c.Get(key); ok {
		t.Fatal("entry should have expired at 6 minutes")
	}
}

func TestCache_CleanupSweepsExpired(t *testing.T) {
	clock := newFakeClock()
	c := NewCache(5*time.Minute, 10)
	c.now = clock.now

	c.Set("old", testResult("q-old"))
	clock.advance(6 * time.Minute)
	c.Set("fresh", testResult("q-fresh"))

	c.Cleanup()

	if c.Len() != 1 {
		t.Fatalf("Len = %d after cleanup, want 1", c.Len())
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("fresh entry should survive cleanup")
	}
}

func TestCache_CleanupEvictsOldestBeyondBound(t *testing.T) {
	clock := newFakeClock()
	c := NewCache(time.Hour, 3)
	c.now = clock.now

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("key-%d", i), testResult(fmt.Sprintf("q-%d", i)))
		clock.advance(time.Second)
	}

	c.Cleanup()

	if c.Len() != 3 {
		t.Fatalf("Len = %d after cleanup, want 3", c.Len())
	}
	for _, gone := range []string{"key-0", "key-1"} {
		if _, ok := c.Get(gone); ok {
			t.Fatalf("%s should have been evicted as oldest", gone)
		}
	}
	for _, kept := range []string{"key-2", "key-3", "key-4"} {
		if _, ok := c.Get(kept); !ok {
			t.Fatalf("%s should have survived eviction", kept)
		}
	}
}

func TestCache_EmptyKeyIsUncacheable(t *testing.T) {
	c := NewCache(time.Minute, 10)
	c.Set("", testResult("q-1"))
	if c.Len() != 0 {
		t.Fatal("empty key must not be stored")
	}
	if _, ok := c.Get(""); ok {
		t.Fatal("empty key must never hit")
	}
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(time.Minute, 10)
	c.Set("a", testResult("q-a"))
	c.Set("b", testResult("q-b"))
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Len = %d after Clear, want 0", c.Len())
	}
}

func TestCache_DefaultsOnNonPositiveArguments(t *testing.T) {
	c := NewCache(0, 0)
	if c.ttl != defaultCacheTTL {
		t.Fatalf("ttl = %v, want %v", c.ttl, defaultCacheTTL)
	}
	if c.max != defaultCacheMaxEntries {
		t.Fatalf("max = %d, want %d", c.max, defaultCacheMaxEntries)
	}
}
