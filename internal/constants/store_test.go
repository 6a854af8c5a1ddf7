package constants

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func newStoreTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE calc_constants (
			name TEXT PRIMARY KEY,
			value REAL NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		t.Fatalf("failed creating calc_constants table: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func setConstant(t *testing.T, db *sql.DB, name string, value float64) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO calc_constants (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, name, value)
	if err != nil {
		t.Fatalf("failed to set constant %s: %v", name, err)
	}
}

func TestStoreProvider_EmptyTableYieldsDefaults(t *testing.T) {
	db := newStoreTestDB(t)
	p := NewStoreProvider(db)

	got, err := p.Constants(context.Background())
	if err != nil {
		t.Fatalf("Constants: %v", err)
	}
	if got != Defaults() {
		t.Fatalf("got %+v, want defaults", got)
	}
}

func TestStoreProvider_RowsOverlayDefaults(t *testing.T) {
	db := newStoreTestDB(t)
	setConstant(t, db, "battery_small_rate_per_kwh", 175)
	setConstant(t, db, "discount_rate", 0.08)

	p := NewStoreProvider(db)
	got, err := p.Constants(context.Background())
	if err != nil {
		t.Fatalf("Constants: %v", err)
	}
	if got.BatterySmallRatePerKWh != 175 {
		t.Fatalf("BatterySmallRatePerKWh = %v, want 175", got.BatterySmallRatePerKWh)
	}
	if got.DiscountRate != 0.08 {
		t.Fatalf("DiscountRate = %v, want 0.08", got.DiscountRate)
	}
	// Untouched fields keep their defaults.
	if got.BOSPercent != Defaults().BOSPercent {
		t.Fatalf("BOSPercent = %v, want default %v", got.BOSPercent, Defaults().BOSPercent)
	}
}

func TestStoreProvider_UnknownRowsIgnored(t *testing.T) {
	db := newStoreTestDB(t)
	setConstant(t, db, "not_a_real_constant", 99)

	p := NewStoreProvider(db)
	got, err := p.Constants(context.Background())
	if err != nil {
		t.Fatalf("Constants: %v", err)
	}
	if got != Defaults() {
		t.Fatal("unknown row names must not change the set")
	}
}

func TestStoreProvider_FallsBackOnStoreFailure(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// No calc_constants table at all.
	p := NewStoreProvider(db)
	got, err := p.Constants(context.Background())
	if err == nil {
		t.Fatal("expected an error from a missing table")
	}
	if got != Defaults() {
		t.Fatal("fallback must be the default set when nothing has loaded")
	}
}

func TestStoreProvider_FallbackReusesLastGoodSet(t *testing.T) {
	db := newStoreTestDB(t)
	setConstant(t, db, "battery_small_rate_per_kwh", 175)

	p := NewStoreProvider(db)
	if _, err := p.Constants(context.Background()); err != nil {
		t.Fatalf("warm load: %v", err)
	}

	// Break the store; the last good load should survive.
	if _, err := db.Exec(`DROP TABLE calc_constants`); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	got, err := p.Constants(context.Background())
	if err == nil {
		t.Fatal("expected an error from the dropped table")
	}
	if got.BatterySmallRatePerKWh != 175 {
		t.Fatalf("fallback BatterySmallRatePerKWh = %v, want the last loaded 175", got.BatterySmallRatePerKWh)
	}
}

func TestStatic_ReturnsFixedSet(t *testing.T) {
	c := Defaults()
	c.CyclesPerYear = 400

	got, err := Static(c).Constants(context.Background())
	if err != nil {
		t.Fatalf("Constants: %v", err)
	}
	if got.CyclesPerYear != 400 {
		t.Fatalf("CyclesPerYear = %v, want 400", got.CyclesPerYear)
	}
}
