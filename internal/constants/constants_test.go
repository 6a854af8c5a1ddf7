package constants

import "testing"

func TestDefaults_AllFieldsSet(t *testing.T) {
	c := Defaults()
	for name, field := range c.fieldIndex() {
		if *field == 0 {
			t.Errorf("default %s is zero", name)
		}
	}
}

func TestFieldIndex_CoversEveryRow(t *testing.T) {
	c := Defaults()
	rows := c.Rows()
	index := c.fieldIndex()
	if len(rows) != len(index) {
		t.Fatalf("Rows has %d entries, fieldIndex has %d", len(rows), len(index))
	}
	for name, value := range rows {
		field, ok := index[name]
		if !ok {
			t.Fatalf("row %s missing from fieldIndex", name)
		}
		if *field != value {
			t.Fatalf("row %s = %v, field = %v", name, value, *field)
		}
	}
}

func TestFieldIndex_WritesThrough(t *testing.T) {
	c := Defaults()
	index := c.fieldIndex()
	*index["battery_small_rate_per_kwh"] = 180
	if c.BatterySmallRatePerKWh != 180 {
		t.Fatalf("BatterySmallRatePerKWh = %v, want 180", c.BatterySmallRatePerKWh)
	}
}

func TestRegionalMultiplier(t *testing.T) {
	cases := []struct {
		location string
		want     float64
	}{
		{"San Diego, California", 1.15},
		{"HONOLULU, HAWAII", 1.30},
		{"Anchorage, Alaska", 1.25},
		{"Buffalo, New York", 1.12},
		{"Austin, Texas", 0.95},
		{"San Juan, Puerto Rico", 1.20},
		{"Columbus, Ohio", 1.0},
		{"", 1.0},
	}
	for _, tc := range cases {
		if got := RegionalMultiplier(tc.location); got != tc.want {
			t.Errorf("RegionalMultiplier(%q) = %v, want %v", tc.location, got, tc.want)
		}
	}
}
