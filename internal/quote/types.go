// Package quote is the quote calculation core: input validation, a short
// lived result cache, and the orchestrator that sequences power sizing,
// equipment pricing and financial metrics into a single quote.
package quote

import (
	"strings"
	"time"

	"github.com/gridform/quotecore/internal/finance"
	"github.com/gridform/quotecore/internal/power"
	"github.com/gridform/quotecore/internal/pricing"
)

// EngineVersion is stamped into every quote's metadata.
const EngineVersion = "2.4.0"

// Grid connection qualities.
const (
	GridOnGrid     = "on-grid"
	GridOffGrid    = "off-grid"
	GridLimited    = "limited"
	GridUnreliable = "unreliable"
	GridExpensive  = "expensive"
)

// Generator fuel types.
const (
	FuelDiesel     = "diesel"
	FuelNaturalGas = "natural-gas"
	FuelDualFuel   = "dual-fuel"
)

// Fuel cell types.
const (
	FuelCellHydrogen   = "hydrogen"
	FuelCellNaturalGas = "natural-gas-fc"
	FuelCellSolidOxide = "solid-oxide"
)

var (
	gridConnections = []string{GridOnGrid, GridOffGrid, GridLimited, GridUnreliable, GridExpensive}
	generatorFuels  = []string{FuelDiesel, FuelNaturalGas, FuelDualFuel}
	fuelCellTypes   = []string{FuelCellHydrogen, FuelCellNaturalGas, FuelCellSolidOxide}
)

// Input is the immutable quote request. Enum fields use the wire values
// (lowercase-hyphenated); numeric fields are MW, hours and dollars.
type Input struct {
	StorageSizeMW float64 `json:"storageSizeMW"`
	DurationHours float64 `json:"durationHours"`

	SolarMW           float64 `json:"solarMW,omitempty"`
	WindMW            float64 `json:"windMW,omitempty"`
	GeneratorMW       float64 `json:"generatorMW,omitempty"`
	GeneratorFuelType string  `json:"generatorFuelType,omitempty"`
	FuelCellMW        float64 `json:"fuelCellMW,omitempty"`
	FuelCellType      string  `json:"fuelCellType,omitempty"`

	Location        string  `json:"location,omitempty"`
	ElectricityRate float64 `json:"electricityRate"`
	GridConnection  string  `json:"gridConnection,omitempty"`

	UseCase      string             `json:"useCase,omitempty"`
	FacilityData power.FacilityData `json:"facilityData,omitempty"`
}

// ValidationResult reports blocking errors and advisory warnings. Valid is
// true exactly when Errors is empty.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidationError carries the full set of blocking validation messages.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid quote request: " + strings.Join(e.Errors, "; ")
}

// Metadata describes how a quote result was produced.
type Metadata struct {
	QuoteID       string    `json:"quoteId"`
	EngineVersion string    `json:"engineVersion"`
	CacheHit      bool      `json:"cacheHit"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

// Result is the complete quote: equipment breakdown, financial metrics,
// power estimate and metadata.
type Result struct {
	Power     *power.Estimate   `json:"power,omitempty"`
	Equipment pricing.Breakdown `json:"equipment"`
	// Costs repeats the equipment roll-up at the top level for consumers
	// that only read the headline numbers.
	Costs      pricing.Totals `json:"costs"`
	Financials finance.Result `json:"financials"`
	Warnings   []string       `json:"warnings,omitempty"`
	Metadata   Metadata       `json:"metadata"`
}

// Options controls a single orchestrated call.
type Options struct {
	SkipCache      bool
	SkipValidation bool
}
