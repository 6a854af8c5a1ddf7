// Package constants holds the tunable calibration numbers used by the quote
// calculators: equipment rates, overhead percentages, financial assumptions
// and degradation coefficients. Values normally come from the calc_constants
// table; Defaults is the authoritative fallback when the store is unreachable.
package constants

import "strings"

// Constants is the full calibration set consumed by the calculators.
// Monetary rates are USD. Percentages are fractions (0.12 == 12%).
type Constants struct {
	// Battery pricing. Systems under 1 MW price per kWh, capped at
	// BatterySmallCapPerKWh. Larger systems price per containerized unit of
	// BatteryUnitMWh at the utility or bulk (>=10 MW) rate.
	BatterySmallRatePerKWh   float64
	BatterySmallCapPerKWh    float64
	BatteryUnitMWh           float64
	BatteryUtilityRatePerKWh float64
	BatteryBulkRatePerKWh    float64

	// Power conversion and interconnection.
	PCSSmallRatePerKW     float64
	PCSUtilityRatePerKW   float64
	TransformerRatePerMVA float64

	// Generation assets, $/kW of nameplate capacity.
	SolarCommercialRatePerKW     float64
	SolarUtilityRatePerKW        float64
	WindCommercialRatePerKW      float64
	WindUtilityRatePerKW         float64
	GeneratorDieselRatePerKW     float64
	GeneratorNaturalGasRatePerKW float64
	GeneratorDualFuelRatePerKW   float64
	FuelCellHydrogenRatePerKW    float64
	FuelCellNaturalGasRatePerKW  float64
	FuelCellSolidOxideRatePerKW  float64

	// Overheads and adders.
	BOSPercent              float64
	EPCSmallPercent         float64
	EPCMidPercent           float64
	EPCUtilityPercent       float64
	BatteryTariffPercent    float64
	GenerationTariffPercent float64
	CommissioningPercent    float64
	ContingencyPercent      float64
	OMPercent               float64

	// Financial assumptions.
	DiscountRate          float64
	ElectricityEscalation float64
	DegradationRateAnnual float64
	CyclesPerYear         float64
	AnalysisYears         float64
	TaxCreditRate         float64

	// Generation capacity factors.
	SolarCapacityFactor float64
	WindCapacityFactor  float64

	// Chemistry degradation coefficients (per cycle, per year, and the
	// calendar-aging sensitivity per 10 degC above the 25 degC baseline).
	LFPCyclingCoeff    float64
	LFPCalendarCoeff   float64
	LFPTempSensitivity float64
	NMCCyclingCoeff    float64
	NMCCalendarCoeff   float64
	NMCTempSensitivity float64
}

// Defaults returns the built-in calibration set. The core must behave
// identically whether constants come from the store or from here.
func Defaults() Constants {
	return Constants{
		BatterySmallRatePerKWh:   165,
		BatterySmallCapPerKWh:    150,
		BatteryUnitMWh:           5,
		BatteryUtilityRatePerKWh: 120,
		BatteryBulkRatePerKWh:    98,

		PCSSmallRatePerKW:     150,
		PCSUtilityRatePerKW:   95,
		TransformerRatePerMVA: 42000,

		SolarCommercialRatePerKW: 1050,
		SolarUtilityRatePerKW:    820,
		WindCommercialRatePerKW:  1400,
		WindUtilityRatePerKW:     1150,

		GeneratorDieselRatePerKW:     520,
		GeneratorNaturalGasRatePerKW: 710,
		GeneratorDualFuelRatePerKW:   810,
		FuelCellHydrogenRatePerKW:    3000,
		FuelCellNaturalGasRatePerKW:  2300,
		FuelCellSolidOxideRatePerKW:  2800,

		BOSPercent:              0.12,
		EPCSmallPercent:         0.20,
		EPCMidPercent:           0.15,
		EPCUtilityPercent:       0.10,
		BatteryTariffPercent:    0.1025,
		GenerationTariffPercent: 0.05,
		CommissioningPercent:    0.02,
		ContingencyPercent:      0.05,
		OMPercent:               0.025,

		DiscountRate:          0.06,
		ElectricityEscalation: 0.02,
		DegradationRateAnnual: 0.02,
		CyclesPerYear:         350,
		AnalysisYears:         20,
		TaxCreditRate:         0.30,

		SolarCapacityFactor: 0.24,
		WindCapacityFactor:  0.32,

		LFPCyclingCoeff:    2.8e-5,
		LFPCalendarCoeff:   0.010,
		LFPTempSensitivity: 0.25,
		NMCCyclingCoeff:    5.5e-5,
		NMCCalendarCoeff:   0.020,
		NMCTempSensitivity: 0.45,
	}
}

// fieldIndex maps store row names to the struct fields they override.
// Row names are the snake_case form used by the calc_constants table.
func (c *Constants) fieldIndex() map[string]*float64 {
	return map[string]*float64{
		"battery_small_rate_per_kwh":   &c.BatterySmallRatePerKWh,
		"battery_small_cap_per_kwh":    &c.BatterySmallCapPerKWh,
		"battery_unit_mwh":             &c.BatteryUnitMWh,
		"battery_utility_rate_per_kwh": &c.BatteryUtilityRatePerKWh,
		"battery_bulk_rate_per_kwh":    &c.BatteryBulkRatePerKWh,

		"pcs_small_rate_per_kw":    &c.PCSSmallRatePerKW,
		"pcs_utility_rate_per_kw":  &c.PCSUtilityRatePerKW,
		"transformer_rate_per_mva": &c.TransformerRatePerMVA,

		"solar_commercial_rate_per_kw": &c.SolarCommercialRatePerKW,
		"solar_utility_rate_per_kw":    &c.SolarUtilityRatePerKW,
		"wind_commercial_rate_per_kw":  &c.WindCommercialRatePerKW,
		"wind_utility_rate_per_kw":     &c.WindUtilityRatePerKW,

		"generator_diesel_rate_per_kw":      &c.GeneratorDieselRatePerKW,
		"generator_natural_gas_rate_per_kw": &c.GeneratorNaturalGasRatePerKW,
		"generator_dual_fuel_rate_per_kw":   &c.GeneratorDualFuelRatePerKW,
		"fuel_cell_hydrogen_rate_per_kw":    &c.FuelCellHydrogenRatePerKW,
		"fuel_cell_natural_gas_rate_per_kw": &c.FuelCellNaturalGasRatePerKW,
		"fuel_cell_solid_oxide_rate_per_kw": &c.FuelCellSolidOxideRatePerKW,

		"bos_percent":               &c.BOSPercent,
		"epc_small_percent":         &c.EPCSmallPercent,
		"epc_mid_percent":           &c.EPCMidPercent,
		"epc_utility_percent":       &c.EPCUtilityPercent,
		"battery_tariff_percent":    &c.BatteryTariffPercent,
		"generation_tariff_percent": &c.GenerationTariffPercent,
		"commissioning_percent":     &c.CommissioningPercent,
		"contingency_percent":       &c.ContingencyPercent,
		"om_percent":                &c.OMPercent,

		"discount_rate":           &c.DiscountRate,
		"electricity_escalation":  &c.ElectricityEscalation,
		"degradation_rate_annual": &c.DegradationRateAnnual,
		"cycles_per_year":         &c.CyclesPerYear,
		"analysis_years":          &c.AnalysisYears,
		"tax_credit_rate":         &c.TaxCreditRate,

		"solar_capacity_factor": &c.SolarCapacityFactor,
		"wind_capacity_factor":  &c.WindCapacityFactor,

		"lfp_cycling_coeff":    &c.LFPCyclingCoeff,
		"lfp_calendar_coeff":   &c.LFPCalendarCoeff,
		"lfp_temp_sensitivity": &c.LFPTempSensitivity,
		"nmc_cycling_coeff":    &c.NMCCyclingCoeff,
		"nmc_calendar_coeff":   &c.NMCCalendarCoeff,
		"nmc_temp_sensitivity": &c.NMCTempSensitivity,
	}
}

// Rows returns the store representation of c as name/value pairs, in no
// particular order. Used by the startup seed.
func (c Constants) Rows() map[string]float64 {
	rows := make(map[string]float64)
	for name, field := range c.fieldIndex() {
		rows[name] = *field
	}
	return rows
}

// regionalMultipliers adjusts installed costs for labor and permitting by
// region. Matched by case-insensitive substring against the quote location.
var regionalMultipliers = map[string]float64{
	"california":  1.15,
	"hawaii":      1.30,
	"alaska":      1.25,
	"new york":    1.12,
	"texas":       0.95,
	"puerto rico": 1.20,
}

// RegionalMultiplier returns the cost multiplier for a free-form location
// string, or 1.0 when no region matches.
func RegionalMultiplier(location string) float64 {
	loc := strings.ToLower(location)
	for region, mult := range regionalMultipliers {
		if strings.Contains(loc, region) {
			return mult
		}
	}
	return 1.0
}
