package quote

import (
	"fmt"
	"slices"
	"strings"
)

const maxStorageSizeMW = 1000

// Validate checks a quote request for missing required fields, out-of-range
// values and inconsistent combinations. It is a pure function: blocking
// problems land in Errors, advisory ones in Warnings.
func Validate(in Input) ValidationResult {
	// Empty, not nil, so the lists serialize as [] rather than null.
	errs := []string{}
	warnings := []string{}

	// Required fields.
	switch {
	case in.StorageSizeMW == 0:
		errs = append(errs, "storageSizeMW is required")
	case in.StorageSizeMW < 0:
		errs = append(errs, "storageSizeMW must be greater than 0")
	case in.StorageSizeMW > maxStorageSizeMW:
		errs = append(errs, fmt.Sprintf("storageSizeMW must not exceed %d MW", maxStorageSizeMW))
	}
	switch {
	case in.DurationHours == 0:
		errs = append(errs, "durationHours is required")
	case in.DurationHours < 0:
		errs = append(errs, "durationHours must be greater than 0")
	case in.DurationHours > 24:
		errs = append(errs, "durationHours must not exceed 24 hours")
	}

	// Range checks.
	if in.ElectricityRate < 0 {
		errs = append(errs, "electricityRate must not be negative")
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"solarMW", in.SolarMW},
		{"windMW", in.WindMW},
		{"generatorMW", in.GeneratorMW},
		{"fuelCellMW", in.FuelCellMW},
	} {
		if f.value < 0 {
			errs = append(errs, f.name+" must not be negative")
		}
	}

	// Enumerations. Empty means "not set" and is handled by defaults.
	if in.GridConnection != "" && !slices.Contains(gridConnections, in.GridConnection) {
		errs = append(errs, enumError("gridConnection", gridConnections))
	}
	if in.GeneratorFuelType != "" && !slices.Contains(generatorFuels, in.GeneratorFuelType) {
		errs = append(errs, enumError("generatorFuelType", generatorFuels))
	}
	if in.FuelCellType != "" && !slices.Contains(fuelCellTypes, in.FuelCellType) {
		errs = append(errs, enumError("fuelCellType", fuelCellTypes))
	}

	// Advisory warnings, only meaningful on otherwise usable sizings.
	if in.DurationHours > 0 && (in.DurationHours < 1 || in.DurationHours > 12) && in.DurationHours <= 24 {
		warnings = append(warnings, "durationHours outside the typical 1-12 hour range")
	}
	if in.StorageSizeMW > 0 && in.StorageSizeMW < 0.01 {
		warnings = append(warnings, "storageSizeMW is very small (under 0.01 MW)")
	}
	if in.StorageSizeMW > 100 && in.StorageSizeMW <= maxStorageSizeMW {
		warnings = append(warnings, "storageSizeMW is utility-scale (over 100 MW), verify inputs")
	}
	if in.ElectricityRate > 0.50 {
		warnings = append(warnings, "electricityRate is unusually high (over $0.50/kWh)")
	}
	if in.ElectricityRate > 0 && in.ElectricityRate < 0.05 {
		warnings = append(warnings, "electricityRate is unusually low (under $0.05/kWh)")
	}
	if in.StorageSizeMW > 0 {
		if in.SolarMW > 3*in.StorageSizeMW {
			warnings = append(warnings, "solarMW is large relative to storage (over 3x)")
		}
		if in.GeneratorMW > 2*in.StorageSizeMW {
			warnings = append(warnings, "generatorMW is large relative to storage (over 2x)")
		}
	}
	if in.GridConnection == GridOffGrid &&
		in.SolarMW <= 0 && in.WindMW <= 0 && in.GeneratorMW <= 0 && in.FuelCellMW <= 0 {
		warnings = append(warnings, "off-grid connection has no generation source")
	}

	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

func enumError(field string, allowed []string) string {
	return fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", "))
}
