// Package pricing computes the equipment cost breakdown for a hybrid energy
// system: tiered battery pricing, generation assets by nameplate capacity,
// and the installation/EPC/BOS/tariff overheads on top.
package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/gridform/quotecore/internal/constants"
)

// Input represents the sizing parameters priced by Price.
type Input struct {
	StorageSizeMW float64
	DurationHours float64
	SolarMW       float64
	WindMW        float64
	GeneratorMW   float64
	FuelCellMW    float64

	GeneratorFuelType string
	FuelCellType      string
	Location          string
}

// LineItem is one priced equipment category.
type LineItem struct {
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitCost  float64 `json:"unitCost"`
	TotalCost float64 `json:"totalCost"`

	Chemistry     string  `json:"chemistry,omitempty"`
	FuelType      string  `json:"fuelType,omitempty"`
	EfficiencyPct float64 `json:"efficiencyPct,omitempty"`
}

// Totals contains the roll-up values of the breakdown.
type Totals struct {
	EquipmentCost     float64 `json:"equipmentCost"`
	InstallationCost  float64 `json:"installationCost"`
	CommissioningCost float64 `json:"commissioningCost"`
	ImportTariffs     float64 `json:"importTariffs"`
	TotalCapex        float64 `json:"totalCapex"`
	ContingencyCost   float64 `json:"contingencyCost"`
	TotalProjectCost  float64 `json:"totalProjectCost"`
	AnnualOpex        float64 `json:"annualOpex"`
}

// Breakdown groups the priced categories. Categories that were not requested
// are nil, so callers can tell "not requested" apart from "free".
type Breakdown struct {
	Batteries    *LineItem `json:"batteries,omitempty"`
	Inverters    *LineItem `json:"inverters,omitempty"`
	Transformers *LineItem `json:"transformers,omitempty"`
	Solar        *LineItem `json:"solar,omitempty"`
	Wind         *LineItem `json:"wind,omitempty"`
	Generators   *LineItem `json:"generators,omitempty"`
	FuelCells    *LineItem `json:"fuelCells,omitempty"`

	Totals Totals `json:"totals"`
}

// Generator and fuel cell electrical efficiencies reported as line metadata.
var generatorEfficiency = map[string]float64{
	"diesel":      38,
	"natural-gas": 35,
	"dual-fuel":   36,
}

var fuelCellEfficiency = map[string]float64{
	"hydrogen":       55,
	"natural-gas-fc": 47,
	"solid-oxide":    60,
}

// Price computes the equipment breakdown for the given sizing at the given
// calibration constants. Inputs are assumed validated; it still rejects a
// non-positive battery sizing since nothing downstream is meaningful without
// one.
func Price(in Input, c constants.Constants) (Breakdown, error) {
	if in.StorageSizeMW <= 0 {
		return Breakdown{}, fmt.Errorf("storage size must be greater than 0, got %v MW", in.StorageSizeMW)
	}
	if in.DurationHours <= 0 {
		return Breakdown{}, fmt.Errorf("duration must be greater than 0, got %v hours", in.DurationHours)
	}

	regional := constants.RegionalMultiplier(in.Location)
	b := Breakdown{}

	b.Batteries = priceBattery(in.StorageSizeMW, in.DurationHours, regional, c)
	b.Inverters = pricePCS(in.StorageSizeMW, regional, c)
	b.Transformers = priceTransformer(in.StorageSizeMW, regional, c)

	if in.SolarMW > 0 {
		rate := c.SolarCommercialRatePerKW
		if in.SolarMW >= 5 {
			rate = c.SolarUtilityRatePerKW
		}
		b.Solar = capacityItem(in.SolarMW, rate*regional)
	}
	if in.WindMW > 0 {
		rate := c.WindCommercialRatePerKW
		if in.WindMW >= 10 {
			rate = c.WindUtilityRatePerKW
		}
		b.Wind = capacityItem(in.WindMW, rate*regional)
	}
	if in.GeneratorMW > 0 {
		fuel := in.GeneratorFuelType
		if fuel == "" {
			fuel = "diesel"
		}
		var rate float64
		switch fuel {
		case "diesel":
			rate = c.GeneratorDieselRatePerKW
		case "natural-gas":
			rate = c.GeneratorNaturalGasRatePerKW
		case "dual-fuel":
			rate = c.GeneratorDualFuelRatePerKW
		default:
			return Breakdown{}, fmt.Errorf("unknown generator fuel type %q", fuel)
		}
		item := capacityItem(in.GeneratorMW, rate*regional)
		item.FuelType = fuel
		item.EfficiencyPct = generatorEfficiency[fuel]
		b.Generators = item
	}
	if in.FuelCellMW > 0 {
		fcType := in.FuelCellType
		if fcType == "" {
			fcType = "hydrogen"
		}
		var rate float64
		switch fcType {
		case "hydrogen":
			rate = c.FuelCellHydrogenRatePerKW
		case "natural-gas-fc":
			rate = c.FuelCellNaturalGasRatePerKW
		case "solid-oxide":
			rate = c.FuelCellSolidOxideRatePerKW
		default:
			return Breakdown{}, fmt.Errorf("unknown fuel cell type %q", fcType)
		}
		item := capacityItem(in.FuelCellMW, rate*regional)
		item.FuelType = fcType
		item.EfficiencyPct = fuelCellEfficiency[fcType]
		b.FuelCells = item
	}

	b.Totals = rollUp(&b, in, c)
	return b, nil
}

// priceBattery applies the tiered battery price curve. Under 1 MW the system
// prices per kWh against a capped unit rate; at or above 1 MW it prices per
// containerized unit, rounding the unit count up. Each tier's cost is floored
// at what the top of the tier below would pay, so a bigger system never
// costs less than a just-smaller one.
func priceBattery(storageMW, durationHours, regional float64, c constants.Constants) *LineItem {
	energyKWh := storageMW * 1000 * durationHours

	smallRate := c.BatterySmallRatePerKWh * regional
	if smallRate > c.BatterySmallCapPerKWh {
		smallRate = c.BatterySmallCapPerKWh
	}
	if storageMW < 1 {
		return &LineItem{
			Quantity:  energyKWh,
			Unit:      "kWh",
			UnitCost:  cents(smallRate),
			TotalCost: cents(energyKWh * smallRate),
			Chemistry: "lfp",
		}
	}

	unitKWh := c.BatteryUnitMWh * 1000
	ratePerKWh := c.BatteryUtilityRatePerKWh
	if storageMW >= 10 {
		ratePerKWh = c.BatteryBulkRatePerKWh
	}
	units := math.Ceil(energyKWh / unitKWh)
	total := units * unitKWh * ratePerKWh * regional

	if floor := 1000 * durationHours * smallRate; total < floor {
		total = floor
	}
	if storageMW >= 10 {
		boundaryUnits := math.Ceil(10 * 1000 * durationHours / unitKWh)
		if floor := boundaryUnits * unitKWh * c.BatteryUtilityRatePerKWh * regional; total < floor {
			total = floor
		}
	}

	return &LineItem{
		Quantity:  units,
		Unit:      "container",
		UnitCost:  cents(total / units),
		TotalCost: cents(total),
		Chemistry: "lfp",
	}
}

func pricePCS(storageMW, regional float64, c constants.Constants) *LineItem {
	kw := storageMW * 1000
	total := kw * c.PCSSmallRatePerKW
	if storageMW >= 1 {
		total = kw * c.PCSUtilityRatePerKW
		// A utility-scale PCS never prices under the top of the small tier.
		if floor := 1000 * c.PCSSmallRatePerKW; total < floor {
			total = floor
		}
	}
	total *= regional
	return &LineItem{
		Quantity:      kw,
		Unit:          "kW",
		UnitCost:      cents(total / kw),
		TotalCost:     cents(total),
		EfficiencyPct: 97.5,
	}
}

func priceTransformer(storageMW, regional float64, c constants.Constants) *LineItem {
	// Interconnection transformer sized with 10% headroom over the PCS rating.
	mva := storageMW * 1.1
	return &LineItem{
		Quantity:  mva,
		Unit:      "MVA",
		UnitCost:  cents(c.TransformerRatePerMVA * regional),
		TotalCost: cents(mva * c.TransformerRatePerMVA * regional),
	}
}

func capacityItem(capacityMW, ratePerKW float64) *LineItem {
	kw := capacityMW * 1000
	return &LineItem{
		Quantity:  kw,
		Unit:      "kW",
		UnitCost:  cents(ratePerKW),
		TotalCost: cents(kw * ratePerKW),
	}
}

func rollUp(b *Breakdown, in Input, c constants.Constants) Totals {
	itemTotal := func(item *LineItem) float64 {
		if item == nil {
			return 0
		}
		return item.TotalCost
	}

	batterySide := itemTotal(b.Batteries) + itemTotal(b.Inverters)
	generationSide := itemTotal(b.Solar) + itemTotal(b.Wind) + itemTotal(b.Generators) + itemTotal(b.FuelCells)
	equipment := batterySide + itemTotal(b.Transformers) + generationSide

	bos := batterySide * c.BOSPercent
	epc := (equipment + bos) * epcPercent(in.StorageSizeMW, c)
	if floor := epcFloor(in, c); epc < floor {
		epc = floor
	}
	installation := bos + epc

	commissioning := equipment * c.CommissioningPercent
	tariffs := batterySide*c.BatteryTariffPercent + generationSide*c.GenerationTariffPercent

	capex := equipment + installation + commissioning + tariffs
	contingency := capex * c.ContingencyPercent

	return Totals{
		EquipmentCost:     cents(equipment),
		InstallationCost:  cents(installation),
		CommissioningCost: cents(commissioning),
		ImportTariffs:     cents(tariffs),
		TotalCapex:        cents(capex),
		ContingencyCost:   cents(contingency),
		TotalProjectCost:  cents(capex + contingency),
		AnnualOpex:        cents(capex * c.OMPercent),
	}
}

// epcFloor returns the EPC dollars the same request would carry when priced
// just under the nearest scale tier boundary. The stepped EPC percentage
// would otherwise let a slightly bigger system undercut a slightly smaller
// one at the 1 MW and 10 MW crossings.
func epcFloor(in Input, c constants.Constants) float64 {
	var boundary float64
	switch {
	case in.StorageSizeMW >= 10:
		boundary = 10
	case in.StorageSizeMW >= 1:
		boundary = 1
	default:
		return 0
	}

	below := in
	below.StorageSizeMW = math.Nextafter(boundary, 0)
	fb, err := Price(below, c)
	if err != nil {
		return 0
	}
	bos := (fb.Batteries.TotalCost + fb.Inverters.TotalCost) * c.BOSPercent
	return fb.Totals.InstallationCost - bos
}

// epcPercent decreases with project scale.
func epcPercent(storageMW float64, c constants.Constants) float64 {
	switch {
	case storageMW >= 10:
		return c.EPCUtilityPercent
	case storageMW >= 1:
		return c.EPCMidPercent
	default:
		return c.EPCSmallPercent
	}
}

// cents rounds a dollar amount to whole cents.
func cents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
