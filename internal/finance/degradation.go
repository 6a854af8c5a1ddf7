package finance

import "math"

// Chemistry identifies the battery cell chemistry of the degradation model.
type Chemistry string

const (
	ChemistryLFP Chemistry = "lfp"
	ChemistryNMC Chemistry = "nmc"
)

// ChemistryParams are the degradation coefficients of one chemistry.
type ChemistryParams struct {
	// CyclingCoeff is capacity lost per equivalent full cycle at 100% DoD.
	CyclingCoeff float64
	// CalendarCoeff is capacity lost per year at the 25 degC baseline.
	CalendarCoeff float64
	// TempSensitivity scales calendar aging per 10 degC above baseline.
	TempSensitivity float64
}

// Default coefficient sets. NMC degrades faster and is more temperature
// sensitive than LFP.
var (
	DefaultLFP = ChemistryParams{CyclingCoeff: 2.8e-5, CalendarCoeff: 0.010, TempSensitivity: 0.25}
	DefaultNMC = ChemistryParams{CyclingCoeff: 5.5e-5, CalendarCoeff: 0.020, TempSensitivity: 0.45}
)

// DegradationInput describes the duty cycle evaluated by CapacityRetention.
type DegradationInput struct {
	Chemistry        Chemistry
	EquivalentCycles float64
	DepthOfDischarge float64 // fraction (0, 1]; zero defaults to 0.85
	Years            float64
	AmbientTempC     float64 // zero defaults to the 25 degC baseline

	// Params overrides the chemistry defaults when non-nil.
	Params *ChemistryParams
}

// Calendar aging slows in cool climates, but not below half the baseline
// rate. The floor also keeps the NMC-degrades-faster ordering intact at low
// temperatures.
const minTempFactor = 0.5

// CapacityRetention returns the retained capacity fraction in (0, 1] after
// the given duty cycle. Cycling and calendar fade are composed
// multiplicatively: retention = (1 - cycling) * (1 - calendar).
func CapacityRetention(in DegradationInput) float64 {
	p := in.Params
	if p == nil {
		switch in.Chemistry {
		case ChemistryNMC:
			p = &DefaultNMC
		default:
			p = &DefaultLFP
		}
	}

	dod := in.DepthOfDischarge
	if dod <= 0 {
		dod = 0.85
	}
	if dod > 1 {
		dod = 1
	}

	temp := in.AmbientTempC
	if temp == 0 {
		temp = 25
	}
	tempFactor := 1 + p.TempSensitivity*(temp-25)/10
	if tempFactor < minTempFactor {
		tempFactor = minTempFactor
	}

	cycling := in.EquivalentCycles * math.Pow(dod, 1.2) * p.CyclingCoeff
	calendar := in.Years * p.CalendarCoeff * tempFactor

	cycling = clampFade(cycling)
	calendar = clampFade(calendar)

	retention := (1 - cycling) * (1 - calendar)
	if retention <= 0 {
		return 1e-3
	}
	if retention > 1 {
		return 1
	}
	return retention
}

func clampFade(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 0.999 {
		return 0.999
	}
	return f
}
