// Package finance computes the discounted cash-flow metrics of a quote:
// year-by-year schedule, NPV, IRR, payback, LCOE and ROI.
package finance

import "math"

const (
	defaultDiscountRate  = 0.06
	defaultAnalysisYears = 20

	irrInitialGuess  = 0.10
	irrTolerance     = 1e-4
	irrMaxIterations = 100
)

// Input holds the cash-flow assumptions. Zero DiscountRate and AnalysisYears
// fall back to the standard 6% over 20 years.
type Input struct {
	CapitalCost           float64 `json:"capitalCost"`
	AnnualSavings         float64 `json:"annualSavings"`
	AnnualOM              float64 `json:"omCostAnnual"`
	DiscountRate          float64 `json:"discountRate,omitempty"`
	AnalysisYears         int     `json:"analysisYears,omitempty"`
	DegradationRate       float64 `json:"degradationRate,omitempty"`
	ElectricityEscalation float64 `json:"electricityEscalation,omitempty"`

	// AnnualEnergyKWh is the first-year energy delivered or offset, used for
	// LCOE. Zero disables the LCOE output.
	AnnualEnergyKWh float64 `json:"annualEnergyKWh,omitempty"`
}

// YearCashFlow is one row of the schedule.
type YearCashFlow struct {
	Year       int     `json:"year"`
	CashFlow   float64 `json:"cashFlow"`
	Cumulative float64 `json:"cumulativeCashFlow"`
	Discounted float64 `json:"discountedCashFlow"`
}

// Result holds the computed metrics. PaybackAchieved reports whether the
// cumulative cash flow crossed zero within the analysis window; when it did
// not, PaybackYears is zero rather than a magic sentinel.
type Result struct {
	PaybackYears    float64        `json:"paybackYears"`
	PaybackAchieved bool           `json:"paybackAchieved"`
	AnnualSavings   float64        `json:"annualSavings"`
	NPV             float64        `json:"npv"`
	IRR             float64        `json:"irr"`
	IRRConverged    bool           `json:"irrConverged"`
	LCOE            float64        `json:"lcoe,omitempty"`
	ROIPercent      float64        `json:"roiPercent"`
	CashFlow        []YearCashFlow `json:"yearByYearCashFlow"`

	// EndOfLifeCapacityPct is filled by the orchestrator from the
	// degradation sub-model; Compute leaves it zero.
	EndOfLifeCapacityPct float64 `json:"endOfLifeCapacityPct,omitempty"`
}

// Compute builds the degradation- and escalation-adjusted cash-flow schedule
// and derives the financial metrics from it. All outputs are finite.
func Compute(in Input) Result {
	discountRate := in.DiscountRate
	if discountRate == 0 {
		discountRate = defaultDiscountRate
	}
	years := in.AnalysisYears
	if years <= 0 {
		years = defaultAnalysisYears
	}

	flows := make([]float64, years+1)
	flows[0] = -in.CapitalCost

	res := Result{
		AnnualSavings: in.AnnualSavings,
		CashFlow:      make([]YearCashFlow, 0, years),
	}

	npv := -in.CapitalCost
	cumulative := -in.CapitalCost
	lifetimeKWh := 0.0

	for year := 1; year <= years; year++ {
		retained := math.Pow(1-in.DegradationRate, float64(year))
		escalated := math.Pow(1+in.ElectricityEscalation, float64(year))
		net := in.AnnualSavings*retained*escalated - in.AnnualOM

		prev := cumulative
		cumulative += net
		discounted := net / math.Pow(1+discountRate, float64(year))
		npv += discounted
		flows[year] = net
		lifetimeKWh += in.AnnualEnergyKWh * retained

		res.CashFlow = append(res.CashFlow, YearCashFlow{
			Year:       year,
			CashFlow:   cents(net),
			Cumulative: cents(cumulative),
			Discounted: cents(discounted),
		})

		// First year the cumulative flow turns non-negative, interpolated
		// within the year.
		if !res.PaybackAchieved && prev < 0 && cumulative >= 0 && net > 0 {
			res.PaybackAchieved = true
			res.PaybackYears = float64(year-1) + (-prev)/net
		}
	}

	res.NPV = cents(npv)
	res.IRR, res.IRRConverged = irr(flows)

	if in.CapitalCost > 0 {
		res.ROIPercent = cumulative / in.CapitalCost * 100
	}
	if lifetimeKWh > 0 {
		res.LCOE = (in.CapitalCost + in.AnnualOM*float64(years)) / lifetimeKWh
	}

	return sanitize(res)
}

// irr solves for the internal rate of return of the flow series (index =
// year) with Newton-Raphson. On non-convergence it returns the best
// available iterate and false rather than failing.
func irr(flows []float64) (float64, bool) {
	rate := irrInitialGuess
	for i := 0; i < irrMaxIterations; i++ {
		var f, fp float64
		for year, flow := range flows {
			y := float64(year)
			denom := math.Pow(1+rate, y)
			f += flow / denom
			fp -= y * flow / (denom * (1 + rate))
		}
		if math.Abs(f) < irrTolerance {
			return rate, true
		}
		if fp == 0 || math.IsNaN(fp) || math.IsInf(fp, 0) {
			return rate, false
		}
		next := rate - f/fp
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return rate, false
		}
		// Keep the iterate in the domain of (1+r)^y.
		if next <= -1 {
			next = -0.999
		}
		if math.Abs(next-rate) < irrTolerance {
			return next, true
		}
		rate = next
	}
	return rate, false
}

// sanitize replaces any non-finite metric with zero so the result is always
// serializable.
func sanitize(r Result) Result {
	fix := func(v *float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
		}
	}
	fix(&r.PaybackYears)
	fix(&r.NPV)
	fix(&r.IRR)
	fix(&r.LCOE)
	fix(&r.ROIPercent)
	return r
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}
