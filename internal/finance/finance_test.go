package finance

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Fatalf("%s = %v, want %v (tolerance %v)", name, got, want, tolerance)
	}
}

func TestCompute_PaybackMatchesSimpleRatio(t *testing.T) {
	// Constant net savings, no degradation or escalation: payback is
	// capital / net savings.
	res := Compute(Input{
		CapitalCost:   100000,
		AnnualSavings: 30000,
		AnnualOM:      5000,
	})

	if !res.PaybackAchieved {
		t.Fatal("expected payback to be achieved")
	}
	nearlyEqual(t, "paybackYears", res.PaybackYears, 4.0, 0.01)
}

func TestCompute_PaybackInterpolatesWithinYear(t *testing.T) {
	res := Compute(Input{
		CapitalCost:   100000,
		AnnualSavings: 40000,
	})

	// 100000 / 40000 = 2.5 years.
	nearlyEqual(t, "paybackYears", res.PaybackYears, 2.5, 0.01)
}

func TestCompute_NoPaybackWhenNetSavingsNonPositive(t *testing.T) {
	res := Compute(Input{
		CapitalCost:   100000,
		AnnualSavings: 5000,
		AnnualOM:      8000,
	})

	if res.PaybackAchieved {
		t.Fatalf("expected no payback, got %v years", res.PaybackYears)
	}
	if res.PaybackYears != 0 {
		t.Fatalf("paybackYears = %v, want 0 for no payback", res.PaybackYears)
	}
	if res.NPV >= 0 {
		t.Fatalf("NPV = %v, want negative for a money-losing project", res.NPV)
	}
}

func TestCompute_CumulativeMonotoneOncePositive(t *testing.T) {
	res := Compute(Input{
		CapitalCost:           50000,
		AnnualSavings:         12000,
		AnnualOM:              2000,
		DegradationRate:       0.02,
		ElectricityEscalation: 0.02,
	})

	prev := math.Inf(-1)
	for _, row := range res.CashFlow {
		if row.CashFlow > 0 && row.Cumulative < prev {
			t.Fatalf("cumulative cash flow decreased at year %d: %v -> %v", row.Year, prev, row.Cumulative)
		}
		prev = row.Cumulative
	}
	if len(res.CashFlow) != 20 {
		t.Fatalf("expected 20 schedule rows, got %d", len(res.CashFlow))
	}
}

func TestCompute_IRRZeroesTheNPV(t *testing.T) {
	in := Input{
		CapitalCost:   80000,
		AnnualSavings: 15000,
		AnnualOM:      1000,
	}
	res := Compute(in)

	if !res.IRRConverged {
		t.Fatalf("expected IRR convergence, got %v", res.IRR)
	}

	// Re-discount the flows at the reported IRR; the result should be near
	// zero.
	npv := -in.CapitalCost
	for year := 1; year <= 20; year++ {
		npv += (in.AnnualSavings - in.AnnualOM) / math.Pow(1+res.IRR, float64(year))
	}
	nearlyEqual(t, "NPV at IRR", npv, 0, 50)
}

func TestCompute_IRRNonConvergenceReturnsBestEstimate(t *testing.T) {
	// All-negative flows have no root; the solver must cap out and return
	// its last iterate instead of failing.
	res := Compute(Input{
		CapitalCost:   100000,
		AnnualSavings: 0,
		AnnualOM:      1000,
	})

	if res.IRRConverged {
		t.Fatal("expected IRR non-convergence for all-negative flows")
	}
	if math.IsNaN(res.IRR) || math.IsInf(res.IRR, 0) {
		t.Fatalf("IRR = %v, want finite", res.IRR)
	}
}

func TestCompute_AllOutputsFinite(t *testing.T) {
	for _, in := range []Input{
		{},
		{CapitalCost: 1e12, AnnualSavings: 1},
		{CapitalCost: 100, AnnualSavings: 1e9, AnnualOM: 1e9},
		{CapitalCost: 50000, AnnualSavings: 9000, DegradationRate: 0.5, ElectricityEscalation: 0.3},
	} {
		res := Compute(in)
		for name, v := range map[string]float64{
			"paybackYears": res.PaybackYears,
			"npv":          res.NPV,
			"irr":          res.IRR,
			"lcoe":         res.LCOE,
			"roiPercent":   res.ROIPercent,
		} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%+v: %s = %v, want finite", in, name, v)
			}
		}
	}
}

func TestCompute_LCOEOnlyWithEnergy(t *testing.T) {
	without := Compute(Input{CapitalCost: 1000, AnnualSavings: 300})
	if without.LCOE != 0 {
		t.Fatalf("LCOE = %v without energy input, want 0", without.LCOE)
	}

	with := Compute(Input{CapitalCost: 100000, AnnualSavings: 30000, AnnualEnergyKWh: 500000})
	if with.LCOE <= 0 {
		t.Fatalf("LCOE = %v, want > 0", with.LCOE)
	}
}

func TestCapacityRetention_Bounds(t *testing.T) {
	for _, in := range []DegradationInput{
		{Chemistry: ChemistryLFP},
		{Chemistry: ChemistryLFP, EquivalentCycles: 3500, DepthOfDischarge: 0.9, Years: 10, AmbientTempC: 35},
		{Chemistry: ChemistryNMC, EquivalentCycles: 20000, DepthOfDischarge: 1, Years: 40, AmbientTempC: 45},
		{Chemistry: ChemistryNMC, EquivalentCycles: 100, DepthOfDischarge: 0.2, Years: 1, AmbientTempC: 5},
	} {
		retention := CapacityRetention(in)
		if retention <= 0 || retention > 1 {
			t.Fatalf("%+v: retention = %v, want (0, 1]", in, retention)
		}
	}
}

func TestCapacityRetention_NMCDegradesAtLeastAsFastAsLFP(t *testing.T) {
	for _, temp := range []float64{5, 15, 25, 35, 45} {
		for _, cycles := range []float64{0, 1000, 5000} {
			lfp := CapacityRetention(DegradationInput{
				Chemistry: ChemistryLFP, EquivalentCycles: cycles, DepthOfDischarge: 0.85, Years: 10, AmbientTempC: temp,
			})
			nmc := CapacityRetention(DegradationInput{
				Chemistry: ChemistryNMC, EquivalentCycles: cycles, DepthOfDischarge: 0.85, Years: 10, AmbientTempC: temp,
			})
			if nmc > lfp {
				t.Fatalf("temp=%v cycles=%v: NMC retention %v > LFP retention %v", temp, cycles, nmc, lfp)
			}
		}
	}
}

func TestCapacityRetention_MoreStressMeansLessRetention(t *testing.T) {
	base := DegradationInput{Chemistry: ChemistryLFP, EquivalentCycles: 2000, DepthOfDischarge: 0.6, Years: 5, AmbientTempC: 25}
	baseline := CapacityRetention(base)

	deeper := base
	deeper.DepthOfDischarge = 0.95
	if CapacityRetention(deeper) >= baseline {
		t.Fatal("deeper discharge should reduce retention")
	}

	hotter := base
	hotter.AmbientTempC = 40
	if CapacityRetention(hotter) >= baseline {
		t.Fatal("hotter ambient should reduce retention")
	}

	older := base
	older.Years = 15
	if CapacityRetention(older) >= baseline {
		t.Fatal("more calendar years should reduce retention")
	}
}
