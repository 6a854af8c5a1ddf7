package quote

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/gridform/quotecore/internal/constants"
	"github.com/gridform/quotecore/internal/finance"
	"github.com/gridform/quotecore/internal/power"
	"github.com/gridform/quotecore/internal/pricing"
)

// cleanupProbability bounds the amortized cache maintenance cost without a
// background sweeper: roughly one cleanup per ten orchestrated calls.
const cleanupProbability = 0.10

// ConstantsProvider supplies the calibration set. Implementations must stay
// usable on failure: the returned Constants is consumed even when err is
// non-nil.
type ConstantsProvider interface {
	Constants(ctx context.Context) (constants.Constants, error)
}

// Service is the single orchestrated entry point for quote generation. It is
// constructed once per process with its cache and constants source injected,
// so tests get isolated instances instead of shared module state.
type Service struct {
	provider ConstantsProvider
	cache    *Cache
	registry *power.Registry
	logger   *slog.Logger

	now       func() time.Time
	randFloat func() float64
}

// NewService wires the orchestrator. A nil cache gets the default sizing and
// a nil logger falls back to slog.Default. Registry construction validates
// the use-case models and fails fast on a bad set.
func NewService(provider ConstantsProvider, cache *Cache, logger *slog.Logger) (*Service, error) {
	registry, err := power.New()
	if err != nil {
		return nil, fmt.Errorf("build use case registry: %w", err)
	}
	if cache == nil {
		cache = NewCache(0, 0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider:  provider,
		cache:     cache,
		registry:  registry,
		logger:    logger,
		now:       time.Now,
		randFloat: rand.Float64,
	}, nil
}

// Cache exposes the service's cache, mainly for metrics collection.
func (s *Service) Cache() *Cache {
	return s.cache
}

// UseCases lists the supported facility slugs.
func (s *Service) UseCases() []string {
	return s.registry.UseCases()
}

// GenerateQuote runs the full sequence: validate, cache lookup, power sizing,
// equipment pricing, financial metrics, cache store. Blocking validation
// failures return a *ValidationError joining every message; everything else
// degrades to a best-effort numeric answer.
func (s *Service) GenerateQuote(ctx context.Context, in Input, opts Options) (Result, error) {
	var warnings []string
	if !opts.SkipValidation {
		vr := Validate(in)
		if !vr.Valid {
			return Result{}, &ValidationError{Errors: vr.Errors}
		}
		warnings = vr.Warnings
	}

	key := Key(in)
	if !opts.SkipCache {
		if cached, ok := s.cache.Get(key); ok {
			cached.Metadata.QuoteID = uuid.NewString()
			cached.Metadata.CacheHit = true
			cached.Metadata.GeneratedAt = s.now()
			return cached, nil
		}
	}

	result, err := s.compute(ctx, in)
	if err != nil {
		return Result{}, err
	}
	result.Warnings = warnings

	if !opts.SkipCache {
		s.cache.Set(key, result)
		if s.randFloat() < cleanupProbability {
			s.cache.Cleanup()
		}
	}
	return result, nil
}

// PriceEquipment prices equipment without running the full sequence. Prefer
// GenerateQuote: standalone pricing can pair stale equipment numbers with
// separately computed financials.
func (s *Service) PriceEquipment(ctx context.Context, in Input) (pricing.Breakdown, error) {
	s.logger.Warn("direct equipment pricing bypasses quote orchestration, prefer GenerateQuote")
	return pricing.Price(pricingInput(in), s.constants(ctx))
}

// ComputeFinancials computes financial metrics without running the full
// sequence. Prefer GenerateQuote for consistent equipment/financial pairing.
func (s *Service) ComputeFinancials(ctx context.Context, in finance.Input) finance.Result {
	s.logger.Warn("direct financial metrics bypass quote orchestration, prefer GenerateQuote")
	return finance.Compute(in)
}

// EstimatePower sizes a facility without running the full sequence. Prefer
// GenerateQuote for a sized and priced system.
func (s *Service) EstimatePower(useCase string, data power.FacilityData) (power.Estimate, error) {
	s.logger.Warn("direct power estimation bypasses quote orchestration, prefer GenerateQuote")
	return s.registry.Estimate(useCase, data)
}

func (s *Service) compute(ctx context.Context, in Input) (Result, error) {
	cons := s.constants(ctx)

	grid := in.GridConnection
	if grid == "" {
		grid = GridOnGrid
	}

	var powerEst *power.Estimate
	if in.UseCase != "" {
		est, err := s.registry.Estimate(in.UseCase, in.FacilityData)
		if err != nil {
			return Result{}, err
		}
		powerEst = &est
	}

	breakdown, err := pricing.Price(pricingInput(in), cons)
	if err != nil {
		return Result{}, fmt.Errorf("price equipment: %w", err)
	}

	savings, throughputKWh := s.annualSavings(in, grid, cons)
	netCapex := breakdown.Totals.TotalProjectCost * (1 - cons.TaxCreditRate)

	fin := finance.Compute(finance.Input{
		CapitalCost:           netCapex,
		AnnualSavings:         savings,
		AnnualOM:              breakdown.Totals.AnnualOpex,
		DiscountRate:          cons.DiscountRate,
		AnalysisYears:         int(cons.AnalysisYears),
		DegradationRate:       cons.DegradationRateAnnual,
		ElectricityEscalation: cons.ElectricityEscalation,
		AnnualEnergyKWh:       throughputKWh,
	})

	lfp := finance.ChemistryParams{
		CyclingCoeff:    cons.LFPCyclingCoeff,
		CalendarCoeff:   cons.LFPCalendarCoeff,
		TempSensitivity: cons.LFPTempSensitivity,
	}
	years := cons.AnalysisYears
	fin.EndOfLifeCapacityPct = 100 * finance.CapacityRetention(finance.DegradationInput{
		Chemistry:        finance.ChemistryLFP,
		EquivalentCycles: cons.CyclesPerYear * years,
		DepthOfDischarge: 0.85,
		Years:            years,
		Params:           &lfp,
	})

	return Result{
		Power:      powerEst,
		Equipment:  breakdown,
		Costs:      breakdown.Totals,
		Financials: fin,
		Metadata: Metadata{
			QuoteID:       uuid.NewString(),
			EngineVersion: EngineVersion,
			CacheHit:      false,
			GeneratedAt:   s.now(),
		},
	}, nil
}

// annualSavings estimates first-year dollar savings and the battery energy
// throughput backing them. Storage arbitrage scales with how constrained or
// expensive the grid connection is; solar and wind offset at their capacity
// factors.
func (s *Service) annualSavings(in Input, grid string, cons constants.Constants) (dollars, throughputKWh float64) {
	rate := in.ElectricityRate

	factor := map[string]float64{
		GridOnGrid:     0.45,
		GridLimited:    0.60,
		GridExpensive:  0.70,
		GridUnreliable: 0.75,
		GridOffGrid:    0.90,
	}[grid]
	if factor == 0 {
		factor = 0.45
	}

	throughputKWh = in.StorageSizeMW * 1000 * in.DurationHours * cons.CyclesPerYear
	battery := throughputKWh * rate * factor
	solar := in.SolarMW * 1000 * 8760 * cons.SolarCapacityFactor * rate
	wind := in.WindMW * 1000 * 8760 * cons.WindCapacityFactor * rate

	return battery + solar + wind, throughputKWh
}

// constants resolves the calibration set, logging and continuing on store
// failure. The provider guarantees a usable fallback.
func (s *Service) constants(ctx context.Context) constants.Constants {
	cons, err := s.provider.Constants(ctx)
	if err != nil {
		s.logger.Warn("constants store unavailable, using fallback set", "error", err)
	}
	return cons
}

func pricingInput(in Input) pricing.Input {
	return pricing.Input{
		StorageSizeMW:     in.StorageSizeMW,
		DurationHours:     in.DurationHours,
		SolarMW:           in.SolarMW,
		WindMW:            in.WindMW,
		GeneratorMW:       in.GeneratorMW,
		FuelCellMW:        in.FuelCellMW,
		GeneratorFuelType: in.GeneratorFuelType,
		FuelCellType:      in.FuelCellType,
		Location:          in.Location,
	}
}
