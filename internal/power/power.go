// Package power estimates facility peak demand and annual energy from the
// configurator's facility answers, routed by use-case slug through a model
// registry.
package power

import (
	"fmt"
	"sort"
)

// Estimate is the sizing output of a facility model.
type Estimate struct {
	PeakKW               float64 `json:"peakKW"`
	AnnualKWh            float64 `json:"annualKWh"`
	RecommendedBESSKW    float64 `json:"bessRecommendedKW"`
	RecommendedBESSHours float64 `json:"bessRecommendedHours"`
	LoadFactor           float64 `json:"loadFactor"`
}

// FacilityData carries the wizard answers for one facility. Values are the
// decoded JSON types: float64 for numbers, string for selects, []any for
// multi-selects.
type FacilityData map[string]any

// Model converts facility answers to a sizing estimate. Models must be
// monotonic in their primary driver and strictly positive for any valid
// facility description.
type Model func(FacilityData) Estimate

// Registry routes use-case slugs to sizing models.
type Registry struct {
	models map[string]Model
}

// New builds the registry with all supported facility models and validates
// it, so an unknown or colliding slug fails at startup rather than at quote
// time.
func New() (*Registry, error) {
	r := &Registry{models: make(map[string]Model)}

	register := func(slug string, m Model) error {
		if _, dup := r.models[slug]; dup {
			return fmt.Errorf("duplicate use case model %q", slug)
		}
		if m == nil {
			return fmt.Errorf("nil model for use case %q", slug)
		}
		r.models[slug] = m
		return nil
	}

	for slug, m := range map[string]Model{
		"hotel":           hotelModel,
		"car-wash":        carWashModel,
		"ev-charging-hub": evChargingHubModel,
		"hospital":        hospitalModel,
		"data-center":     dataCenterModel,
		"manufacturing":   manufacturingModel,
		"grocery-store":   groceryStoreModel,
		"office":          officeModel,
	} {
		if err := register(slug, m); err != nil {
			return nil, err
		}
	}

	if len(r.models) == 0 {
		return nil, fmt.Errorf("no use case models registered")
	}
	return r, nil
}

// Estimate runs the model for useCase. Unknown slugs are an error naming the
// supported set.
func (r *Registry) Estimate(useCase string, data FacilityData) (Estimate, error) {
	model, ok := r.models[useCase]
	if !ok {
		return Estimate{}, fmt.Errorf("unsupported use case %q (supported: %v)", useCase, r.UseCases())
	}

	est := model(data)

	// Universal overrides shared by every template: a known peak load from
	// the utility bill wins over the modeled value.
	if override := numField(data, "peakLoad", 0); override > 0 {
		est.PeakKW = override * 1000
		est.AnnualKWh = est.PeakKW * est.LoadFactor * hoursPerYear(data, 12)
		est.RecommendedBESSKW = est.PeakKW * 0.5
	}

	if est.PeakKW < 1 {
		est.PeakKW = 1
	}
	if est.AnnualKWh <= 0 {
		est.AnnualKWh = est.PeakKW * est.LoadFactor * 8760
	}
	return est, nil
}

// UseCases lists the registered slugs in sorted order.
func (r *Registry) UseCases() []string {
	slugs := make([]string, 0, len(r.models))
	for slug := range r.models {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

func hoursPerYear(data FacilityData, defaultDaily float64) float64 {
	daily := numField(data, "operatingHours", defaultDaily)
	if daily <= 0 {
		daily = defaultDaily
	}
	if daily > 24 {
		daily = 24
	}
	return daily * 365
}

// numField reads a numeric answer, tolerating the int/float ambiguity of
// decoded JSON, and falls back to def for missing or negative values.
func numField(data FacilityData, key string, def float64) float64 {
	v, ok := data[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return def
		}
		return n
	case int:
		if n < 0 {
			return def
		}
		return float64(n)
	default:
		return def
	}
}

func strField(data FacilityData, key, def string) string {
	if v, ok := data[key].(string); ok && v != "" {
		return v
	}
	return def
}

func hasAmenity(data FacilityData, name string) bool {
	list, ok := data["amenities"].([]any)
	if !ok {
		return false
	}
	for _, v := range list {
		if s, ok := v.(string); ok && s == name {
			return true
		}
	}
	return false
}
