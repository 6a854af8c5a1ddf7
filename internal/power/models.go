package power

// Facility sizing models. Calibration is W-per-unit style: each model scales
// its primary driver by a class-dependent rate and adds amenity loads.

func hotelModel(data FacilityData) Estimate {
	rooms := numField(data, "rooms", 120)

	wattsPerRoom := map[string]float64{
		"luxury":   1800,
		"upscale":  1400,
		"midscale": 1100,
		"economy":  800,
	}
	watts, ok := wattsPerRoom[strField(data, "hotelClass", "midscale")]
	if !ok {
		watts = wattsPerRoom["midscale"]
	}

	peak := rooms * watts / 1000
	if hasAmenity(data, "pool") {
		peak += 40
	}
	if hasAmenity(data, "restaurant") {
		peak += 60
	}
	if hasAmenity(data, "spa") {
		peak += 30
	}
	if hasAmenity(data, "laundry") {
		peak += 25
	}
	if hasAmenity(data, "conference") {
		peak += 15
	}
	if hasAmenity(data, "ev-charging") {
		peak += 50
	}

	const loadFactor = 0.55
	return Estimate{
		PeakKW:               peak,
		AnnualKWh:            peak * loadFactor * hoursPerYear(data, 24),
		RecommendedBESSKW:    peak * 0.4,
		RecommendedBESSHours: 4,
		LoadFactor:           loadFactor,
	}
}

func carWashModel(data FacilityData) Estimate {
	bays := numField(data, "bays", 4)

	kwPerBay := map[string]float64{
		"tunnel":           45,
		"in-bay-automatic": 25,
		"self-service":     8,
	}
	base, ok := kwPerBay[strField(data, "washType", "in-bay-automatic")]
	if !ok {
		base = kwPerBay["in-bay-automatic"]
	}

	peak := bays*base +
		numField(data, "vacuumStations", 6)*1.5 +
		numField(data, "dryers", 2)*15

	const loadFactor = 0.35
	return Estimate{
		PeakKW:               peak,
		AnnualKWh:            peak * loadFactor * hoursPerYear(data, 14),
		RecommendedBESSKW:    peak * 0.5,
		RecommendedBESSHours: 2,
		LoadFactor:           loadFactor,
	}
}

func evChargingHubModel(data FacilityData) Estimate {
	// Fixed concurrency factors keep the estimate monotonic in charger count.
	const (
		level2KW          = 11
		dcFastKW          = 150
		level2Concurrency = 0.8
		dcFastConcurrency = 0.65
	)

	peak := numField(data, "level2Chargers", 8)*level2KW*level2Concurrency +
		numField(data, "dcFastChargers", 4)*dcFastKW*dcFastConcurrency +
		20 // site lighting, canopy, kiosk

	const loadFactor = 0.30
	return Estimate{
		PeakKW:               peak,
		AnnualKWh:            peak * loadFactor * hoursPerYear(data, 24),
		RecommendedBESSKW:    peak * 0.6,
		RecommendedBESSHours: 2,
		LoadFactor:           loadFactor,
	}
}

func hospitalModel(data FacilityData) Estimate {
	peak := numField(data, "beds", 150)*2.2 +
		numField(data, "operatingRooms", 4)*40 +
		numField(data, "imagingSuites", 2)*75

	const loadFactor = 0.75
	return Estimate{
		PeakKW:               peak,
		AnnualKWh:            peak * loadFactor * hoursPerYear(data, 24),
		RecommendedBESSKW:    peak * 0.6,
		RecommendedBESSHours: 6,
		LoadFactor:           loadFactor,
	}
}

func dataCenterModel(data FacilityData) Estimate {
	itLoad := numField(data, "itLoadKW", 500)
	pue := numField(data, "pue", 1.5)
	if pue < 1 {
		pue = 1
	}

	peak := itLoad * pue
	const loadFactor = 0.90
	return Estimate{
		PeakKW:               peak,
		AnnualKWh:            peak * loadFactor * hoursPerYear(data, 24),
		RecommendedBESSKW:    peak * 0.8,
		RecommendedBESSHours: 4,
		LoadFactor:           loadFactor,
	}
}

func manufacturingModel(data FacilityData) Estimate {
	sqft := numField(data, "facilitySize", 50000)

	wattsPerSqft := map[string]float64{
		"heavy":  25,
		"medium": 15,
		"light":  8,
	}
	watts, ok := wattsPerSqft[strField(data, "processIntensity", "medium")]
	if !ok {
		watts = wattsPerSqft["medium"]
	}

	peak := sqft * watts / 1000
	const loadFactor = 0.60
	return Estimate{
		PeakKW:               peak,
		AnnualKWh:            peak * loadFactor * hoursPerYear(data, 16),
		RecommendedBESSKW:    peak * 0.4,
		RecommendedBESSHours: 4,
		LoadFactor:           loadFactor,
	}
}

func groceryStoreModel(data FacilityData) Estimate {
	sqft := numField(data, "facilitySize", 30000)

	// Refrigeration roughly doubles the base retail intensity.
	peak := sqft * 18 / 1000
	const loadFactor = 0.65
	return Estimate{
		PeakKW:               peak,
		AnnualKWh:            peak * loadFactor * hoursPerYear(data, 18),
		RecommendedBESSKW:    peak * 0.5,
		RecommendedBESSHours: 4,
		LoadFactor:           loadFactor,
	}
}

func officeModel(data FacilityData) Estimate {
	sqft := numField(data, "facilitySize", 40000)

	peak := sqft * 15 / 1000
	const loadFactor = 0.45
	return Estimate{
		PeakKW:               peak,
		AnnualKWh:            peak * loadFactor * hoursPerYear(data, 11),
		RecommendedBESSKW:    peak * 0.4,
		RecommendedBESSHours: 4,
		LoadFactor:           loadFactor,
	}
}
