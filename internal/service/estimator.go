package service

import (
	"time"

	"dealrater/internal/model"
)

// Depreciation model constants. These are deliberately simple linear
// approximations kept stable for compatibility with prior evaluations.
const (
	depreciationPerYear  = 0.03
	depreciationFloor    = 0.70
	expectedKmPerYear    = 15000
	mileageAdjustPer100k = 0.10
)

// Estimator reduces a comparable set to a single adjusted market average.
type Estimator struct {
	now func() time.Time
}

// NewEstimator creates a new market estimator
func NewEstimator() *Estimator {
	return &Estimator{now: time.Now}
}

// Estimate computes price statistics over the comparable set and corrects
// the average for the target's age and mileage relative to typical
// depreciation. An empty set yields an all-zero estimate (except
// VehicleAge, which only depends on the target); callers must treat a zero
// ComparableCount as insufficient data.
func (e *Estimator) Estimate(target *model.Listing, set *model.ComparableSet) *model.MarketEstimate {
	currentYear := e.now().Year()

	vehicleAge := currentYear - target.Year
	if vehicleAge < 0 {
		vehicleAge = 0
	}

	est := &model.MarketEstimate{
		ComparableCount: set.Count(),
		VehicleAge:      vehicleAge,
	}
	if est.ComparableCount == 0 {
		return est
	}

	var sumPrice, sumYear, sumMileage float64
	est.Min = set.Listings[0].EffectivePrice()
	est.Max = est.Min
	for _, l := range set.Listings {
		price := l.EffectivePrice()
		sumPrice += price
		sumYear += float64(l.Year)
		sumMileage += float64(l.Mileage)
		if price < est.Min {
			est.Min = price
		}
		if price > est.Max {
			est.Max = price
		}
	}

	n := float64(est.ComparableCount)
	est.Average = sumPrice / n
	est.AvgYear = sumYear / n
	est.AvgMileage = sumMileage / n

	// Linear 3%-per-year depreciation, floor-capped at 70% of nominal value.
	ageMultiplier := 1 - float64(vehicleAge)*depreciationPerYear
	if ageMultiplier < depreciationFloor {
		ageMultiplier = depreciationFloor
	}

	// 10% price adjustment per 100,000 km of deviation from expected usage.
	expectedMileage := float64(vehicleAge * expectedKmPerYear)
	mileageDiff := float64(target.Mileage) - expectedMileage
	mileageAdjustment := (mileageDiff / 100000) * mileageAdjustPer100k

	est.AdjustedAverage = est.Average * ageMultiplier * (1 - mileageAdjustment)

	return est
}
