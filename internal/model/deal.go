package model

// ComparableTier identifies which query produced a comparable set.
type ComparableTier int

const (
	// TierExactModel is the narrow tier: same kind, exact brand and model.
	TierExactModel ComparableTier = iota + 1
	// TierBrandYearRange is the broadened tier: same kind, exact brand,
	// model year within a fixed window of the target.
	TierBrandYearRange
)

// ComparableSet is the ranked collection of listings a single evaluation is
// scored against. It is never persisted and never contains the target
// listing itself.
type ComparableSet struct {
	Listings []Listing
	Tier     ComparableTier
}

// Count returns the number of comparables in the set.
func (s *ComparableSet) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Listings)
}

// MarketEstimate is the reduced view of a comparable set used to rate the
// target listing. All price fields are in the target's price unit (absolute
// price for sales, price per day for rentals).
type MarketEstimate struct {
	Average         float64 `json:"average"`
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	AvgYear         float64 `json:"avg_year"`
	AvgMileage      float64 `json:"avg_mileage"`
	ComparableCount int     `json:"comparable_count"`
	VehicleAge      int     `json:"vehicle_age"`
	AdjustedAverage float64 `json:"adjusted_average"`
}

// DealCategory is the canonical rating vocabulary.
type DealCategory string

const (
	DealExcellent DealCategory = "excellent"
	DealGood      DealCategory = "good"
	DealFair      DealCategory = "fair"
	DealPoor      DealCategory = "poor"
)

// DealRating is the final output of one evaluation.
//
// SavingsPercentage is signed: positive means the target is cheaper than the
// adjusted market average, negative means more expensive. MarketAverage is
// the raw comparable average, rounded to a whole unit.
type DealRating struct {
	Category          DealCategory `json:"deal_rating"`
	SavingsPercentage int          `json:"savings_percentage"`
	MarketAverage     int          `json:"market_average"`
	Explanation       string       `json:"explanation"`
	Recommendation    string       `json:"recommendation,omitempty"`
	ComparableCount   int          `json:"comparable_count"`
	AIPowered         bool         `json:"ai_powered"`
}

// EvaluateRequest is the inbound payload for a deal evaluation.
type EvaluateRequest struct {
	ListingID   int64       `json:"listing_id" binding:"required"`
	ListingType ListingKind `json:"listing_type" binding:"required"`
}
