package service

import (
	"context"

	"dealrater/internal/config"
	"dealrater/internal/model"
)

// DealService orchestrates one evaluation: load the target listing, resolve
// its comparable set, estimate the market, classify. Each call is stateless
// and read-only, so concurrent evaluations need no coordination.
type DealService struct {
	store      ListingStore
	resolver   *Resolver
	estimator  *Estimator
	classifier *Classifier

	minComparablesAI       int
	minComparablesFallback int
}

// NewDealService creates a new deal evaluation service
func NewDealService(store ListingStore, resolver *Resolver, estimator *Estimator, classifier *Classifier, cfg *config.DealConfig) *DealService {
	return &DealService{
		store:                  store,
		resolver:               resolver,
		estimator:              estimator,
		classifier:             classifier,
		minComparablesAI:       cfg.MinComparablesAI,
		minComparablesFallback: cfg.MinComparablesFallback,
	}
}

// Evaluate rates the price of the listing identified by id and kind.
//
// Returns ErrListingNotFound when the id does not resolve, a store error
// when a comparable query fails (retry policy belongs to the caller), or an
// *AIUnavailableError when the AI endpoint is rate-limited or out of quota.
// All other AI failures are absorbed by the deterministic fallback.
//
// Presentation note: ratings with ComparableCount < 3 are low-confidence;
// callers are expected to suppress them rather than display them.
func (s *DealService) Evaluate(ctx context.Context, listingID int64, kind model.ListingKind) (*model.DealRating, error) {
	target, err := s.store.GetListingByID(ctx, listingID, kind)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrListingNotFound
	}

	// The AI path broadens earlier: it wants at least 5 comparables to
	// reason over, the deterministic math makes do with 2.
	minComparables := s.minComparablesFallback
	if s.classifier.AIEnabled() {
		minComparables = s.minComparablesAI
	}

	set, err := s.resolver.Resolve(ctx, target, minComparables)
	if err != nil {
		return nil, err
	}

	estimate := s.estimator.Estimate(target, set)

	return s.classifier.Classify(ctx, target, estimate)
}

// GetListing retrieves a single listing by id and kind. Returns (nil, nil)
// when the listing does not exist.
func (s *DealService) GetListing(ctx context.Context, listingID int64, kind model.ListingKind) (*model.Listing, error) {
	return s.store.GetListingByID(ctx, listingID, kind)
}
