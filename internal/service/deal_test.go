package service

import (
	"context"
	"errors"
	"testing"

	"dealrater/internal/model"
)

func newDealService(store ListingStore, ai AIClient) *DealService {
	cfg := dealConfig()
	return NewDealService(
		store,
		NewResolver(store, cfg),
		NewEstimator(),
		NewClassifier(ai),
		cfg,
	)
}

func TestEvaluate_ListingNotFound(t *testing.T) {
	s := newDealService(&fakeStore{}, nil)

	_, err := s.Evaluate(context.Background(), 42, model.KindSale)
	if !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("Evaluate() error = %v, want ErrListingNotFound", err)
	}
}

func TestEvaluate_DeterministicFlow(t *testing.T) {
	target := &model.Listing{
		ID:      1,
		Kind:    model.KindSale,
		Brand:   "Toyota",
		Model:   "Corolla",
		Year:    2020,
		Mileage: 40000,
		Price:   9000000,
	}
	store := &fakeStore{
		listing: target,
		exact: []model.Listing{
			{ID: 2, Kind: model.KindSale, Year: 2020, Mileage: 45000, Price: 10000000},
			{ID: 3, Kind: model.KindSale, Year: 2020, Mileage: 50000, Price: 10500000},
			{ID: 4, Kind: model.KindSale, Year: 2019, Mileage: 60000, Price: 9500000},
		},
	}

	rating, err := newDealService(store, nil).Evaluate(context.Background(), 1, model.KindSale)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if rating.ComparableCount != 3 {
		t.Errorf("ComparableCount = %d, want 3", rating.ComparableCount)
	}
	if rating.AIPowered {
		t.Error("AIPowered should be false without an AI client")
	}
	if rating.MarketAverage != 10000000 {
		t.Errorf("MarketAverage = %d, want 10000000", rating.MarketAverage)
	}
	// 3 exact matches exceed the deterministic threshold of 2.
	if store.broadCalled {
		t.Error("broadened tier consulted despite sufficient exact matches")
	}
}

func TestEvaluate_AIPathUsesHigherThreshold(t *testing.T) {
	// 3 exact matches: above the deterministic threshold (2) but below the
	// AI threshold (5), so an enabled AI client triggers broadening.
	target := &model.Listing{
		ID: 1, Kind: model.KindSale, Brand: "Toyota", Model: "Corolla",
		Year: 2020, Mileage: 40000, Price: 9000000,
	}
	store := &fakeStore{
		listing: target,
		exact: []model.Listing{
			{ID: 2, Kind: model.KindSale, Year: 2020, Price: 10000000},
			{ID: 3, Kind: model.KindSale, Year: 2020, Price: 10500000},
			{ID: 4, Kind: model.KindSale, Year: 2019, Price: 9500000},
		},
		broad: listings(8),
	}
	ai := &stubAIClient{enabled: true, resp: &AIRatingResponse{
		Category:    "bon_prix",
		Explanation: "Bon rapport qualité-prix.",
	}}

	rating, err := newDealService(store, ai).Evaluate(context.Background(), 1, model.KindSale)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if !store.broadCalled {
		t.Error("AI path should broaden below 5 exact matches")
	}
	if !rating.AIPowered || rating.Category != model.DealGood {
		t.Errorf("got category %s aiPowered %v, want good/true", rating.Category, rating.AIPowered)
	}
	if rating.ComparableCount != 8 {
		t.Errorf("ComparableCount = %d, want 8 (broadened set replaces exact set)", rating.ComparableCount)
	}
}
