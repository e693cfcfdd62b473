package service

import (
	"context"
	"errors"
	"testing"

	"dealrater/internal/config"
	"dealrater/internal/model"
)

// fakeStore records the queries the resolver issues.
type fakeStore struct {
	listing *model.Listing

	exact    []model.Listing
	exactErr error

	broad       []model.Listing
	broadErr    error
	broadCalled bool

	gotKind    model.ListingKind
	gotExclude int64
	gotYearMin int
	gotYearMax int
	gotLimit   int
}

func (f *fakeStore) GetListingByID(ctx context.Context, id int64, kind model.ListingKind) (*model.Listing, error) {
	if f.listing != nil && f.listing.ID == id && f.listing.Kind == kind {
		return f.listing, nil
	}
	return nil, nil
}

func (f *fakeStore) FindByBrandModel(ctx context.Context, kind model.ListingKind, brand, carModel string, excludeID int64, limit int) ([]model.Listing, error) {
	f.gotKind = kind
	f.gotExclude = excludeID
	f.gotLimit = limit
	return f.exact, f.exactErr
}

func (f *fakeStore) FindByBrandYearRange(ctx context.Context, kind model.ListingKind, brand string, yearMin, yearMax int, excludeID int64, limit int) ([]model.Listing, error) {
	f.broadCalled = true
	f.gotKind = kind
	f.gotExclude = excludeID
	f.gotYearMin = yearMin
	f.gotYearMax = yearMax
	return f.broad, f.broadErr
}

func dealConfig() *config.DealConfig {
	return &config.DealConfig{
		MinComparablesAI:       5,
		MinComparablesFallback: 2,
		ExactMatchLimit:        50,
		BrandYearLimit:         30,
		YearWindow:             3,
	}
}

func listings(n int) []model.Listing {
	out := make([]model.Listing, n)
	for i := range out {
		out[i] = model.Listing{ID: int64(200 + i), Kind: model.KindSale}
	}
	return out
}

func TestResolve_ExactMatchesSufficient(t *testing.T) {
	store := &fakeStore{exact: listings(5)}
	r := NewResolver(store, dealConfig())
	target := &model.Listing{ID: 1, Kind: model.KindSale, Brand: "Toyota", Model: "Corolla", Year: 2020}

	set, err := r.Resolve(context.Background(), target, 5)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if set.Tier != model.TierExactModel {
		t.Errorf("Tier = %d, want TierExactModel", set.Tier)
	}
	if set.Count() != 5 {
		t.Errorf("Count = %d, want 5", set.Count())
	}
	if store.broadCalled {
		t.Error("brand+year tier must not be consulted when the exact tier meets the threshold")
	}
	if store.gotExclude != target.ID {
		t.Errorf("exclude id = %d, want %d (target must never compare against itself)", store.gotExclude, target.ID)
	}
	if store.gotKind != model.KindSale {
		t.Errorf("kind = %s, want sale (comparable sets are kind-scoped)", store.gotKind)
	}
}

func TestResolve_BroadensAndReplaces(t *testing.T) {
	store := &fakeStore{exact: listings(2), broad: listings(12)}
	r := NewResolver(store, dealConfig())
	target := &model.Listing{ID: 1, Kind: model.KindSale, Brand: "Toyota", Model: "Corolla", Year: 2020}

	set, err := r.Resolve(context.Background(), target, 5)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if !store.broadCalled {
		t.Fatal("expected broadened query for 2 exact matches below threshold 5")
	}
	if set.Tier != model.TierBrandYearRange {
		t.Errorf("Tier = %d, want TierBrandYearRange", set.Tier)
	}
	// Broadened result replaces the narrow one, never merged.
	if set.Count() != 12 {
		t.Errorf("Count = %d, want 12", set.Count())
	}
	if store.gotYearMin != 2017 || store.gotYearMax != 2023 {
		t.Errorf("year range = [%d, %d], want [2017, 2023]", store.gotYearMin, store.gotYearMax)
	}
}

func TestResolve_ThresholdIsPathSpecific(t *testing.T) {
	// 2 exact matches: enough for the deterministic path (threshold 2),
	// not for the AI path (threshold 5).
	store := &fakeStore{exact: listings(2), broad: listings(9)}
	r := NewResolver(store, dealConfig())
	target := &model.Listing{ID: 1, Kind: model.KindSale, Brand: "Toyota", Model: "Corolla", Year: 2020}

	set, err := r.Resolve(context.Background(), target, 2)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if store.broadCalled {
		t.Error("deterministic threshold met, broadening should not happen")
	}
	if set.Tier != model.TierExactModel || set.Count() != 2 {
		t.Errorf("got tier %d count %d, want exact tier with 2", set.Tier, set.Count())
	}
}

func TestResolve_EmptyBothTiers(t *testing.T) {
	store := &fakeStore{}
	r := NewResolver(store, dealConfig())
	target := &model.Listing{ID: 1, Kind: model.KindRental, Brand: "Bugatti", Model: "Chiron", Year: 2023}

	set, err := r.Resolve(context.Background(), target, 2)
	if err != nil {
		t.Fatalf("Resolve() error = %v, an empty set is not an error", err)
	}
	if set.Count() != 0 {
		t.Errorf("Count = %d, want 0", set.Count())
	}
}

func TestResolve_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection reset")
	store := &fakeStore{exactErr: storeErr}
	r := NewResolver(store, dealConfig())
	target := &model.Listing{ID: 1, Kind: model.KindSale, Brand: "Toyota", Model: "Corolla", Year: 2020}

	_, err := r.Resolve(context.Background(), target, 2)
	if !errors.Is(err, storeErr) {
		t.Fatalf("Resolve() error = %v, want wrapped store error", err)
	}
}
