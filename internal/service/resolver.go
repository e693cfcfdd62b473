package service

import (
	"context"
	"fmt"

	"dealrater/internal/config"
	"dealrater/internal/model"
)

// ListingStore is the read-only view of the listing store an evaluation
// needs. *repository.PostgresRepository satisfies it.
type ListingStore interface {
	GetListingByID(ctx context.Context, id int64, kind model.ListingKind) (*model.Listing, error)
	FindByBrandModel(ctx context.Context, kind model.ListingKind, brand, carModel string, excludeID int64, limit int) ([]model.Listing, error)
	FindByBrandYearRange(ctx context.Context, kind model.ListingKind, brand string, yearMin, yearMax int, excludeID int64, limit int) ([]model.Listing, error)
}

// Resolver produces the comparable set a target listing is rated against.
type Resolver struct {
	store           ListingStore
	exactMatchLimit int
	brandYearLimit  int
	yearWindow      int
}

// NewResolver creates a new comparable-set resolver
func NewResolver(store ListingStore, cfg *config.DealConfig) *Resolver {
	return &Resolver{
		store:           store,
		exactMatchLimit: cfg.ExactMatchLimit,
		brandYearLimit:  cfg.BrandYearLimit,
		yearWindow:      cfg.YearWindow,
	}
}

// Resolve queries for exact brand+model matches first; if fewer than
// minComparables are found it broadens to brand plus a model-year window.
// The broadened result replaces the narrow one, it is not merged with it.
// An empty set is a valid outcome (new or rare vehicles), never an error.
func (r *Resolver) Resolve(ctx context.Context, target *model.Listing, minComparables int) (*model.ComparableSet, error) {
	exact, err := r.store.FindByBrandModel(ctx, target.Kind, target.Brand, target.Model, target.ID, r.exactMatchLimit)
	if err != nil {
		return nil, fmt.Errorf("exact-match query: %w", err)
	}

	if len(exact) >= minComparables {
		return &model.ComparableSet{Listings: exact, Tier: model.TierExactModel}, nil
	}

	broad, err := r.store.FindByBrandYearRange(
		ctx,
		target.Kind,
		target.Brand,
		target.Year-r.yearWindow,
		target.Year+r.yearWindow,
		target.ID,
		r.brandYearLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("brand-year query: %w", err)
	}

	return &model.ComparableSet{Listings: broad, Tier: model.TierBrandYearRange}, nil
}
