package model

import (
	"time"
)

// ListingKind distinguishes sale listings from rental listings.
// The two kinds are never mixed within a single comparable set.
type ListingKind string

const (
	KindSale   ListingKind = "sale"
	KindRental ListingKind = "rental"
)

// Valid reports whether k is a known listing kind.
func (k ListingKind) Valid() bool {
	return k == KindSale || k == KindRental
}

// Listing represents a vehicle listing (for sale or for rent).
// The deal-rating core only ever reads listings; it never mutates them.
type Listing struct {
	ID            int64       `json:"id" db:"id"`
	Kind          ListingKind `json:"kind" db:"kind"`
	Brand         string      `json:"brand" db:"brand"`
	Model         string      `json:"model" db:"model"`
	Year          int         `json:"year" db:"year"`
	Mileage       int         `json:"mileage" db:"mileage"`
	FuelType      *string     `json:"fuel_type,omitempty" db:"fuel_type"`
	Transmission  *string     `json:"transmission,omitempty" db:"transmission"`
	BodyCondition *string     `json:"body_condition,omitempty" db:"body_condition"`
	Price         float64     `json:"price" db:"price"`
	PricePerDay   float64     `json:"price_per_day" db:"price_per_day"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// EffectivePrice returns the price field that matters for this listing's
// kind: the absolute sale price for sale listings, the per-day price for
// rentals.
func (l *Listing) EffectivePrice() float64 {
	if l.Kind == KindRental {
		return l.PricePerDay
	}
	return l.Price
}
