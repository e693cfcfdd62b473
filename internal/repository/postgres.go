package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dealrater/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const listingColumns = `
	id, kind, brand, model, year, mileage, fuel_type, transmission,
	body_condition, price, price_per_day, created_at, updated_at`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// GetListingByID retrieves a single listing by id and kind. Returns
// (nil, nil) when no such listing exists.
func (r *PostgresRepository) GetListingByID(ctx context.Context, id int64, kind model.ListingKind) (*model.Listing, error) {
	var listing model.Listing
	query := fmt.Sprintf(`SELECT %s FROM car_listings WHERE id = $1 AND kind = $2`, listingColumns)
	err := r.db.GetContext(ctx, &listing, query, id, kind)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// FindByBrandModel returns listings of the given kind sharing the exact
// brand and model, excluding excludeID, capped at limit. Ordered newest
// first so the cap keeps the freshest comparables.
func (r *PostgresRepository) FindByBrandModel(ctx context.Context, kind model.ListingKind, brand, carModel string, excludeID int64, limit int) ([]model.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM car_listings
		WHERE kind = $1 AND brand = $2 AND model = $3 AND id != $4
		ORDER BY created_at DESC
		LIMIT $5
	`, listingColumns)

	var listings []model.Listing
	err := r.db.SelectContext(ctx, &listings, query, kind, brand, carModel, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comparable listings: %w", err)
	}
	return listings, nil
}

// FindByBrandYearRange returns listings of the given kind sharing the exact
// brand with a model year in [yearMin, yearMax], excluding excludeID,
// capped at limit.
func (r *PostgresRepository) FindByBrandYearRange(ctx context.Context, kind model.ListingKind, brand string, yearMin, yearMax int, excludeID int64, limit int) ([]model.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM car_listings
		WHERE kind = $1 AND brand = $2 AND year BETWEEN $3 AND $4 AND id != $5
		ORDER BY created_at DESC
		LIMIT $6
	`, listingColumns)

	var listings []model.Listing
	err := r.db.SelectContext(ctx, &listings, query, kind, brand, yearMin, yearMax, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comparable listings: %w", err)
	}
	return listings, nil
}
