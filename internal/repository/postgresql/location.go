package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/master/location"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type locationRepositoryImpl struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.LocationRepository {
	return &locationRepositoryImpl{db: db}
}

const locationColumns = `id, name, country_code, timezone, latitude, longitude, radius_meters`

func scanLocation(row pgx.Row) (employee.Location, error) {
	var loc employee.Location
	if err := row.Scan(
		&loc.ID, &loc.Name, &loc.CountryCode, &loc.Timezone, &loc.Latitude, &loc.Longitude, &loc.RadiusMeters,
	); err != nil {
		return employee.Location{}, err
	}
	loc.CountryCode = strings.TrimSpace(loc.CountryCode)
	return loc, nil
}

// GetByID implements location.LocationRepository.
func (l *locationRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Location, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`

	loc, err := scanLocation(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Location{}, location.ErrLocationNotFound
		}
		return employee.Location{}, fmt.Errorf("failed to get location %d: %w", id, err)
	}

	return loc, nil
}

// List implements location.LocationRepository.
func (l *locationRepositoryImpl) List(ctx context.Context) ([]employee.Location, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	locations := make([]employee.Location, 0)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return locations, nil
}

// Create implements location.LocationRepository.
func (l *locationRepositoryImpl) Create(ctx context.Context, loc employee.Location) (employee.Location, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO locations (name, country_code, timezone, latitude, longitude, radius_meters, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + locationColumns

	created, err := scanLocation(q.QueryRow(ctx, query,
		loc.Name, loc.CountryCode, loc.Timezone, loc.Latitude, loc.Longitude, loc.RadiusMeters,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_location_name") {
			return employee.Location{}, location.ErrLocationNameExists
		}
		return employee.Location{}, fmt.Errorf("failed to create location: %w", err)
	}

	return created, nil
}

// Update implements location.LocationRepository. It writes every column of
// the merged entity.
func (l *locationRepositoryImpl) Update(ctx context.Context, loc employee.Location) (employee.Location, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE locations
		SET name = $2, country_code = $3, timezone = $4, latitude = $5, longitude = $6,
			radius_meters = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + locationColumns

	updated, err := scanLocation(q.QueryRow(ctx, query,
		loc.ID, loc.Name, loc.CountryCode, loc.Timezone, loc.Latitude, loc.Longitude, loc.RadiusMeters,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Location{}, location.ErrLocationNotFound
		}
		if isUniqueViolation(err, "uk_location_name") {
			return employee.Location{}, location.ErrLocationNameExists
		}
		return employee.Location{}, fmt.Errorf("failed to update location %d: %w", loc.ID, err)
	}

	return updated, nil
}
