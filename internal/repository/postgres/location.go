package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"drc-backend/internal/domain"
	"drc-backend/internal/repository"
)

type locationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, loc *domain.Location) error {
	query := `INSERT INTO locations (code, name, type, address, hours, capacity, return_policy, is_active, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, loc.Code, loc.Name, loc.Type, loc.Address, loc.Hours,
		loc.Capacity, loc.ReturnPolicy, loc.IsActive, time.Now())
	return err
}

func (r *locationRepository) GetByCode(ctx context.Context, code string) (*domain.Location, error) {
	loc := &domain.Location{}
	query := `SELECT code, name, type, address, hours, capacity, return_policy, is_active, created_on
	          FROM locations WHERE code = $1`
	err := r.db.QueryRowContext(ctx, query, code).Scan(&loc.Code, &loc.Name, &loc.Type, &loc.Address,
		&loc.Hours, &loc.Capacity, &loc.ReturnPolicy, &loc.IsActive, &loc.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("location %s: %w", code, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return loc, nil
}

func (r *locationRepository) List(ctx context.Context) ([]domain.Location, error) {
	query := `SELECT code, name, type, address, hours, capacity, return_policy, is_active, created_on
	          FROM locations ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []domain.Location
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.Code, &loc.Name, &loc.Type, &loc.Address, &loc.Hours,
			&loc.Capacity, &loc.ReturnPolicy, &loc.IsActive, &loc.CreatedOn); err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

func (r *locationRepository) Update(ctx context.Context, loc *domain.Location) error {
	query := `UPDATE locations SET name=$2, type=$3, address=$4, hours=$5, capacity=$6, return_policy=$7, is_active=$8
	          WHERE code=$1`
	_, err := r.db.ExecContext(ctx, query, loc.Code, loc.Name, loc.Type, loc.Address, loc.Hours,
		loc.Capacity, loc.ReturnPolicy, loc.IsActive)
	return err
}
