package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carelog/ward-api/internal/model"
	"github.com/carelog/ward-api/internal/repository"
)

type observationRepository struct {
	db *sqlx.DB
}

func NewObservationRepository(db *sqlx.DB) repository.ObservationRepository {
	return &observationRepository{db: db}
}

func (r *observationRepository) ListByUnit(ctx context.Context, unit model.Unit) ([]model.ObservationRecord, error) {
	query := `
		SELECT id, unit, created_at, updated_at,
		       date_of_observation, discharged_at, outcome, gender
		FROM observation_records
		WHERE unit = $1
		ORDER BY date_of_observation
	`

	var records []model.ObservationRecord
	if err := r.db.SelectContext(ctx, &records, query, unit); err != nil {
		return nil, fmt.Errorf("failed to list observation records for unit %s: %w", unit, err)
	}
	return records, nil
}
