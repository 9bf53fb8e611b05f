package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carelog/ward-api/internal/model"
	"github.com/carelog/ward-api/internal/repository"
)

type patientRecordRepository struct {
	db *sqlx.DB
}

func NewPatientRecordRepository(db *sqlx.DB) repository.PatientRecordRepository {
	return &patientRecordRepository{db: db}
}

const patientColumns = `
	id, unit, created_at, updated_at,
	admission_type, gender, diagnosis,
	age, age_unit, weight_kg,
	admission_date, release_date, final_discharge_date, step_down_date, date_of_death,
	outcome, referring_hospital, is_step_down, readmission_from_step_down
`

func (r *patientRecordRepository) ListByUnit(ctx context.Context, unit model.Unit) ([]model.PatientRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM patient_records WHERE unit = $1 ORDER BY admission_date`, patientColumns)

	var records []model.PatientRecord
	if err := r.db.SelectContext(ctx, &records, query, unit); err != nil {
		return nil, fmt.Errorf("failed to list patient records for unit %s: %w", unit, err)
	}
	return records, nil
}

func (r *patientRecordRepository) List(ctx context.Context) ([]model.PatientRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM patient_records ORDER BY admission_date`, patientColumns)

	var records []model.PatientRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to list patient records: %w", err)
	}
	return records, nil
}
