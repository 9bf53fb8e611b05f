package repository

import (
	"context"

	"github.com/carelog/ward-api/internal/model"
)

// PatientRecordRepository reads snapshots of patient records. The sync
// process owns all writes; this service only ever reads.
type PatientRecordRepository interface {
	// ListByUnit returns every record for a unit. Temporal filtering is
	// the engine's job, not the store's, so no date constraints here.
	ListByUnit(ctx context.Context, unit model.Unit) ([]model.PatientRecord, error)
	// List returns every record across units.
	List(ctx context.Context) ([]model.PatientRecord, error)
}

// ObservationRepository reads pre-admission tracking entries.
type ObservationRepository interface {
	ListByUnit(ctx context.Context, unit model.Unit) ([]model.ObservationRecord, error)
}
