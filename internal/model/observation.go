package model

import (
	"time"

	"github.com/google/uuid"
)

// ObservationOutcome is the disposition of a pre-admission tracking
// entry.
type ObservationOutcome string

const (
	ObservationInObservation ObservationOutcome = "in_observation"
	ObservationHandedOver    ObservationOutcome = "handed_over"
	ObservationConverted     ObservationOutcome = "converted_to_admission"
)

// ObservationRecord is a lighter-weight pre-admission entry, e.g. a
// newborn awaiting disposition. The temporal-membership rules applied
// to PatientRecord apply here with DateOfObservation standing in for
// the admission date and DischargedAt for the release fallback chain.
type ObservationRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Unit      Unit      `db:"unit" json:"unit"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	DateOfObservation *time.Time         `db:"date_of_observation" json:"date_of_observation,omitempty"`
	DischargedAt      *time.Time         `db:"discharged_at" json:"discharged_at,omitempty"`
	Outcome           ObservationOutcome `db:"outcome" json:"outcome"`
	Gender            string             `db:"gender" json:"gender"`
}
