package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Unit identifies the ward a record belongs to.
type Unit string

const (
	UnitNICU        Unit = "NICU"
	UnitPICU        Unit = "PICU"
	UnitSNCU        Unit = "SNCU"
	UnitHDU         Unit = "HDU"
	UnitGeneralWard Unit = "GeneralWard"
)

// Units lists every unit a deployment may enable. Used to iterate
// breakdown keys, never to filter.
var Units = []Unit{UnitNICU, UnitPICU, UnitSNCU, UnitHDU, UnitGeneralWard}

// Outcome is the current disposition of a hospitalization episode.
// Exactly one outcome holds at a time; transitions happen in the sync
// process, never here.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeDischarged Outcome = "discharged"
	OutcomeReferred   Outcome = "referred"
	OutcomeDeceased   Outcome = "deceased"
	OutcomeStepDown   Outcome = "step_down"
)

// AgeUnit qualifies PatientRecord.Age; age is meaningless without it.
type AgeUnit string

const (
	AgeUnitDays   AgeUnit = "days"
	AgeUnitWeeks  AgeUnit = "weeks"
	AgeUnitMonths AgeUnit = "months"
	AgeUnitYears  AgeUnit = "years"
)

const (
	AdmissionTypeInborn  = "Inborn"
	AdmissionTypeOutborn = "Outborn"
)

// PatientRecord is one hospitalization episode as synced from the
// record store. All fields are read-only inputs to the analytics
// engine.
type PatientRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Unit      Unit      `db:"unit" json:"unit"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// AdmissionType is "Inborn", "Outborn" or a sub-variant such as
	// "Outborn (Referred)". Nil when the form was never filled.
	AdmissionType *string `db:"admission_type" json:"admission_type,omitempty"`
	Gender        string  `db:"gender" json:"gender"`
	Diagnosis     *string `db:"diagnosis" json:"diagnosis,omitempty"`

	Age      float64  `db:"age" json:"age"`
	AgeUnit  AgeUnit  `db:"age_unit" json:"age_unit"`
	WeightKg *float64 `db:"weight_kg" json:"weight_kg,omitempty"`

	AdmissionDate      *time.Time `db:"admission_date" json:"admission_date,omitempty"`
	ReleaseDate        *time.Time `db:"release_date" json:"release_date,omitempty"`
	FinalDischargeDate *time.Time `db:"final_discharge_date" json:"final_discharge_date,omitempty"`
	StepDownDate       *time.Time `db:"step_down_date" json:"step_down_date,omitempty"`
	DateOfDeath        *time.Time `db:"date_of_death" json:"date_of_death,omitempty"`

	Outcome Outcome `db:"outcome" json:"outcome"`

	ReferringHospital       *string `db:"referring_hospital" json:"referring_hospital,omitempty"`
	IsStepDown              bool    `db:"is_step_down" json:"is_step_down"`
	ReadmissionFromStepDown bool    `db:"readmission_from_step_down" json:"readmission_from_step_down"`
}

// IsOutborn reports whether the admission type is any Outborn variant.
// Sub-variants like "Outborn (Home)" must still count as Outborn.
func (r *PatientRecord) IsOutborn() bool {
	return r.AdmissionType != nil && strings.Contains(*r.AdmissionType, AdmissionTypeOutborn)
}

// IsInborn reports an exact Inborn admission type.
func (r *PatientRecord) IsInborn() bool {
	return r.AdmissionType != nil && *r.AdmissionType == AdmissionTypeInborn
}

// AgeInDays converts the joint (age, unit) pair to days.
func (r *PatientRecord) AgeInDays() float64 {
	switch r.AgeUnit {
	case AgeUnitWeeks:
		return r.Age * 7
	case AgeUnitMonths:
		return r.Age * 30
	case AgeUnitYears:
		return r.Age * 365
	default:
		return r.Age
	}
}

// AgeInYears converts the joint (age, unit) pair to years.
func (r *PatientRecord) AgeInYears() float64 {
	return r.AgeInDays() / 365
}
