package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/carelog/ward-api/internal/model"
)

func tp(t time.Time) *time.Time { return &t }

func sp(s string) *string { return &s }

func fp(f float64) *float64 { return &f }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

type patientOpt func(*model.PatientRecord)

func admitted(t time.Time) patientOpt {
	return func(r *model.PatientRecord) { r.AdmissionDate = &t }
}

func released(t time.Time) patientOpt {
	return func(r *model.PatientRecord) { r.ReleaseDate = &t }
}

func died(t time.Time) patientOpt {
	return func(r *model.PatientRecord) { r.DateOfDeath = &t }
}

func steppedDown(t time.Time) patientOpt {
	return func(r *model.PatientRecord) { r.StepDownDate = &t }
}

func withOutcome(o model.Outcome) patientOpt {
	return func(r *model.PatientRecord) { r.Outcome = o }
}

func withWeight(kg float64) patientOpt {
	return func(r *model.PatientRecord) { r.WeightKg = &kg }
}

func withAge(age float64, unit model.AgeUnit) patientOpt {
	return func(r *model.PatientRecord) { r.Age = age; r.AgeUnit = unit }
}

func withDiagnosis(dx string) patientOpt {
	return func(r *model.PatientRecord) { r.Diagnosis = &dx }
}

func withAdmissionType(t string) patientOpt {
	return func(r *model.PatientRecord) { r.AdmissionType = &t }
}

func newPatient(opts ...patientOpt) model.PatientRecord {
	r := model.PatientRecord{
		ID:      uuid.New(),
		Unit:    model.UnitNICU,
		Outcome: model.OutcomeInProgress,
		Age:     2,
		AgeUnit: model.AgeUnitDays,
		Gender:  "female",
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func cohortOf(records ...model.PatientRecord) Cohort {
	return Cohort{Records: records}
}

var nicuFilter = model.CohortFilter{Unit: model.UnitNICU, AdmissionType: model.AdmissionFilterAll}
