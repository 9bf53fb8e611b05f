package analytics

import (
	"time"

	"github.com/carelog/ward-api/internal/model"
)

// Cohort is the subset of records selected by unit, admission-type,
// temporal and shift filters, plus the data-quality counts accumulated
// while selecting. The record slice is a fresh slice over the caller's
// records; the records themselves are never copied or mutated.
type Cohort struct {
	Records []model.PatientRecord

	// MissingAdmissionDate counts records that were dropped because the
	// temporal predicate cannot be evaluated without an admission date.
	// They are reported, never silently aggregated as admitted "now".
	MissingAdmissionDate int
}

// Size returns the number of retained records.
func (c Cohort) Size() int { return len(c.Records) }

// Active returns the subset still in progress.
func (c Cohort) Active() []model.PatientRecord {
	var out []model.PatientRecord
	for _, r := range c.Records {
		if r.Outcome == model.OutcomeInProgress {
			out = append(out, r)
		}
	}
	return out
}

// FilterCohort selects the records active during the interval for the
// given unit/type/shift constraints.
//
// Temporal membership is an interval-overlap test, not an
// admitted-within-period test: a patient occupies the ward from
// admission until their outcome date (or now, while in progress), and
// counts whenever that span intersects the requested period. A patient
// admitted last month and still active today is active in "this week".
//
// An invalid interval is treated identically to all-time (fail open).
func FilterCohort(records []model.PatientRecord, f model.CohortFilter, iv Interval) Cohort {
	var c Cohort
	for i := range records {
		r := &records[i]
		if f.Unit != "" && r.Unit != f.Unit {
			continue
		}
		if !matchesAdmissionType(r, f.AdmissionType) {
			continue
		}
		if r.AdmissionDate == nil {
			c.MissingAdmissionDate++
			continue
		}
		if iv.Bounded() && !activeDuring(r, iv) {
			continue
		}
		if f.Shift != nil && f.Shift.Enabled && !f.Shift.Contains(referenceEventTime(r)) {
			continue
		}
		c.Records = append(c.Records, *r)
	}
	return c
}

func matchesAdmissionType(r *model.PatientRecord, f model.AdmissionTypeFilter) bool {
	switch f {
	case model.AdmissionFilterInborn:
		return r.IsInborn()
	case model.AdmissionFilterOutborn:
		// Substring match so sub-variants like "Outborn (Referred)"
		// still count.
		return r.IsOutborn()
	default:
		return true
	}
}

// activeDuring is the interval-overlap predicate. A record with a
// terminal outcome but no resolvable outcome date is kept: its
// occupancy end is unknown, so it is treated like a still-active stay
// rather than assumed to have ended before the period.
func activeDuring(r *model.PatientRecord, iv Interval) bool {
	if r.AdmissionDate.After(iv.End) {
		return false
	}
	if r.Outcome == model.OutcomeInProgress {
		return true
	}
	end := outcomeDate(r)
	if end == nil {
		return true
	}
	return !end.Before(iv.Start)
}

// outcomeDate resolves the date a stay ended, following the fixed
// fallback order release, final discharge, step-down, death. Nil when
// none is recorded.
func outcomeDate(r *model.PatientRecord) *time.Time {
	for _, d := range []*time.Time{r.ReleaseDate, r.FinalDischargeDate, r.StepDownDate, r.DateOfDeath} {
		if d != nil {
			return d
		}
	}
	return nil
}

// referenceEventTime extracts the time-of-day of the record's reference
// event for shift filtering. The event depends on the outcome; the date
// is discarded entirely, only the clock time matters.
func referenceEventTime(r *model.PatientRecord) model.TimeOfDay {
	var at *time.Time
	switch r.Outcome {
	case model.OutcomeDischarged:
		at = firstSet(r.ReleaseDate, r.FinalDischargeDate)
	case model.OutcomeStepDown:
		at = r.StepDownDate
	case model.OutcomeReferred, model.OutcomeDeceased:
		at = r.ReleaseDate
	}
	if at == nil {
		at = r.AdmissionDate
	}
	return model.TimeOfDay(at.Hour()*60 + at.Minute())
}

func firstSet(dates ...*time.Time) *time.Time {
	for _, d := range dates {
		if d != nil {
			return d
		}
	}
	return nil
}

// AdmissionsWithin counts records whose admission date falls strictly
// inside the interval. This is deliberately a different predicate from
// FilterCohort's interval-overlap test and the two must not be
// conflated: "new admissions this week" and "active this week" answer
// different questions.
func AdmissionsWithin(records []model.PatientRecord, iv Interval) int {
	n := 0
	for i := range records {
		ad := records[i].AdmissionDate
		if ad == nil {
			continue
		}
		if !iv.Bounded() || (!ad.Before(iv.Start) && !ad.After(iv.End)) {
			n++
		}
	}
	return n
}

// ObservationCohort mirrors Cohort for pre-admission tracking entries.
type ObservationCohort struct {
	Records                []model.ObservationRecord
	MissingObservationDate int
}

// Size returns the number of retained entries.
func (c ObservationCohort) Size() int { return len(c.Records) }

// FilterObservations applies the same temporal-membership rules to
// observation entries, with the observation date standing in for the
// admission date and the discharge timestamp for the release chain.
func FilterObservations(records []model.ObservationRecord, unit model.Unit, iv Interval) ObservationCohort {
	var c ObservationCohort
	for i := range records {
		r := &records[i]
		if unit != "" && r.Unit != unit {
			continue
		}
		if r.DateOfObservation == nil {
			c.MissingObservationDate++
			continue
		}
		if iv.Bounded() {
			if r.DateOfObservation.After(iv.End) {
				continue
			}
			if r.Outcome != model.ObservationInObservation && r.DischargedAt != nil && r.DischargedAt.Before(iv.Start) {
				continue
			}
		}
		c.Records = append(c.Records, *r)
	}
	return c
}
