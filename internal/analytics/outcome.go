package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/carelog/ward-api/internal/model"
)

// LOSStats are descriptive length-of-stay statistics in whole days.
// Only records with a terminal outcome and a resolvable end date
// contribute; Skipped counts terminal records whose end date could not
// be resolved (inconsistent data entry) and which were therefore left
// out of the statistic rather than zeroed.
type LOSStats struct {
	Samples int     `json:"samples"`
	Skipped int     `json:"skipped"`
	Mean    float64 `json:"mean"`
	Median  int     `json:"median"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
}

// OutcomeStats are per-cohort outcome counts and rates. Every rate is a
// percentage rounded to one decimal; an empty cohort yields all-zero
// rates, never NaN.
type OutcomeStats struct {
	Total int `json:"total"`

	InProgress int `json:"in_progress"`
	Discharged int `json:"discharged"`
	Referred   int `json:"referred"`
	Deceased   int `json:"deceased"`
	StepDown   int `json:"step_down"`

	InProgressRate float64 `json:"in_progress_rate"`
	DischargeRate  float64 `json:"discharge_rate"`
	ReferralRate   float64 `json:"referral_rate"`
	MortalityRate  float64 `json:"mortality_rate"`
	StepDownRate   float64 `json:"step_down_rate"`

	// SuccessRate counts discharges and step-downs together.
	SuccessRate float64 `json:"success_rate"`

	InbornTotal          int     `json:"inborn_total"`
	InbornDeceased       int     `json:"inborn_deceased"`
	InbornMortalityRate  float64 `json:"inborn_mortality_rate"`
	OutbornTotal         int     `json:"outborn_total"`
	OutbornDeceased      int     `json:"outborn_deceased"`
	OutbornMortalityRate float64 `json:"outborn_mortality_rate"`

	UnderFiveTotal         int     `json:"under_five_total"`
	UnderFiveDeceased      int     `json:"under_five_deceased"`
	UnderFiveMortalityRate float64 `json:"under_five_mortality_rate"`

	LOS LOSStats `json:"los"`
}

// Rate computes count/total as a percentage rounded to one decimal. A
// zero total yields 0.
func Rate(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

// AggregateOutcomes computes outcome counts, rates and length-of-stay
// statistics over an already-filtered cohort.
func AggregateOutcomes(c Cohort) OutcomeStats {
	s := OutcomeStats{Total: c.Size()}

	var losDays []int
	for i := range c.Records {
		r := &c.Records[i]
		switch r.Outcome {
		case model.OutcomeInProgress:
			s.InProgress++
		case model.OutcomeDischarged:
			s.Discharged++
		case model.OutcomeReferred:
			s.Referred++
		case model.OutcomeDeceased:
			s.Deceased++
		case model.OutcomeStepDown:
			s.StepDown++
		}

		if r.IsInborn() {
			s.InbornTotal++
			if r.Outcome == model.OutcomeDeceased {
				s.InbornDeceased++
			}
		}
		if r.IsOutborn() {
			s.OutbornTotal++
			if r.Outcome == model.OutcomeDeceased {
				s.OutbornDeceased++
			}
		}
		if r.AgeInYears() < 5 {
			s.UnderFiveTotal++
			if r.Outcome == model.OutcomeDeceased {
				s.UnderFiveDeceased++
			}
		}

		// LOS is only computed for completed stays.
		if r.Outcome == model.OutcomeInProgress {
			continue
		}
		if d, ok := lengthOfStay(r); ok {
			losDays = append(losDays, d)
		} else {
			s.LOS.Skipped++
		}
	}

	s.InProgressRate = Rate(s.InProgress, s.Total)
	s.DischargeRate = Rate(s.Discharged, s.Total)
	s.ReferralRate = Rate(s.Referred, s.Total)
	s.MortalityRate = Rate(s.Deceased, s.Total)
	s.StepDownRate = Rate(s.StepDown, s.Total)
	s.SuccessRate = Rate(s.Discharged+s.StepDown, s.Total)
	s.InbornMortalityRate = Rate(s.InbornDeceased, s.InbornTotal)
	s.OutbornMortalityRate = Rate(s.OutbornDeceased, s.OutbornTotal)
	s.UnderFiveMortalityRate = Rate(s.UnderFiveDeceased, s.UnderFiveTotal)

	s.LOS = losStats(losDays, s.LOS.Skipped)
	return s
}

// lengthOfStay is ceil(end-admission) in days over the release,
// final-discharge, step-down fallback chain.
func lengthOfStay(r *model.PatientRecord) (int, bool) {
	if r.AdmissionDate == nil {
		return 0, false
	}
	end := firstSet(r.ReleaseDate, r.FinalDischargeDate, r.StepDownDate)
	if end == nil {
		return 0, false
	}
	d := end.Sub(*r.AdmissionDate)
	if d < 0 {
		return 0, false
	}
	days := int(math.Ceil(d.Hours() / 24))
	return days, true
}

func losStats(days []int, skipped int) LOSStats {
	st := LOSStats{Samples: len(days), Skipped: skipped}
	if len(days) == 0 {
		return st
	}

	sort.Ints(days)
	sum := 0
	for _, d := range days {
		sum += d
	}
	st.Mean = math.Round(float64(sum)/float64(len(days))*10) / 10
	// Lower median: the element at floor(n/2) of the sorted list, never
	// an average of the two middle values. Consumers depend on this
	// exact tie-break.
	st.Median = days[len(days)/2]
	st.Min = days[0]
	st.Max = days[len(days)-1]
	return st
}

// ObservationStats are outcome counts over an observation cohort.
type ObservationStats struct {
	Total          int     `json:"total"`
	InObservation  int     `json:"in_observation"`
	HandedOver     int     `json:"handed_over"`
	Converted      int     `json:"converted"`
	HandoverRate   float64 `json:"handover_rate"`
	ConversionRate float64 `json:"conversion_rate"`
}

// AggregateObservations tallies observation outcomes.
func AggregateObservations(c ObservationCohort) ObservationStats {
	s := ObservationStats{Total: c.Size()}
	for i := range c.Records {
		switch c.Records[i].Outcome {
		case model.ObservationInObservation:
			s.InObservation++
		case model.ObservationHandedOver:
			s.HandedOver++
		case model.ObservationConverted:
			s.Converted++
		}
	}
	s.HandoverRate = Rate(s.HandedOver, s.Total)
	s.ConversionRate = Rate(s.Converted, s.Total)
	return s
}

// timeToDeath returns the interval from admission to death when both
// dates are present.
func timeToDeath(r *model.PatientRecord) (time.Duration, bool) {
	if r.AdmissionDate == nil || r.DateOfDeath == nil {
		return 0, false
	}
	d := r.DateOfDeath.Sub(*r.AdmissionDate)
	if d < 0 {
		return 0, false
	}
	return d, true
}
