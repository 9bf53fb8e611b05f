package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/carelog/ward-api/internal/model"
)

// Dimension names a categorical grouping for BuildDistribution.
type Dimension string

const (
	DimensionDiagnosis       Dimension = "diagnosis"
	DimensionReferral        Dimension = "referral"
	DimensionGender          Dimension = "gender"
	DimensionAdmissionType   Dimension = "admission_type"
	DimensionWeightBand      Dimension = "weight_band"
	DimensionLOSBand         Dimension = "los_band"
	DimensionTimeToDeathBand Dimension = "time_to_death_band"
	DimensionDayOfWeek       Dimension = "day_of_week"
	DimensionHourOfDay       Dimension = "hour_of_day"
	DimensionMonth           Dimension = "month"
)

// ErrUnknownDimension indicates a programming error, not a data-quality
// issue, and fails the call loudly.
var ErrUnknownDimension = fmt.Errorf("unknown distribution dimension")

// UnknownKey buckets missing category values. Records with a missing
// value are never dropped from a distribution.
const UnknownKey = "Unknown"

// Group is one bucket of a distribution.
type Group struct {
	Key           string  `json:"key"`
	Total         int     `json:"total"`
	Deceased      int     `json:"deceased"`
	MortalityRate float64 `json:"mortality_rate"`
}

// DistributionOptions tunes BuildDistribution.
type DistributionOptions struct {
	// TopN truncates the result after the full distribution is computed
	// and sorted. Zero means no truncation. The reference screens use
	// 10 for diagnosis and referral breakdowns.
	TopN int
}

// BuildDistribution groups a cohort by the requested dimension and
// tallies per-group totals and deaths. Groups are sorted descending by
// total; ties keep first-seen order. Banded dimensions use fixed
// half-open boundaries tested in order, first match wins.
func BuildDistribution(c Cohort, dim Dimension, opts DistributionOptions) ([]Group, error) {
	keyOf, err := grouper(dim)
	if err != nil {
		return nil, err
	}

	idx := map[string]int{}
	var groups []Group
	for i := range c.Records {
		r := &c.Records[i]
		key, ok := keyOf(r)
		if !ok {
			// Dimension not applicable to this record (e.g.
			// time-to-death for a survivor); skip, don't bucket.
			continue
		}
		j, seen := idx[key]
		if !seen {
			j = len(groups)
			idx[key] = j
			groups = append(groups, Group{Key: key})
		}
		groups[j].Total++
		if r.Outcome == model.OutcomeDeceased {
			groups[j].Deceased++
		}
	}

	for i := range groups {
		groups[i].MortalityRate = Rate(groups[i].Deceased, groups[i].Total)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Total > groups[b].Total
	})

	if opts.TopN > 0 && len(groups) > opts.TopN {
		groups = groups[:opts.TopN]
	}
	return groups, nil
}

// grouper maps a dimension to its key function. The second return
// reports whether the record participates in the dimension at all.
func grouper(dim Dimension) (func(*model.PatientRecord) (string, bool), error) {
	switch dim {
	case DimensionDiagnosis:
		return func(r *model.PatientRecord) (string, bool) {
			return stringOrUnknown(r.Diagnosis), true
		}, nil

	case DimensionReferral:
		return func(r *model.PatientRecord) (string, bool) {
			return stringOrUnknown(r.ReferringHospital), true
		}, nil

	case DimensionGender:
		return func(r *model.PatientRecord) (string, bool) {
			if r.Gender == "" {
				return UnknownKey, true
			}
			return r.Gender, true
		}, nil

	case DimensionAdmissionType:
		return func(r *model.PatientRecord) (string, bool) {
			return stringOrUnknown(r.AdmissionType), true
		}, nil

	case DimensionWeightBand:
		return func(r *model.PatientRecord) (string, bool) {
			if r.WeightKg == nil {
				return UnknownKey, true
			}
			return weightBand(*r.WeightKg), true
		}, nil

	case DimensionLOSBand:
		return func(r *model.PatientRecord) (string, bool) {
			if r.Outcome == model.OutcomeInProgress {
				return "", false
			}
			d, ok := lengthOfStay(r)
			if !ok {
				return UnknownKey, true
			}
			return losBand(d), true
		}, nil

	case DimensionTimeToDeathBand:
		return func(r *model.PatientRecord) (string, bool) {
			if r.Outcome != model.OutcomeDeceased {
				return "", false
			}
			d, ok := timeToDeath(r)
			if !ok {
				return UnknownKey, true
			}
			return timeToDeathBand(d), true
		}, nil

	case DimensionDayOfWeek:
		return func(r *model.PatientRecord) (string, bool) {
			if r.AdmissionDate == nil {
				return UnknownKey, true
			}
			return r.AdmissionDate.Weekday().String(), true
		}, nil

	case DimensionHourOfDay:
		return func(r *model.PatientRecord) (string, bool) {
			if r.AdmissionDate == nil {
				return UnknownKey, true
			}
			return fmt.Sprintf("%02d:00", r.AdmissionDate.Hour()), true
		}, nil

	case DimensionMonth:
		return func(r *model.PatientRecord) (string, bool) {
			if r.AdmissionDate == nil {
				return UnknownKey, true
			}
			return r.AdmissionDate.Format("2006-01"), true
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}
}

func stringOrUnknown(s *string) string {
	if s == nil || *s == "" {
		return UnknownKey
	}
	return *s
}

// weightBand applies the fixed half-open birth-weight bands, first
// match wins.
func weightBand(kg float64) string {
	switch {
	case kg < 1:
		return "<1kg"
	case kg < 1.5:
		return "1-1.5kg"
	case kg < 2:
		return "1.5-2kg"
	case kg < 2.5:
		return "2-2.5kg"
	default:
		return ">=2.5kg"
	}
}

func losBand(days int) string {
	switch {
	case days <= 3:
		return "0-3 days"
	case days <= 7:
		return "4-7 days"
	case days <= 14:
		return "8-14 days"
	case days <= 30:
		return "15-30 days"
	default:
		return ">30 days"
	}
}

func timeToDeathBand(d time.Duration) string {
	switch {
	case d < 24*time.Hour:
		return "<24h"
	case d < 72*time.Hour:
		return "1-3 days"
	case d < 7*24*time.Hour:
		return "4-7 days"
	default:
		return ">7 days"
	}
}
