package analytics

import (
	"strings"

	"github.com/carelog/ward-api/internal/model"
)

// RiskTier is one of the three mutually exclusive risk levels assigned
// to currently-active patients.
type RiskTier string

const (
	RiskHigh   RiskTier = "high"
	RiskMedium RiskTier = "medium"
	RiskLow    RiskTier = "low"
)

// criticalDiagnoses are the flagged substrings that alone place a
// patient in the high tier. Matched case-insensitively against the free
// text diagnosis.
var criticalDiagnoses = []string{
	"sepsis",
	"asphyxia",
	"hie",
	"shock",
	"meningitis",
	"respiratory distress",
	"seizure",
}

// RiskResult holds the tier member lists; counts derive from them so
// the two can never disagree.
type RiskResult struct {
	High   []model.PatientRecord `json:"high"`
	Medium []model.PatientRecord `json:"medium"`
	Low    []model.PatientRecord `json:"low"`
}

// TierCounts are the aggregate tier sizes.
type TierCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Counts returns the per-tier sizes. They always sum to the active
// cohort size.
func (r RiskResult) Counts() TierCounts {
	return TierCounts{High: len(r.High), Medium: len(r.Medium), Low: len(r.Low)}
}

// ClassifyRisk assigns every in-progress patient in the cohort to
// exactly one tier. The rules are prioritized and evaluated top-down:
// a patient matching the high rule never reaches the medium rule, so
// no patient is ever double-counted.
func ClassifyRisk(c Cohort) RiskResult {
	var res RiskResult
	for _, r := range c.Active() {
		switch classify(&r) {
		case RiskHigh:
			res.High = append(res.High, r)
		case RiskMedium:
			res.Medium = append(res.Medium, r)
		default:
			res.Low = append(res.Low, r)
		}
	}
	return res
}

func classify(r *model.PatientRecord) RiskTier {
	if r.WeightKg != nil && *r.WeightKg < 1.5 {
		return RiskHigh
	}
	if r.AgeUnit == model.AgeUnitDays && r.Age < 1 {
		return RiskHigh
	}
	if hasCriticalDiagnosis(r) {
		return RiskHigh
	}
	if r.WeightKg != nil && *r.WeightKg >= 1.5 && *r.WeightKg < 2.5 {
		return RiskMedium
	}
	if r.AgeUnit == model.AgeUnitDays && r.Age >= 1 && r.Age < 7 {
		return RiskMedium
	}
	return RiskLow
}

func hasCriticalDiagnosis(r *model.PatientRecord) bool {
	if r.Diagnosis == nil {
		return false
	}
	dx := strings.ToLower(*r.Diagnosis)
	for _, c := range criticalDiagnoses {
		if strings.Contains(dx, c) {
			return true
		}
	}
	return false
}
