package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog/ward-api/internal/model"
)

func TestClassifyRiskTiersAreExclusive(t *testing.T) {
	// 1.2 kg and 3 days old satisfies both the high weight rule and the
	// medium age rule; the prioritized evaluation puts it in high only.
	both := newPatient(admitted(day(2026, time.March, 1)), withWeight(1.2), withAge(3, model.AgeUnitDays))

	res := ClassifyRisk(cohortOf(both))

	counts := res.Counts()
	assert.Equal(t, 1, counts.High)
	assert.Equal(t, 0, counts.Medium)
	assert.Equal(t, 0, counts.Low)
}

func TestClassifyRiskRules(t *testing.T) {
	tests := []struct {
		name string
		r    model.PatientRecord
		tier RiskTier
	}{
		{"very low birth weight", newPatient(withWeight(1.4), withAge(30, model.AgeUnitDays)), RiskHigh},
		{"first day of life", newPatient(withAge(0.5, model.AgeUnitDays)), RiskHigh},
		{"critical diagnosis", newPatient(withAge(2, model.AgeUnitMonths), withDiagnosis("Severe birth asphyxia")), RiskHigh},
		{"low birth weight", newPatient(withWeight(1.8), withAge(30, model.AgeUnitDays)), RiskMedium},
		{"early neonate", newPatient(withAge(3, model.AgeUnitDays)), RiskMedium},
		{"weight band upper bound", newPatient(withWeight(2.5), withAge(30, model.AgeUnitDays)), RiskLow},
		{"age in months not days", newPatient(withAge(3, model.AgeUnitMonths)), RiskLow},
		{"no flags", newPatient(withWeight(3.1), withAge(2, model.AgeUnitYears)), RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.r
			r.AdmissionDate = tp(day(2026, time.March, 1))
			res := ClassifyRisk(cohortOf(r))

			var got RiskTier
			switch {
			case len(res.High) == 1:
				got = RiskHigh
			case len(res.Medium) == 1:
				got = RiskMedium
			default:
				got = RiskLow
			}
			assert.Equal(t, tt.tier, got)
		})
	}
}

func TestClassifyRiskOnlyActivePatients(t *testing.T) {
	c := cohortOf(
		newPatient(admitted(day(2026, time.March, 1)), withWeight(1.2)),
		newPatient(admitted(day(2026, time.March, 1)), withWeight(1.2), withOutcome(model.OutcomeDischarged), released(day(2026, time.March, 5))),
	)

	res := ClassifyRisk(c)

	counts := res.Counts()
	assert.Equal(t, 1, counts.High+counts.Medium+counts.Low)
	assert.Len(t, c.Active(), counts.High+counts.Medium+counts.Low)
}

func TestClassifyRiskCountsSumToActiveCohort(t *testing.T) {
	c := cohortOf(
		newPatient(admitted(day(2026, time.March, 1)), withWeight(1.2)),
		newPatient(admitted(day(2026, time.March, 1)), withWeight(1.8), withAge(30, model.AgeUnitDays)),
		newPatient(admitted(day(2026, time.March, 1)), withWeight(3.0), withAge(2, model.AgeUnitYears)),
		newPatient(admitted(day(2026, time.March, 1)), withDiagnosis("Neonatal sepsis")),
	)

	res := ClassifyRisk(c)

	counts := res.Counts()
	require.Equal(t, len(c.Active()), counts.High+counts.Medium+counts.Low)

	// Member lists back the counts for drill-down.
	assert.Len(t, res.High, counts.High)
	assert.Len(t, res.Medium, counts.Medium)
	assert.Len(t, res.Low, counts.Low)
}
