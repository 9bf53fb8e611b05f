package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog/ward-api/internal/analytics"
	"github.com/carelog/ward-api/internal/model"
	"github.com/carelog/ward-api/pkg/logger"
)

type fakePatientRepo struct {
	records []model.PatientRecord
	calls   int
}

func (f *fakePatientRepo) ListByUnit(ctx context.Context, unit model.Unit) ([]model.PatientRecord, error) {
	f.calls++
	var out []model.PatientRecord
	for _, r := range f.records {
		if r.Unit == unit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakePatientRepo) List(ctx context.Context) ([]model.PatientRecord, error) {
	f.calls++
	return f.records, nil
}

type fakeObservationRepo struct {
	records []model.ObservationRecord
}

func (f *fakeObservationRepo) ListByUnit(ctx context.Context, unit model.Unit) ([]model.ObservationRecord, error) {
	return f.records, nil
}

func testClock() func() time.Time {
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func nicuPatient(admitted time.Time, outcome model.Outcome) model.PatientRecord {
	r := model.PatientRecord{
		ID:            uuid.New(),
		Unit:          model.UnitNICU,
		Outcome:       outcome,
		Age:           2,
		AgeUnit:       model.AgeUnitDays,
		Gender:        "male",
		AdmissionDate: &admitted,
	}
	if outcome == model.OutcomeDischarged {
		rel := admitted.AddDate(0, 0, 3)
		r.ReleaseDate = &rel
	}
	if outcome == model.OutcomeDeceased {
		d := admitted.AddDate(0, 0, 1)
		r.DateOfDeath = &d
		r.ReleaseDate = &d
	}
	return r
}

func newTestService(repo *fakePatientRepo) *Service {
	return NewService(repo, &fakeObservationRepo{}, nil, logger.NewLogger(nil), Options{
		WeekStart: time.Sunday,
		TopN:      10,
		CacheTTL:  time.Minute,
		Now:       testClock(),
	})
}

func TestDashboardReport(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, time.March, d, 8, 0, 0, 0, time.UTC) }
	repo := &fakePatientRepo{records: []model.PatientRecord{
		nicuPatient(day(1), model.OutcomeInProgress),
		nicuPatient(day(14), model.OutcomeInProgress),
		nicuPatient(day(2), model.OutcomeDischarged),
		nicuPatient(day(10), model.OutcomeDeceased),
	}}
	svc := newTestService(repo)

	rep, err := svc.Dashboard(context.Background(), Query{
		Unit:          model.UnitNICU,
		Period:        model.PeriodSelector{Kind: model.PeriodThisMonth},
		AdmissionType: model.AdmissionFilterAll,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, rep.Outcomes.Total)
	assert.Equal(t, 2, rep.Outcomes.InProgress)
	assert.Equal(t, 4, rep.NewAdmissions)
	// Both in-progress neonates are under seven days old at entry.
	assert.Equal(t, 2, rep.Risk.High+rep.Risk.Medium+rep.Risk.Low)
}

func TestDashboardMemoization(t *testing.T) {
	repo := &fakePatientRepo{records: []model.PatientRecord{
		nicuPatient(time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC), model.OutcomeInProgress),
	}}
	svc := newTestService(repo)
	q := Query{Unit: model.UnitNICU, Period: model.PeriodSelector{Kind: model.PeriodThisMonth}, AdmissionType: model.AdmissionFilterAll}

	first, err := svc.Dashboard(context.Background(), q)
	require.NoError(t, err)
	second, err := svc.Dashboard(context.Background(), q)
	require.NoError(t, err)

	// Identical inputs, identical outputs, one snapshot read.
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)

	svc.InvalidateUnit(model.UnitNICU)
	_, err = svc.Dashboard(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestMortalityReport(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, time.March, d, 8, 0, 0, 0, time.UTC) }
	dx := "Neonatal sepsis"
	dead := nicuPatient(day(5), model.OutcomeDeceased)
	dead.Diagnosis = &dx
	repo := &fakePatientRepo{records: []model.PatientRecord{
		dead,
		nicuPatient(day(1), model.OutcomeDischarged),
		nicuPatient(day(2), model.OutcomeInProgress),
	}}
	svc := newTestService(repo)

	rep, err := svc.Mortality(context.Background(), Query{
		Unit:          model.UnitNICU,
		Period:        model.PeriodSelector{Kind: model.PeriodThisMonth},
		AdmissionType: model.AdmissionFilterAll,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Total)
	assert.Equal(t, 1, rep.Deceased)
	assert.Equal(t, analytics.Rate(1, 3), rep.MortalityRate)
	require.Len(t, rep.TopDiagnoses, 1)
	assert.Equal(t, dx, rep.TopDiagnoses[0].Key)
	// Breakdowns cover deceased records only.
	require.Len(t, rep.GenderBreakdown, 1)
	assert.Equal(t, 1, rep.GenderBreakdown[0].Total)
}

func TestDistributionUnknownDimensionSurfaces(t *testing.T) {
	svc := newTestService(&fakePatientRepo{})

	_, err := svc.Distribution(context.Background(), Query{
		Unit:          model.UnitNICU,
		Period:        model.PeriodSelector{Kind: model.PeriodAllTime},
		AdmissionType: model.AdmissionFilterAll,
	}, analytics.Dimension("bogus"))

	require.Error(t, err)
	assert.ErrorIs(t, err, analytics.ErrUnknownDimension)
}

func TestCensusEndToEnd(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, time.March, d, 8, 0, 0, 0, time.UTC) }
	leaving := nicuPatient(day(3), model.OutcomeDischarged)
	rel := day(3)
	leaving.ReleaseDate = &rel
	repo := &fakePatientRepo{records: []model.PatientRecord{
		nicuPatient(day(1), model.OutcomeInProgress),
		nicuPatient(day(2), model.OutcomeInProgress),
		leaving,
	}}
	svc := newTestService(repo)
	q := Query{Unit: model.UnitNICU, Period: model.PeriodSelector{Kind: model.PeriodAllTime}, AdmissionType: model.AdmissionFilterAll}

	series, err := svc.Census(context.Background(), q, analytics.GranularityDay, 1)
	require.NoError(t, err)

	require.Len(t, series, 1)
	assert.Equal(t, 2, series[0].Census)
}
