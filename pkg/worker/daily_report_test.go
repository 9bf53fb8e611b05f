package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog/ward-api/internal/model"
	"github.com/carelog/ward-api/internal/service/report"
	"github.com/carelog/ward-api/pkg/logger"
)

type fakePatientRepo struct{}

func (fakePatientRepo) ListByUnit(ctx context.Context, unit model.Unit) ([]model.PatientRecord, error) {
	return nil, nil
}

func (fakePatientRepo) List(ctx context.Context) ([]model.PatientRecord, error) {
	return nil, nil
}

type fakeObservationRepo struct{}

func (fakeObservationRepo) ListByUnit(ctx context.Context, unit model.Unit) ([]model.ObservationRecord, error) {
	return nil, nil
}

type fakeEmail struct {
	sent     int
	failNext bool
}

func (f *fakeEmail) SendDailySummary(to []string, rep *report.DashboardReport) error {
	if f.failNext {
		f.failNext = false
		return errors.New("smtp unreachable")
	}
	f.sent++
	return nil
}

func newTestWorker(mail *fakeEmail, now *time.Time) *DailyReportWorker {
	clock := func() time.Time { return *now }
	svc := report.NewService(fakePatientRepo{}, fakeObservationRepo{}, nil, logger.NewLogger(nil), report.Options{Now: clock})
	return NewDailyReportWorker(svc, mail, nil, logger.NewLogger(nil), DailyReportConfig{
		Units:      []model.Unit{model.UnitNICU, model.UnitPICU},
		Recipients: []string{"ward-leads@example.org"},
		SendHour:   7,
		Now:        clock,
	})
}

func TestDailyReportWaitsForSendHour(t *testing.T) {
	now := time.Date(2026, time.March, 14, 6, 59, 0, 0, time.UTC)
	mail := &fakeEmail{}
	w := newTestWorker(mail, &now)

	w.tick(context.Background())
	assert.Zero(t, mail.sent)

	now = time.Date(2026, time.March, 14, 7, 5, 0, 0, time.UTC)
	w.tick(context.Background())
	assert.Equal(t, 2, mail.sent)
}

func TestDailyReportSendsOncePerDay(t *testing.T) {
	now := time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)
	mail := &fakeEmail{}
	w := newTestWorker(mail, &now)

	w.tick(context.Background())
	require.Equal(t, 2, mail.sent)

	now = now.Add(time.Hour)
	w.tick(context.Background())
	assert.Equal(t, 2, mail.sent)

	now = now.AddDate(0, 0, 1)
	w.tick(context.Background())
	assert.Equal(t, 4, mail.sent)
}

func TestDailyReportRetriesPartialFailure(t *testing.T) {
	now := time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)
	mail := &fakeEmail{failNext: true}
	w := newTestWorker(mail, &now)

	// First unit fails; the day is not marked done.
	w.tick(context.Background())
	require.Equal(t, 1, mail.sent)

	now = now.Add(time.Minute)
	w.tick(context.Background())
	assert.Equal(t, 3, mail.sent)
}
