package worker

import (
	"context"
	"time"

	"github.com/carelog/ward-api/internal/email"
	"github.com/carelog/ward-api/internal/model"
	"github.com/carelog/ward-api/internal/service/report"
	"github.com/carelog/ward-api/pkg/logger"
	"github.com/carelog/ward-api/pkg/metrics"
)

// DailyReportWorker emails yesterday's dashboard summary for each
// enabled unit once per day. A failed send is logged and retried on the
// next tick; it never stops the worker.
type DailyReportWorker struct {
	reports    *report.Service
	email      email.Service
	logger     *logger.Logger
	metrics    *metrics.Metrics
	units      []model.Unit
	recipients []string
	sendHour   int
	interval   time.Duration

	lastSent time.Time
	now      func() time.Time
}

type DailyReportConfig struct {
	Units      []model.Unit
	Recipients []string
	// SendHour is the local hour of day the summary goes out.
	SendHour int
	// Interval is how often the worker checks whether a send is due.
	Interval time.Duration
	Now      func() time.Time
}

func NewDailyReportWorker(reports *report.Service, emailSvc email.Service, m *metrics.Metrics, log *logger.Logger, cfg DailyReportConfig) *DailyReportWorker {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &DailyReportWorker{
		reports:    reports,
		email:      emailSvc,
		logger:     log,
		metrics:    m,
		units:      cfg.Units,
		recipients: cfg.Recipients,
		sendHour:   cfg.SendHour,
		interval:   cfg.Interval,
		now:        cfg.Now,
	}
}

func (w *DailyReportWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *DailyReportWorker) tick(ctx context.Context) {
	now := w.now()
	if now.Hour() < w.sendHour || sameDay(now, w.lastSent) {
		return
	}

	yesterday := now.AddDate(0, 0, -1)
	start := yesterday
	end := yesterday
	sel := model.PeriodSelector{Kind: model.PeriodCustom, Start: &start, End: &end}

	ok := true
	for _, unit := range w.units {
		rep, err := w.reports.Dashboard(ctx, report.Query{
			Unit:          unit,
			Period:        sel,
			AdmissionType: model.AdmissionFilterAll,
		})
		if err != nil {
			w.logger.Error(err, "daily summary computation failed", "unit", string(unit))
			ok = false
			continue
		}
		if err := w.email.SendDailySummary(w.recipients, rep); err != nil {
			w.logger.Error(err, "daily summary send failed", "unit", string(unit))
			if w.metrics != nil {
				w.metrics.DailyReportsFailed.Inc()
			}
			ok = false
			continue
		}
		if w.metrics != nil {
			w.metrics.DailyReportsSent.Inc()
		}
	}

	// Only mark the day done when every unit went out, so a partial
	// failure is retried next tick.
	if ok {
		w.lastSent = now
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
