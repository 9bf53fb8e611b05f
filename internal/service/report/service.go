package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/carelog/ward-api/internal/analytics"
	"github.com/carelog/ward-api/internal/model"
	"github.com/carelog/ward-api/internal/repository"
	apperrors "github.com/carelog/ward-api/pkg/errors"
	"github.com/carelog/ward-api/pkg/logger"
	"github.com/carelog/ward-api/pkg/messaging"
	"github.com/carelog/ward-api/pkg/metrics"
)

// Query bundles everything that scopes a report: the ward, the period
// selector and the optional admission-type and shift constraints.
type Query struct {
	Unit          model.Unit                `json:"unit"`
	Period        model.PeriodSelector      `json:"period"`
	AdmissionType model.AdmissionTypeFilter `json:"admission_type"`
	Shift         *model.ShiftWindow        `json:"shift,omitempty"`
}

// DataQuality reports records whose contribution was degraded by
// inconsistent data entry. Surfaced alongside results, never as errors.
type DataQuality struct {
	MissingAdmissionDate int `json:"missing_admission_date"`
	LOSSkipped           int `json:"los_skipped"`
}

// DashboardReport backs the ward dashboard screen.
type DashboardReport struct {
	Unit          model.Unit             `json:"unit"`
	GeneratedAt   time.Time              `json:"generated_at"`
	Outcomes      analytics.OutcomeStats `json:"outcomes"`
	NewAdmissions int                    `json:"new_admissions"`
	Risk          analytics.TierCounts   `json:"risk"`
	DataQuality   DataQuality            `json:"data_quality"`
}

// MortalityReport backs the mortality analytics screen.
type MortalityReport struct {
	Unit            model.Unit        `json:"unit"`
	GeneratedAt     time.Time         `json:"generated_at"`
	Total           int               `json:"total"`
	Deceased        int               `json:"deceased"`
	MortalityRate   float64           `json:"mortality_rate"`
	InbornRate      float64           `json:"inborn_mortality_rate"`
	OutbornRate     float64           `json:"outborn_mortality_rate"`
	TimeToDeath     []analytics.Group `json:"time_to_death"`
	TopDiagnoses    []analytics.Group `json:"top_diagnoses"`
	TopReferrals    []analytics.Group `json:"top_referrals"`
	GenderBreakdown []analytics.Group `json:"gender_breakdown"`
	DataQuality     DataQuality       `json:"data_quality"`
}

// RiskReport carries tier counts plus the member lists for drill-down.
type RiskReport struct {
	Unit    model.Unit           `json:"unit"`
	Counts  analytics.TierCounts `json:"counts"`
	Members analytics.RiskResult `json:"members"`
}

// Service orchestrates snapshot reads and the analytics engine for the
// presentation layer. Engine results are memoized for a short TTL keyed
// on the query; record-change events drop a unit's entries early. This
// is a pure optimization: a cache hit and a recomputation are
// indistinguishable to callers.
type Service struct {
	patients     repository.PatientRecordRepository
	observations repository.ObservationRepository
	cache        *cache.Cache
	metrics      *metrics.Metrics
	logger       *logger.Logger

	periodOpts analytics.PeriodOptions
	topN       int
	now        func() time.Time
}

// Options tunes the service.
type Options struct {
	WeekStart time.Weekday
	TopN      int
	CacheTTL  time.Duration
	// Now is the injected clock; defaults to time.Now.
	Now func() time.Time
}

func NewService(patients repository.PatientRecordRepository, observations repository.ObservationRepository, m *metrics.Metrics, log *logger.Logger, opts Options) *Service {
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		patients:     patients,
		observations: observations,
		cache:        cache.New(opts.CacheTTL, 2*opts.CacheTTL),
		metrics:      m,
		logger:       log,
		periodOpts:   analytics.PeriodOptions{WeekStart: opts.WeekStart},
		topN:         opts.TopN,
		now:          opts.Now,
	}
}

// Dashboard computes the ward dashboard aggregates for a query.
func (s *Service) Dashboard(ctx context.Context, q Query) (*DashboardReport, error) {
	key := cacheKey("dashboard", q, "")
	if v, ok := s.cacheGet(key); ok {
		return v.(*DashboardReport), nil
	}

	done := s.observe("dashboard")
	defer done()

	records, iv, err := s.snapshot(ctx, q)
	if err != nil {
		return nil, err
	}

	cohort := analytics.FilterCohort(records, q.filter(), iv)
	outcomes := analytics.AggregateOutcomes(cohort)
	risk := analytics.ClassifyRisk(cohort)

	rep := &DashboardReport{
		Unit:          q.Unit,
		GeneratedAt:   s.now(),
		Outcomes:      outcomes,
		NewAdmissions: analytics.AdmissionsWithin(records, iv),
		Risk:          risk.Counts(),
		DataQuality: DataQuality{
			MissingAdmissionDate: cohort.MissingAdmissionDate,
			LOSSkipped:           outcomes.LOS.Skipped,
		},
	}
	s.reportQuality(q.Unit, rep.DataQuality)
	s.cache.SetDefault(key, rep)
	return rep, nil
}

// Mortality computes the mortality analytics aggregates for a query.
func (s *Service) Mortality(ctx context.Context, q Query) (*MortalityReport, error) {
	key := cacheKey("mortality", q, "")
	if v, ok := s.cacheGet(key); ok {
		return v.(*MortalityReport), nil
	}

	done := s.observe("mortality")
	defer done()

	records, iv, err := s.snapshot(ctx, q)
	if err != nil {
		return nil, err
	}

	cohort := analytics.FilterCohort(records, q.filter(), iv)
	outcomes := analytics.AggregateOutcomes(cohort)

	deceased := analytics.Cohort{}
	for _, r := range cohort.Records {
		if r.Outcome == model.OutcomeDeceased {
			deceased.Records = append(deceased.Records, r)
		}
	}

	ttd, err := analytics.BuildDistribution(deceased, analytics.DimensionTimeToDeathBand, analytics.DistributionOptions{})
	if err != nil {
		return nil, fmt.Errorf("time-to-death breakdown: %w", err)
	}
	topDx, err := analytics.BuildDistribution(deceased, analytics.DimensionDiagnosis, analytics.DistributionOptions{TopN: s.topN})
	if err != nil {
		return nil, fmt.Errorf("diagnosis breakdown: %w", err)
	}
	topRef, err := analytics.BuildDistribution(deceased, analytics.DimensionReferral, analytics.DistributionOptions{TopN: s.topN})
	if err != nil {
		return nil, fmt.Errorf("referral breakdown: %w", err)
	}
	gender, err := analytics.BuildDistribution(deceased, analytics.DimensionGender, analytics.DistributionOptions{})
	if err != nil {
		return nil, fmt.Errorf("gender breakdown: %w", err)
	}

	rep := &MortalityReport{
		Unit:            q.Unit,
		GeneratedAt:     s.now(),
		Total:           outcomes.Total,
		Deceased:        outcomes.Deceased,
		MortalityRate:   outcomes.MortalityRate,
		InbornRate:      outcomes.InbornMortalityRate,
		OutbornRate:     outcomes.OutbornMortalityRate,
		TimeToDeath:     ttd,
		TopDiagnoses:    topDx,
		TopReferrals:    topRef,
		GenderBreakdown: gender,
		DataQuality: DataQuality{
			MissingAdmissionDate: cohort.MissingAdmissionDate,
			LOSSkipped:           outcomes.LOS.Skipped,
		},
	}
	s.cache.SetDefault(key, rep)
	return rep, nil
}

// Distribution computes a single grouped breakdown.
func (s *Service) Distribution(ctx context.Context, q Query, dim analytics.Dimension) ([]analytics.Group, error) {
	key := cacheKey("distribution", q, string(dim))
	if v, ok := s.cacheGet(key); ok {
		return v.([]analytics.Group), nil
	}

	done := s.observe("distribution")
	defer done()

	records, iv, err := s.snapshot(ctx, q)
	if err != nil {
		return nil, err
	}

	cohort := analytics.FilterCohort(records, q.filter(), iv)

	opts := analytics.DistributionOptions{}
	if dim == analytics.DimensionDiagnosis || dim == analytics.DimensionReferral {
		opts.TopN = s.topN
	}
	groups, err := analytics.BuildDistribution(cohort, dim, opts)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, groups)
	return groups, nil
}

// Census computes the running-census series.
func (s *Service) Census(ctx context.Context, q Query, g analytics.Granularity, lastN int) ([]analytics.CensusPoint, error) {
	key := cacheKey("census", q, fmt.Sprintf("%s/%d", g, lastN))
	if v, ok := s.cacheGet(key); ok {
		return v.([]analytics.CensusPoint), nil
	}

	done := s.observe("census")
	defer done()

	records, iv, err := s.snapshot(ctx, q)
	if err != nil {
		return nil, err
	}

	cohort := analytics.FilterCohort(records, q.filter(), iv)
	series, err := analytics.BuildTimeSeries(cohort, g, lastN)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, series)
	return series, nil
}

// Risk computes tier counts and members for the active cohort.
func (s *Service) Risk(ctx context.Context, q Query) (*RiskReport, error) {
	key := cacheKey("risk", q, "")
	if v, ok := s.cacheGet(key); ok {
		return v.(*RiskReport), nil
	}

	done := s.observe("risk")
	defer done()

	records, iv, err := s.snapshot(ctx, q)
	if err != nil {
		return nil, err
	}

	cohort := analytics.FilterCohort(records, q.filter(), iv)
	res := analytics.ClassifyRisk(cohort)

	rep := &RiskReport{Unit: q.Unit, Counts: res.Counts(), Members: res}
	s.cache.SetDefault(key, rep)
	return rep, nil
}

// Observations computes the pre-admission tracking summary.
func (s *Service) Observations(ctx context.Context, q Query) (*analytics.ObservationStats, error) {
	done := s.observe("observations")
	defer done()

	iv := analytics.ResolvePeriodIn(q.Period, s.now(), s.periodOpts)

	records, err := s.observations.ListByUnit(ctx, q.Unit)
	if err != nil {
		return nil, apperrors.Unavailable("observation snapshot", err)
	}

	cohort := analytics.FilterObservations(records, q.Unit, iv)
	stats := analytics.AggregateObservations(cohort)
	return &stats, nil
}

// InvalidateUnit drops every memoized result for a unit.
func (s *Service) InvalidateUnit(unit model.Unit) {
	prefix := string(unit) + "|"
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
}

// ListenInvalidations consumes record-change events from the broker and
// drops stale cache entries until ctx is cancelled.
func (s *Service) ListenInvalidations(ctx context.Context, broker messaging.Broker) error {
	ch, err := broker.Subscribe(ctx, messaging.RecordsChangedChannel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to record changes: %w", err)
	}
	go func() {
		for payload := range ch {
			var ev messaging.RecordsChangedEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				s.logger.Error(err, "malformed record-change event")
				continue
			}
			s.InvalidateUnit(model.Unit(ev.Unit))
		}
	}()
	return nil
}

func (q Query) filter() model.CohortFilter {
	return model.CohortFilter{Unit: q.Unit, AdmissionType: q.AdmissionType, Shift: q.Shift}
}

// snapshot reads the unit's records and resolves the query's period
// against the injected clock.
func (s *Service) snapshot(ctx context.Context, q Query) ([]model.PatientRecord, analytics.Interval, error) {
	iv := analytics.ResolvePeriodIn(q.Period, s.now(), s.periodOpts)

	records, err := s.patients.ListByUnit(ctx, q.Unit)
	if err != nil {
		return nil, iv, apperrors.Unavailable("record snapshot", err)
	}
	if s.metrics != nil {
		s.metrics.SnapshotRecords.WithLabelValues(string(q.Unit)).Set(float64(len(records)))
	}
	return records, iv, nil
}

func (s *Service) cacheGet(key string) (interface{}, bool) {
	v, ok := s.cache.Get(key)
	if s.metrics != nil {
		if ok {
			s.metrics.ReportCacheHits.Inc()
		} else {
			s.metrics.ReportCacheMisses.Inc()
		}
	}
	return v, ok
}

func (s *Service) observe(kind string) func() {
	start := time.Now()
	return func() {
		if s.metrics != nil {
			s.metrics.ReportQueries.WithLabelValues(kind).Inc()
			s.metrics.ReportQueryLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		}
	}
}

func (s *Service) reportQuality(unit model.Unit, dq DataQuality) {
	if s.metrics != nil {
		if dq.MissingAdmissionDate > 0 {
			s.metrics.DataQualityExcluded.WithLabelValues("missing_admission_date").Add(float64(dq.MissingAdmissionDate))
		}
		if dq.LOSSkipped > 0 {
			s.metrics.DataQualityExcluded.WithLabelValues("unresolvable_outcome_date").Add(float64(dq.LOSSkipped))
		}
	}
	if dq.MissingAdmissionDate > 0 {
		s.logger.Warn("records excluded for missing admission date",
			"unit", string(unit), "count", dq.MissingAdmissionDate)
	}
}

// cacheKey builds a deterministic key from the query parameters. A
// record-change event is the only other way an entry leaves the cache
// before its TTL.
func cacheKey(kind string, q Query, extra string) string {
	var b strings.Builder
	b.WriteString(string(q.Unit))
	b.WriteByte('|')
	b.WriteString(kind)
	b.WriteByte('|')
	b.WriteString(string(q.Period.Kind))
	if q.Period.Kind == model.PeriodMonth {
		fmt.Fprintf(&b, "/%04d-%02d", q.Period.Year, q.Period.Month)
	}
	if q.Period.Kind == model.PeriodCustom {
		if q.Period.Start != nil {
			fmt.Fprintf(&b, "/%d", q.Period.Start.Unix())
		}
		if q.Period.End != nil {
			fmt.Fprintf(&b, "/%d", q.Period.End.Unix())
		}
	}
	b.WriteByte('|')
	b.WriteString(string(q.AdmissionType))
	if q.Shift != nil && q.Shift.Enabled {
		fmt.Fprintf(&b, "|%s-%s", q.Shift.Start, q.Shift.End)
	}
	if extra != "" {
		b.WriteByte('|')
		b.WriteString(extra)
	}
	return b.String()
}
