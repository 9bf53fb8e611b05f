package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/carelog/ward-api/internal/model"
)

// Granularity selects the census bucketing scheme.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityHour  Granularity = "hour"
)

// ErrUnknownGranularity indicates a programming error and fails the
// call loudly.
var ErrUnknownGranularity = fmt.Errorf("unknown census granularity")

// CensusPoint is one chronological bucket of the running-census series.
type CensusPoint struct {
	Bucket     string `json:"bucket"`
	Admissions int    `json:"admissions"`
	Discharges int    `json:"discharges"`
	Deaths     int    `json:"deaths"`

	// Census is the running active count after this bucket's deltas.
	Census int `json:"census"`
}

// BuildTimeSeries buckets cohort events at the requested granularity
// and prefix-sums a running active census. Each admission increments
// its own bucket; each terminal outcome with a resolvable date
// increments the discharge or death counter of the bucket that event
// falls in, which may differ from the admission's bucket.
//
// When lastN > 0 the series is truncated to the most recent N buckets
// for display, but the census is always computed over the full
// chronological series first so the value at the truncation point
// carries the correct seed.
func BuildTimeSeries(c Cohort, g Granularity, lastN int) ([]CensusPoint, error) {
	bucketOf, err := bucketer(g)
	if err != nil {
		return nil, err
	}

	idx := map[string]int{}
	var points []CensusPoint
	at := func(key string) *CensusPoint {
		j, ok := idx[key]
		if !ok {
			j = len(points)
			idx[key] = j
			points = append(points, CensusPoint{Bucket: key})
		}
		return &points[j]
	}

	for i := range c.Records {
		r := &c.Records[i]
		if r.AdmissionDate != nil {
			at(bucketOf(*r.AdmissionDate)).Admissions++
		}
		switch r.Outcome {
		case model.OutcomeInProgress:
		case model.OutcomeDeceased:
			if d := firstSet(r.DateOfDeath, outcomeDate(r)); d != nil {
				at(bucketOf(*d)).Deaths++
			}
		default:
			if d := outcomeDate(r); d != nil {
				at(bucketOf(*d)).Discharges++
			}
		}
	}

	// Bucket keys are zero-padded, so lexicographic order is
	// chronological order for every granularity.
	sort.Slice(points, func(a, b int) bool {
		return points[a].Bucket < points[b].Bucket
	})

	census := 0
	for i := range points {
		census += points[i].Admissions - points[i].Discharges - points[i].Deaths
		points[i].Census = census
	}

	if lastN > 0 && len(points) > lastN {
		points = points[len(points)-lastN:]
	}
	return points, nil
}

func bucketer(g Granularity) (func(time.Time) string, error) {
	switch g {
	case GranularityDay:
		return func(t time.Time) string { return t.Format("2006-01-02") }, nil
	case GranularityMonth:
		return func(t time.Time) string { return t.Format("2006-01") }, nil
	case GranularityHour:
		return func(t time.Time) string { return fmt.Sprintf("%02d:00", t.Hour()) }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGranularity, g)
	}
}
