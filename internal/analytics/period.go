// Package analytics implements the cohort temporal-filtering and
// clinical aggregation engine. Every function here is a pure,
// deterministic transform: no I/O, no global clock, no mutation of
// input records. Callers inject "now" where resolution depends on it.
package analytics

import (
	"time"

	"github.com/carelog/ward-api/internal/model"
)

// IntervalKind discriminates resolved reporting intervals.
type IntervalKind int

const (
	// IntervalAllTime keeps every record; temporal filtering is skipped.
	IntervalAllTime IntervalKind = iota
	// IntervalBounded carries concrete start/end bounds.
	IntervalBounded
	// IntervalInvalid marks an unresolvable selector (custom range with
	// a missing bound). Filtering treats it exactly like AllTime: keep
	// all records rather than silently returning an empty cohort.
	IntervalInvalid
)

// Interval is a resolved reporting period in the caller's local time
// zone. Start and End are both inclusive.
type Interval struct {
	Kind  IntervalKind
	Start time.Time
	End   time.Time
}

// Bounded reports whether temporal filtering applies.
func (iv Interval) Bounded() bool { return iv.Kind == IntervalBounded }

// PeriodOptions tunes period resolution.
type PeriodOptions struct {
	// WeekStart is the first day of the week for PeriodThisWeek.
	WeekStart time.Weekday
}

// DefaultPeriodOptions starts weeks on Sunday.
func DefaultPeriodOptions() PeriodOptions {
	return PeriodOptions{WeekStart: time.Sunday}
}

// ResolvePeriod converts a symbolic period selector into a concrete
// interval using default options. Deterministic given now.
func ResolvePeriod(sel model.PeriodSelector, now time.Time) Interval {
	return ResolvePeriodIn(sel, now, DefaultPeriodOptions())
}

// ResolvePeriodIn resolves a selector with explicit options. All bounds
// are computed in now's location.
func ResolvePeriodIn(sel model.PeriodSelector, now time.Time, opts PeriodOptions) Interval {
	loc := now.Location()

	switch sel.Kind {
	case model.PeriodToday:
		return Interval{
			Kind:  IntervalBounded,
			Start: startOfDay(now),
			End:   endOfDay(now),
		}

	case model.PeriodThisWeek:
		back := (int(now.Weekday()) - int(opts.WeekStart) + 7) % 7
		first := startOfDay(now).AddDate(0, 0, -back)
		return Interval{
			Kind:  IntervalBounded,
			Start: first,
			End:   endOfDay(first.AddDate(0, 0, 6)),
		}

	case model.PeriodThisMonth:
		return monthInterval(now.Year(), now.Month(), loc)

	case model.PeriodMonth:
		if sel.Year == 0 || sel.Month == 0 {
			return Interval{Kind: IntervalInvalid}
		}
		return monthInterval(sel.Year, sel.Month, loc)

	case model.PeriodCustom:
		if sel.Start == nil || sel.End == nil {
			return Interval{Kind: IntervalInvalid}
		}
		return Interval{
			Kind:  IntervalBounded,
			Start: startOfDay(sel.Start.In(loc)),
			End:   endOfDay(sel.End.In(loc)),
		}

	default:
		return Interval{Kind: IntervalAllTime}
	}
}

func monthInterval(year int, month time.Month, loc *time.Location) Interval {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	// Day 0 of the next month normalizes to the last day of this one,
	// regardless of month length.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
	return Interval{Kind: IntervalBounded, Start: first, End: endOfDay(last)}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
