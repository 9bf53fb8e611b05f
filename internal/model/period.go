package model

import (
	"fmt"
	"time"
)

// PeriodKind enumerates the symbolic reporting-period selectors.
type PeriodKind string

const (
	PeriodAllTime   PeriodKind = "all_time"
	PeriodToday     PeriodKind = "today"
	PeriodThisWeek  PeriodKind = "this_week"
	PeriodThisMonth PeriodKind = "this_month"
	PeriodMonth     PeriodKind = "month"
	PeriodCustom    PeriodKind = "custom"
)

// PeriodSelector is the immutable input to period resolution. Relative
// kinds depend on the clock, so selectors are resolved fresh on every
// query.
type PeriodSelector struct {
	Kind PeriodKind `json:"kind"`

	// Year/Month identify a specific calendar month when Kind ==
	// PeriodMonth.
	Year  int        `json:"year,omitempty"`
	Month time.Month `json:"month,omitempty"`

	// Start/End bound a custom range when Kind == PeriodCustom. Dates
	// only; the resolver widens them to whole local days. A missing
	// bound makes the selector invalid.
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// TimeOfDay is a clock time with no date, stored as minutes since
// midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// ShiftWindow narrows cohort membership to records whose reference
// event falls inside a time-of-day range. When Start > End the window
// spans midnight. The date of the event is ignored entirely.
type ShiftWindow struct {
	Enabled bool      `json:"enabled"`
	Start   TimeOfDay `json:"start"`
	End     TimeOfDay `json:"end"`
}

// Contains tests time-of-day membership, inclusive on both bounds.
func (w ShiftWindow) Contains(t TimeOfDay) bool {
	if w.Start <= w.End {
		return t >= w.Start && t <= w.End
	}
	// Window wraps past midnight.
	return t >= w.Start || t <= w.End
}

// AdmissionTypeFilter narrows a cohort by admission type.
type AdmissionTypeFilter string

const (
	AdmissionFilterAll     AdmissionTypeFilter = "all"
	AdmissionFilterInborn  AdmissionTypeFilter = "inborn"
	AdmissionFilterOutborn AdmissionTypeFilter = "outborn"
)

// CohortFilter bundles the non-temporal cohort constraints.
type CohortFilter struct {
	Unit          Unit                `json:"unit"`
	AdmissionType AdmissionTypeFilter `json:"admission_type"`
	Shift         *ShiftWindow        `json:"shift,omitempty"`
}
