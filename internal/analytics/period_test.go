package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog/ward-api/internal/model"
)

func TestResolvePeriodToday(t *testing.T) {
	now := at(2026, time.March, 14, 15, 30)

	iv := ResolvePeriod(model.PeriodSelector{Kind: model.PeriodToday}, now)

	require.Equal(t, IntervalBounded, iv.Kind)
	assert.Equal(t, day(2026, time.March, 14), iv.Start)
	assert.Equal(t, time.Date(2026, time.March, 14, 23, 59, 59, int(999*time.Millisecond), time.UTC), iv.End)
}

func TestResolvePeriodThisWeekStartsSunday(t *testing.T) {
	// 2026-03-11 is a Wednesday; the week runs Sunday 03-08 through
	// Saturday 03-14.
	now := at(2026, time.March, 11, 9, 0)

	iv := ResolvePeriod(model.PeriodSelector{Kind: model.PeriodThisWeek}, now)

	require.Equal(t, IntervalBounded, iv.Kind)
	assert.Equal(t, day(2026, time.March, 8), iv.Start)
	assert.Equal(t, time.March, iv.End.Month())
	assert.Equal(t, 14, iv.End.Day())
	assert.Equal(t, 23, iv.End.Hour())
}

func TestResolvePeriodThisWeekOnWeekStart(t *testing.T) {
	// Already Sunday: the week starts today.
	now := at(2026, time.March, 8, 0, 30)

	iv := ResolvePeriod(model.PeriodSelector{Kind: model.PeriodThisWeek}, now)

	assert.Equal(t, day(2026, time.March, 8), iv.Start)
}

func TestResolvePeriodThisWeekConfigurableStart(t *testing.T) {
	now := at(2026, time.March, 11, 9, 0)

	iv := ResolvePeriodIn(model.PeriodSelector{Kind: model.PeriodThisWeek}, now, PeriodOptions{WeekStart: time.Monday})

	assert.Equal(t, day(2026, time.March, 9), iv.Start)
}

func TestResolvePeriodSpecificMonth(t *testing.T) {
	now := at(2026, time.August, 31, 12, 0)

	tests := []struct {
		name    string
		year    int
		month   time.Month
		lastDay int
	}{
		{"thirty one days", 2026, time.January, 31},
		{"february", 2026, time.February, 28},
		{"leap february", 2024, time.February, 29},
		{"thirty days", 2026, time.April, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := ResolvePeriod(model.PeriodSelector{Kind: model.PeriodMonth, Year: tt.year, Month: tt.month}, now)

			require.Equal(t, IntervalBounded, iv.Kind)
			assert.Equal(t, day(tt.year, tt.month, 1), iv.Start)
			assert.Equal(t, tt.lastDay, iv.End.Day())
			assert.Equal(t, tt.month, iv.End.Month())
		})
	}
}

func TestResolvePeriodThisMonth(t *testing.T) {
	now := at(2026, time.February, 10, 8, 0)

	iv := ResolvePeriod(model.PeriodSelector{Kind: model.PeriodThisMonth}, now)

	assert.Equal(t, day(2026, time.February, 1), iv.Start)
	assert.Equal(t, 28, iv.End.Day())
}

func TestResolvePeriodCustomWidensToWholeDays(t *testing.T) {
	now := at(2026, time.June, 1, 10, 0)
	start := at(2026, time.May, 3, 14, 45)
	end := at(2026, time.May, 20, 6, 10)

	iv := ResolvePeriod(model.PeriodSelector{Kind: model.PeriodCustom, Start: &start, End: &end}, now)

	require.Equal(t, IntervalBounded, iv.Kind)
	assert.Equal(t, day(2026, time.May, 3), iv.Start)
	assert.Equal(t, 20, iv.End.Day())
	assert.Equal(t, 23, iv.End.Hour())
}

func TestResolvePeriodCustomMissingBoundIsInvalid(t *testing.T) {
	now := at(2026, time.June, 1, 10, 0)
	start := at(2026, time.May, 3, 0, 0)

	iv := ResolvePeriod(model.PeriodSelector{Kind: model.PeriodCustom, Start: &start}, now)
	assert.Equal(t, IntervalInvalid, iv.Kind)

	iv = ResolvePeriod(model.PeriodSelector{Kind: model.PeriodCustom, End: &start}, now)
	assert.Equal(t, IntervalInvalid, iv.Kind)
}

func TestResolvePeriodAllTime(t *testing.T) {
	iv := ResolvePeriod(model.PeriodSelector{Kind: model.PeriodAllTime}, time.Now())
	assert.Equal(t, IntervalAllTime, iv.Kind)
	assert.False(t, iv.Bounded())
}

func TestResolvePeriodDeterministic(t *testing.T) {
	now := at(2026, time.March, 14, 15, 30)
	sel := model.PeriodSelector{Kind: model.PeriodThisWeek}

	assert.Equal(t, ResolvePeriod(sel, now), ResolvePeriod(sel, now))
}
