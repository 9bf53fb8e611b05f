package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog/ward-api/internal/model"
)

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("NICU")
	require.NoError(t, err)
	assert.Equal(t, model.UnitNICU, u)

	_, err = ParseUnit("icu")
	assert.Error(t, err)
}

func TestToQueryDefaults(t *testing.T) {
	q, err := ReportQueryParams{}.ToQuery(model.UnitNICU)
	require.NoError(t, err)

	assert.Equal(t, model.UnitNICU, q.Unit)
	assert.Equal(t, model.PeriodAllTime, q.Period.Kind)
	assert.Equal(t, model.AdmissionFilterAll, q.AdmissionType)
	assert.Nil(t, q.Shift)
}

func TestToQueryMonth(t *testing.T) {
	q, err := ReportQueryParams{Period: "month", Month: "2026-02"}.ToQuery(model.UnitNICU)
	require.NoError(t, err)
	assert.Equal(t, model.PeriodMonth, q.Period.Kind)
	assert.Equal(t, 2026, q.Period.Year)
	assert.Equal(t, time.February, q.Period.Month)

	_, err = ReportQueryParams{Period: "month", Month: "Feb-2026"}.ToQuery(model.UnitNICU)
	assert.Error(t, err)
}

func TestToQueryCustomPassesMissingBoundThrough(t *testing.T) {
	// The resolver treats a half-open custom range as invalid and falls
	// open to all-time; parsing must not reject it here.
	q, err := ReportQueryParams{Period: "custom", Start: "2026-03-01"}.ToQuery(model.UnitNICU)
	require.NoError(t, err)
	assert.Equal(t, model.PeriodCustom, q.Period.Kind)
	require.NotNil(t, q.Period.Start)
	assert.Nil(t, q.Period.End)

	_, err = ReportQueryParams{Period: "custom", Start: "03/01/2026"}.ToQuery(model.UnitNICU)
	assert.Error(t, err)
}

func TestToQueryShift(t *testing.T) {
	q, err := ReportQueryParams{ShiftStart: "20:00", ShiftEnd: "08:00"}.ToQuery(model.UnitNICU)
	require.NoError(t, err)
	require.NotNil(t, q.Shift)
	assert.True(t, q.Shift.Enabled)
	assert.Equal(t, "20:00", q.Shift.Start.String())

	// A lone shift bound is ignored rather than guessed at.
	q, err = ReportQueryParams{ShiftStart: "20:00"}.ToQuery(model.UnitNICU)
	require.NoError(t, err)
	assert.Nil(t, q.Shift)

	_, err = ReportQueryParams{ShiftStart: "20:00", ShiftEnd: "late"}.ToQuery(model.UnitNICU)
	assert.Error(t, err)
}

func TestBindReportQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/wards/NICU/dashboard?period=this_week&admission_type=inborn", nil)
	c.Params = gin.Params{{Key: "unit", Value: "NICU"}}

	q, err := BindReportQuery(c)
	require.NoError(t, err)
	assert.Equal(t, model.UnitNICU, q.Unit)
	assert.Equal(t, model.PeriodThisWeek, q.Period.Kind)
	assert.Equal(t, model.AdmissionFilterInborn, q.AdmissionType)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/wards/NICU/dashboard?period=fortnight", nil)
	c.Params = gin.Params{{Key: "unit", Value: "NICU"}}

	_, err = BindReportQuery(c)
	assert.Error(t, err)
}
