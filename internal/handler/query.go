package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/carelog/ward-api/internal/model"
	"github.com/carelog/ward-api/internal/service/report"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
			_, err := model.ParseTimeOfDay(fl.Field().String())
			return err == nil
		})
	}
}

// ReportQueryParams are the period/shift query parameters shared by
// every report endpoint.
type ReportQueryParams struct {
	Period        string `form:"period" binding:"omitempty,oneof=all_time today this_week this_month month custom"`
	Month         string `form:"month"`
	Start         string `form:"start"`
	End           string `form:"end"`
	AdmissionType string `form:"admission_type" binding:"omitempty,oneof=all inborn outborn"`
	ShiftStart    string `form:"shift_start" binding:"omitempty,timeofday"`
	ShiftEnd      string `form:"shift_end" binding:"omitempty,timeofday"`
}

// ParseUnit validates a :unit path parameter.
func ParseUnit(s string) (model.Unit, error) {
	for _, u := range model.Units {
		if string(u) == s {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// BindReportQuery resolves the :unit path parameter and the shared
// report query parameters from the request.
func BindReportQuery(c *gin.Context) (report.Query, error) {
	unit, err := ParseUnit(c.Param("unit"))
	if err != nil {
		return report.Query{}, err
	}

	var params ReportQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return report.Query{}, err
	}

	return params.ToQuery(unit)
}

// ToQuery converts the bound parameters to a report query. Malformed
// optional dates are rejected; a custom period with a missing bound is
// passed through so the resolver can apply its fail-open policy.
func (p ReportQueryParams) ToQuery(unit model.Unit) (report.Query, error) {
	q := report.Query{Unit: unit, AdmissionType: model.AdmissionFilterAll}

	switch p.AdmissionType {
	case "inborn":
		q.AdmissionType = model.AdmissionFilterInborn
	case "outborn":
		q.AdmissionType = model.AdmissionFilterOutborn
	}

	switch p.Period {
	case "", "all_time":
		q.Period.Kind = model.PeriodAllTime
	case "today":
		q.Period.Kind = model.PeriodToday
	case "this_week":
		q.Period.Kind = model.PeriodThisWeek
	case "this_month":
		q.Period.Kind = model.PeriodThisMonth
	case "month":
		t, err := time.Parse("2006-01", p.Month)
		if err != nil {
			return q, fmt.Errorf("invalid month %q: %w", p.Month, err)
		}
		q.Period = model.PeriodSelector{Kind: model.PeriodMonth, Year: t.Year(), Month: t.Month()}
	case "custom":
		q.Period.Kind = model.PeriodCustom
		if p.Start != "" {
			t, err := time.Parse("2006-01-02", p.Start)
			if err != nil {
				return q, fmt.Errorf("invalid start date %q: %w", p.Start, err)
			}
			q.Period.Start = &t
		}
		if p.End != "" {
			t, err := time.Parse("2006-01-02", p.End)
			if err != nil {
				return q, fmt.Errorf("invalid end date %q: %w", p.End, err)
			}
			q.Period.End = &t
		}
	}

	if p.ShiftStart != "" && p.ShiftEnd != "" {
		start, err := model.ParseTimeOfDay(p.ShiftStart)
		if err != nil {
			return q, err
		}
		end, err := model.ParseTimeOfDay(p.ShiftEnd)
		if err != nil {
			return q, err
		}
		q.Shift = &model.ShiftWindow{Enabled: true, Start: start, End: end}
	}

	return q, nil
}
