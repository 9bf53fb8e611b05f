package email

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/carelog/ward-api/internal/config"
	"github.com/carelog/ward-api/internal/service/report"
)

// Service delivers ward summary emails.
type Service interface {
	SendDailySummary(to []string, rep *report.DashboardReport) error
}

type service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.SMTPConfig) Service {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *service) SendDailySummary(to []string, rep *report.DashboardReport) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", fmt.Sprintf("%s daily summary - %s", rep.Unit, rep.GeneratedAt.Format("2 Jan 2006")))
	m.SetBody("text/plain", formatSummary(rep))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send daily summary: %w", err)
	}
	return nil
}

func formatSummary(rep *report.DashboardReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ward: %s\n", rep.Unit)
	fmt.Fprintf(&b, "New admissions: %d\n", rep.NewAdmissions)
	fmt.Fprintf(&b, "Active: %d of %d\n", rep.Outcomes.InProgress, rep.Outcomes.Total)
	fmt.Fprintf(&b, "Discharged: %d (%.1f%%)\n", rep.Outcomes.Discharged, rep.Outcomes.DischargeRate)
	fmt.Fprintf(&b, "Deaths: %d (%.1f%%)\n", rep.Outcomes.Deceased, rep.Outcomes.MortalityRate)
	fmt.Fprintf(&b, "Risk tiers: %d high / %d medium / %d low\n", rep.Risk.High, rep.Risk.Medium, rep.Risk.Low)
	if rep.DataQuality.MissingAdmissionDate > 0 {
		fmt.Fprintf(&b, "Records missing admission date: %d\n", rep.DataQuality.MissingAdmissionDate)
	}
	return b.String()
}
