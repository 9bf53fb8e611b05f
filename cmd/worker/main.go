package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/carelog/ward-api/internal/config"
	"github.com/carelog/ward-api/internal/email"
	"github.com/carelog/ward-api/internal/model"
	"github.com/carelog/ward-api/internal/repository/postgres"
	reportService "github.com/carelog/ward-api/internal/service/report"
	"github.com/carelog/ward-api/pkg/logger"
	"github.com/carelog/ward-api/pkg/metrics"
	"github.com/carelog/ward-api/pkg/worker"
)

// workerConfig is environment-only; the worker ships without a config
// file.
type workerConfig struct {
	DatabaseHost     string `envconfig:"DB_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DB_PORT" default:"5432"`
	DatabaseUser     string `envconfig:"DB_USER" default:"ward"`
	DatabasePassword string `envconfig:"DB_PASSWORD" required:"true"`
	DatabaseName     string `envconfig:"DB_NAME" default:"ward_records"`
	DatabaseSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	SMTPHost     string `envconfig:"SMTP_HOST" required:"true"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM" required:"true"`

	Units      string `envconfig:"REPORT_UNITS" default:"NICU"`
	Recipients string `envconfig:"REPORT_RECIPIENTS" required:"true"`
	SendHour   int    `envconfig:"REPORT_SEND_HOUR" default:"7"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	var cfg workerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:     cfg.DatabaseHost,
		Port:     cfg.DatabasePort,
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Name:     cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	patientRepo := postgres.NewPatientRecordRepository(db)
	observationRepo := postgres.NewObservationRepository(db)

	m := metrics.NewMetrics("ward", "worker")

	reportSvc := reportService.NewService(patientRepo, observationRepo, m, appLogger, reportService.Options{})

	emailSvc := email.NewService(config.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	var units []model.Unit
	for _, u := range strings.Split(cfg.Units, ",") {
		units = append(units, model.Unit(strings.TrimSpace(u)))
	}

	w := worker.NewDailyReportWorker(reportSvc, emailSvc, m, appLogger, worker.DailyReportConfig{
		Units:      units,
		Recipients: strings.Split(cfg.Recipients, ","),
		SendHour:   cfg.SendHour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	log.Info().Strs("units", unitStrings(units)).Msg("daily report worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()
	log.Info().Msg("worker exited properly")
}

func unitStrings(units []model.Unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = string(u)
	}
	return out
}
