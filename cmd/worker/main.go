package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medicore/portal-api/internal/config"
	"github.com/medicore/portal-api/internal/email"
	"github.com/medicore/portal-api/internal/payment"
	"github.com/medicore/portal-api/internal/repository/postgres"
	appointmentsvc "github.com/medicore/portal-api/internal/service/appointment"
	billingsvc "github.com/medicore/portal-api/internal/service/billing"
	"github.com/medicore/portal-api/internal/worker"
	"github.com/medicore/portal-api/pkg/logger"
	"github.com/medicore/portal-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})
	zl := log.Zerolog()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("medicore", "portal_worker")

	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	billRepo := postgres.NewBillRepository(db)

	emailSvc := email.NewService(cfg.SMTP)
	gateway := payment.NewGateway(cfg.Gateway, zl)

	appointmentService := appointmentsvc.NewService(appointmentRepo, scheduleRepo, patientRepo,
		doctorRepo, userRepo, emailSvc, m, zl)
	billingService := billingsvc.NewService(billRepo, appointmentService, doctorRepo, patientRepo,
		userRepo, gateway, emailSvc, m, zl, cfg.Billing)

	reminders := worker.NewReminderWorker(appointmentRepo, patientRepo, doctorRepo, userRepo, emailSvc, zl)

	runner := worker.NewRunner(billingService, reminders, cfg.Worker, zl)
	if err := runner.Start(); err != nil {
		log.Fatal(err, "failed to start worker")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("stopping worker")
	runner.Stop()
	log.Info("worker stopped")
}
