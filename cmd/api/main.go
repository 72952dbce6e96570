package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medicore/portal-api/internal/config"
	"github.com/medicore/portal-api/internal/email"
	appointmenthandler "github.com/medicore/portal-api/internal/handler/appointment"
	authhandler "github.com/medicore/portal-api/internal/handler/auth"
	departmenthandler "github.com/medicore/portal-api/internal/handler/department"
	doctorhandler "github.com/medicore/portal-api/internal/handler/doctor"
	healthhandler "github.com/medicore/portal-api/internal/handler/health"
	medicinehandler "github.com/medicore/portal-api/internal/handler/medicine"
	patienthandler "github.com/medicore/portal-api/internal/handler/patient"
	prescriptionhandler "github.com/medicore/portal-api/internal/handler/prescription"
	schedulehandler "github.com/medicore/portal-api/internal/handler/schedule"
	transactionhandler "github.com/medicore/portal-api/internal/handler/transaction"
	"github.com/medicore/portal-api/internal/middleware"
	"github.com/medicore/portal-api/internal/payment"
	"github.com/medicore/portal-api/internal/repository/postgres"
	"github.com/medicore/portal-api/internal/router"
	"github.com/medicore/portal-api/internal/session"
	appointmentsvc "github.com/medicore/portal-api/internal/service/appointment"
	authsvc "github.com/medicore/portal-api/internal/service/auth"
	billingsvc "github.com/medicore/portal-api/internal/service/billing"
	departmentsvc "github.com/medicore/portal-api/internal/service/department"
	doctorsvc "github.com/medicore/portal-api/internal/service/doctor"
	medicinesvc "github.com/medicore/portal-api/internal/service/medicine"
	patientsvc "github.com/medicore/portal-api/internal/service/patient"
	prescriptionsvc "github.com/medicore/portal-api/internal/service/prescription"
	schedulesvc "github.com/medicore/portal-api/internal/service/schedule"
	pkgauth "github.com/medicore/portal-api/pkg/auth"
	"github.com/medicore/portal-api/pkg/logger"
	"github.com/medicore/portal-api/pkg/metrics"
	"github.com/medicore/portal-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})
	zl := log.Zerolog()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	sessions, err := session.NewStore(cfg.Redis, cfg.JWT.Expiry())
	if err != nil {
		log.Fatal(err, "failed to connect to Redis")
	}
	defer sessions.Close()

	m := metrics.NewMetrics("medicore", "portal")
	v := validator.New()

	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	billRepo := postgres.NewBillRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	departmentRepo := postgres.NewDepartmentRepository(db)
	medicineRepo := postgres.NewMedicineRepository(db)

	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())
	emailSvc := email.NewService(cfg.SMTP)
	gateway := payment.NewGateway(cfg.Gateway, zl)

	authService := authsvc.NewService(userRepo, patientRepo, doctorRepo, jwtSvc, sessions, cfg.JWT.Expiry())
	appointmentService := appointmentsvc.NewService(appointmentRepo, scheduleRepo, patientRepo,
		doctorRepo, userRepo, emailSvc, m, zl)
	billingService := billingsvc.NewService(billRepo, appointmentService, doctorRepo, patientRepo,
		userRepo, gateway, emailSvc, m, zl, cfg.Billing)
	doctorService := doctorsvc.NewService(doctorRepo, departmentRepo)
	patientService := patientsvc.NewService(patientRepo)
	scheduleService := schedulesvc.NewService(scheduleRepo, doctorRepo)
	prescriptionService := prescriptionsvc.NewService(prescriptionRepo, appointmentRepo, medicineRepo)
	departmentService := departmentsvc.NewService(departmentRepo)
	medicineService := medicinesvc.NewService(medicineRepo)

	authMW := middleware.NewAuthMiddleware(authService)

	handlers := &router.Handlers{
		Health:       healthhandler.NewHandler(db, sessions.Client()),
		Auth:         authhandler.NewHandler(authService, v),
		Doctor:       doctorhandler.NewHandler(doctorService, appointmentService, v),
		Patient:      patienthandler.NewHandler(patientService, prescriptionService, v),
		Schedule:     schedulehandler.NewHandler(scheduleService, appointmentService, v),
		Appointment:  appointmenthandler.NewHandler(appointmentService, v),
		Transaction:  transactionhandler.NewHandler(billingService, v),
		Prescription: prescriptionhandler.NewHandler(prescriptionService, doctorRepo, v),
		Department:   departmenthandler.NewHandler(departmentService, v),
		Medicine:     medicinehandler.NewHandler(medicineService, v),
	}

	engine := router.New(cfg, zl, m, authMW, handlers)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
	log.Info("server stopped")
}

func parseLevel(s string) (logger.Level, error) {
	switch s {
	case "debug":
		return logger.DebugLevel, nil
	case "", "info":
		return logger.InfoLevel, nil
	case "warn":
		return logger.WarnLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	default:
		return logger.InfoLevel, fmt.Errorf("unknown level %q", s)
	}
}
