package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/medicore/portal-api/internal/config"
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
	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/pkg/metrics"
)

// Handlers collects everything the router mounts.
type Handlers struct {
	Health       *healthhandler.Handler
	Auth         *authhandler.Handler
	Doctor       *doctorhandler.Handler
	Patient      *patienthandler.Handler
	Schedule     *schedulehandler.Handler
	Appointment  *appointmenthandler.Handler
	Transaction  *transactionhandler.Handler
	Prescription *prescriptionhandler.Handler
	Department   *departmenthandler.Handler
	Medicine     *medicinehandler.Handler
}

// New assembles the engine: global middleware, health and metrics endpoints,
// then the versioned API with public, authenticated and role-gated groups.
func New(cfg *config.Config, logger *zerolog.Logger, m *metrics.Metrics,
	authMW *middleware.AuthMiddleware, h *Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(corsConfig),
		middleware.Metrics(m),
		middleware.Timeout(time.Duration(cfg.Server.TimeoutSeconds)*time.Second),
		limiter.RateLimit(),
	)

	h.Health.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	public := api.Group("")
	protected := api.Group("", authMW.Authenticate())
	staff := protected.Group("", authMW.RequireRole(model.RoleAdmin, model.RoleReceptionist))
	clinical := protected.Group("", authMW.RequireRole(model.RoleAdmin, model.RoleReceptionist, model.RoleDoctor))
	doctors := protected.Group("", authMW.RequireRole(model.RoleDoctor))
	admin := protected.Group("", authMW.RequireRole(model.RoleAdmin))

	h.Auth.RegisterRoutes(public, protected)
	h.Doctor.RegisterRoutes(public, admin)
	h.Department.RegisterRoutes(public, admin)
	h.Patient.RegisterRoutes(protected, staff)
	h.Schedule.RegisterRoutes(protected, staff)
	h.Appointment.RegisterRoutes(protected, clinical)
	h.Transaction.RegisterRoutes(public, protected)
	h.Prescription.RegisterRoutes(protected, doctors)
	h.Medicine.RegisterRoutes(protected, admin)

	return r
}
