package prescription

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/portal-api/internal/middleware"
	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/repository"
	"github.com/medicore/portal-api/internal/service/prescription"
	apperrors "github.com/medicore/portal-api/pkg/errors"
	"github.com/medicore/portal-api/pkg/httputil"
	"github.com/medicore/portal-api/pkg/validator"
)

type Handler struct {
	service    *prescription.Service
	doctorRepo repository.DoctorRepository
	validator  *validator.Validator
}

func NewHandler(service *prescription.Service, doctorRepo repository.DoctorRepository, v *validator.Validator) *Handler {
	return &Handler{service: service, doctorRepo: doctorRepo, validator: v}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup, doctors *gin.RouterGroup) {
	protected.GET("/prescriptions/:id", h.Get)

	doctors.POST("/prescriptions", h.Create)
	doctors.DELETE("/prescriptions/:id", h.Delete)
}

// Create issues a prescription on behalf of the logged-in doctor.
func (h *Handler) Create(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized("not authenticated"))
		return
	}

	doctor, err := h.doctorRepo.GetByUserID(c.Request.Context(), sess.UserID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.NotFound("doctor"))
		return
	}

	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), doctor.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, p)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid prescription id"))
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid prescription id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "prescription deleted"})
}
