package patient

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/portal-api/internal/middleware"
	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/service/patient"
	"github.com/medicore/portal-api/internal/service/prescription"
	apperrors "github.com/medicore/portal-api/pkg/errors"
	"github.com/medicore/portal-api/pkg/httputil"
	"github.com/medicore/portal-api/pkg/validator"
)

type Handler struct {
	service         *patient.Service
	prescriptionSvc *prescription.Service
	validator       *validator.Validator
}

func NewHandler(service *patient.Service, prescriptionSvc *prescription.Service, v *validator.Validator) *Handler {
	return &Handler{service: service, prescriptionSvc: prescriptionSvc, validator: v}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup, staff *gin.RouterGroup) {
	protected.GET("/patients/me", h.Me)
	protected.PUT("/patients/me", h.UpdateMe)
	protected.GET("/patients/me/prescriptions", h.MyPrescriptions)

	staff.GET("/patients", h.List)
	staff.GET("/patients/:id", h.Get)
	staff.POST("/patients", h.Create)
	staff.PUT("/patients/:id", h.Update)
	staff.GET("/patients/:id/prescriptions", h.Prescriptions)
}

// Me returns the profile of the logged-in patient.
func (h *Handler) Me(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized("not authenticated"))
		return
	}

	p, err := h.service.GetByUserID(c.Request.Context(), sess.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized("not authenticated"))
		return
	}

	p, err := h.service.GetByUserID(c.Request.Context(), sess.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), p.ID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) MyPrescriptions(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized("not authenticated"))
		return
	}

	p, err := h.service.GetByUserID(c.Request.Context(), sess.UserID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	prescriptions, err := h.prescriptionSvc.ListForPatient(c.Request.Context(), p.ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, prescriptions)
}

func (h *Handler) List(c *gin.Context) {
	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid pagination parameters"))
		return
	}
	page.Normalize()

	patients, total, err := h.service.List(c.Request.Context(), &page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, patients, page.Page, page.PageSize, total)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid patient id"))
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, p)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid patient id"))
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) Prescriptions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid patient id"))
		return
	}

	prescriptions, err := h.prescriptionSvc.ListForPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, prescriptions)
}
