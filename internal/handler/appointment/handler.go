package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/service/appointment"
	apperrors "github.com/medicore/portal-api/pkg/errors"
	"github.com/medicore/portal-api/pkg/httputil"
	"github.com/medicore/portal-api/pkg/validator"
)

type Handler struct {
	service   *appointment.Service
	validator *validator.Validator
}

func NewHandler(service *appointment.Service, v *validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup, staff *gin.RouterGroup) {
	protected.POST("/appointments", h.Book)
	protected.GET("/appointments", h.List)
	protected.GET("/appointments/:id", h.Get)
	protected.POST("/appointments/:id/cancel", h.Cancel)

	staff.PUT("/appointments/:id", h.Update)
	staff.POST("/appointments/:id/status", h.UpdateStatus)
	staff.DELETE("/appointments/:id", h.Delete)
}

func (h *Handler) Book(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appt, err := h.service.Book(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, appt)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.AppointmentFilters{}

	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid patient id"))
			return
		}
		filters.PatientID = id
	}
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor id"))
			return
		}
		filters.DoctorID = id
	}
	if raw := c.Query("status"); raw != "" {
		status := model.AppointmentStatus(raw)
		if !status.Valid() {
			httputil.RespondWithError(c, apperrors.BadRequest("unknown appointment status"))
			return
		}
		filters.Status = status
	}
	if raw := c.Query("start_date"); raw != "" {
		date, err := time.ParseInLocation(model.DateLayout, raw, time.Local)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid start date"))
			return
		}
		filters.StartDate = date
	}
	if raw := c.Query("end_date"); raw != "" {
		date, err := time.ParseInLocation(model.DateLayout, raw, time.Local)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid end date"))
			return
		}
		filters.EndDate = date
	}

	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid pagination parameters"))
		return
	}
	page.Normalize()

	appointments, total, err := h.service.List(c.Request.Context(), filters, &page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, appointments, page.Page, page.PageSize, total)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment id"))
		return
	}

	appt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appt)
}

// Cancel moves the appointment to the cancelled state, subject to the
// transition rules.
func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment id"))
		return
	}

	appt, err := h.service.UpdateStatus(c.Request.Context(), id, model.AppointmentStatusCancelled)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appt)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment id"))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	appt, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appt)
}

type updateStatusRequest struct {
	Status model.AppointmentStatus `json:"status" validate:"required"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment id"))
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	appt, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appt)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "appointment deleted"})
}
