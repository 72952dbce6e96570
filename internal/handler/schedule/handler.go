package schedule

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/service/appointment"
	"github.com/medicore/portal-api/internal/service/schedule"
	apperrors "github.com/medicore/portal-api/pkg/errors"
	"github.com/medicore/portal-api/pkg/httputil"
	"github.com/medicore/portal-api/pkg/validator"
)

type Handler struct {
	service   *schedule.Service
	apptSvc   *appointment.Service
	validator *validator.Validator
}

func NewHandler(service *schedule.Service, apptSvc *appointment.Service, v *validator.Validator) *Handler {
	return &Handler{service: service, apptSvc: apptSvc, validator: v}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup, staff *gin.RouterGroup) {
	protected.GET("/schedules", h.List)
	protected.GET("/schedules/:id", h.Get)
	protected.GET("/schedules/:id/slots", h.Slots)

	staff.POST("/schedules", h.Create)
	staff.DELETE("/schedules/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.ScheduleFilters{}

	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor id"))
			return
		}
		filters.DoctorID = id
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.ParseInLocation(model.DateLayout, raw, time.Local)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid date, expected YYYY-MM-DD"))
			return
		}
		filters.WorkDate = date
	}
	if raw := c.Query("shift"); raw != "" {
		filters.Shift = model.Shift(raw)
	}

	schedules, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, schedules)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid schedule id"))
		return
	}

	s, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, s)
}

// Slots returns the schedule's 30-minute slots with availability flags.
func (h *Handler) Slots(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid schedule id"))
		return
	}

	slots, err := h.apptSvc.ScheduleSlots(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointment.PartitionSlots(slots))
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	s, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, s)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid schedule id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "schedule deleted"})
}
