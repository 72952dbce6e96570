package doctor

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/service/appointment"
	"github.com/medicore/portal-api/internal/service/doctor"
	apperrors "github.com/medicore/portal-api/pkg/errors"
	"github.com/medicore/portal-api/pkg/httputil"
	"github.com/medicore/portal-api/pkg/validator"
)

type Handler struct {
	service   *doctor.Service
	apptSvc   *appointment.Service
	validator *validator.Validator
}

func NewHandler(service *doctor.Service, apptSvc *appointment.Service, v *validator.Validator) *Handler {
	return &Handler{service: service, apptSvc: apptSvc, validator: v}
}

// RegisterRoutes mounts the public directory endpoints and the admin-only
// management endpoints.
func (h *Handler) RegisterRoutes(public *gin.RouterGroup, admin *gin.RouterGroup) {
	public.GET("/doctors", h.List)
	public.GET("/doctors/:id", h.Get)
	public.GET("/doctors/:id/slots", h.Slots)

	admin.POST("/doctors", h.Create)
	admin.PUT("/doctors/:id", h.Update)
	admin.DELETE("/doctors/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.DoctorFilters{
		Specialization: c.Query("specialization"),
		SearchTerm:     c.Query("search"),
	}
	if raw := c.Query("department_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid department id"))
			return
		}
		filters.DepartmentID = id
	}

	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid pagination parameters"))
		return
	}
	page.Normalize()

	doctors, total, err := h.service.List(c.Request.Context(), filters, &page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, doctors, page.Page, page.PageSize, total)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor id"))
		return
	}

	doc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doc)
}

// Slots returns the doctor's availability for a date, bucketed into morning
// and afternoon.
func (h *Handler) Slots(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor id"))
		return
	}

	date, err := time.ParseInLocation(model.DateLayout, c.Query("date"), time.Local)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid or missing date, expected YYYY-MM-DD"))
		return
	}

	groups, err := h.apptSvc.ResolveSlots(c.Request.Context(), id, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, groups)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doc, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, doc)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor id"))
		return
	}

	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	doc, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doc)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "doctor deleted"})
}
