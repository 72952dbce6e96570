package department

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/service/department"
	apperrors "github.com/medicore/portal-api/pkg/errors"
	"github.com/medicore/portal-api/pkg/httputil"
	"github.com/medicore/portal-api/pkg/validator"
)

type Handler struct {
	service   *department.Service
	validator *validator.Validator
}

func NewHandler(service *department.Service, v *validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup, admin *gin.RouterGroup) {
	public.GET("/departments", h.List)
	public.GET("/departments/:id", h.Get)

	admin.POST("/departments", h.Create)
	admin.DELETE("/departments/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	departments, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, departments)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid department id"))
		return
	}

	d, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, d)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	d, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, d)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid department id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "department deleted"})
}
