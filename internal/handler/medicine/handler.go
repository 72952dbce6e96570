package medicine

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/service/medicine"
	apperrors "github.com/medicore/portal-api/pkg/errors"
	"github.com/medicore/portal-api/pkg/httputil"
	"github.com/medicore/portal-api/pkg/validator"
)

type Handler struct {
	service   *medicine.Service
	validator *validator.Validator
}

func NewHandler(service *medicine.Service, v *validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup, admin *gin.RouterGroup) {
	protected.GET("/medicines", h.List)
	protected.GET("/medicines/:id", h.Get)

	admin.POST("/medicines", h.Create)
	admin.PUT("/medicines/:id", h.Update)
	admin.DELETE("/medicines/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.MedicineFilters{SearchTerm: c.Query("search")}

	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid pagination parameters"))
		return
	}
	page.Normalize()

	medicines, total, err := h.service.List(c.Request.Context(), filters, &page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, medicines, page.Page, page.PageSize, total)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid medicine id"))
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, m)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	m, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, m)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid medicine id"))
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	m.Name = req.Name
	m.Manufacturer = req.Manufacturer
	m.Unit = req.Unit
	m.Price = req.Price
	m.Stock = req.Stock

	if err := h.service.Update(c.Request.Context(), m); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, m)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid medicine id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "medicine deleted"})
}
