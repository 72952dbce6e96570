package transaction

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/payment"
	"github.com/medicore/portal-api/internal/service/billing"
	apperrors "github.com/medicore/portal-api/pkg/errors"
	"github.com/medicore/portal-api/pkg/httputil"
	"github.com/medicore/portal-api/pkg/validator"
)

type Handler struct {
	service   *billing.Service
	validator *validator.Validator
}

func NewHandler(service *billing.Service, v *validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

// RegisterRoutes mounts the payment flow. The success and cancel callbacks
// are public because the gateway redirects the payer's browser there without
// our auth header.
func (h *Handler) RegisterRoutes(public *gin.RouterGroup, protected *gin.RouterGroup) {
	public.GET("/transactions/:orderCode/success", h.Success)
	public.POST("/transactions/:orderCode/success", h.Success)
	public.GET("/transactions/:orderCode/cancel", h.Cancel)
	public.POST("/transactions/:orderCode/cancel", h.Cancel)

	protected.POST("/transactions/confirm", h.Confirm)
	protected.POST("/transactions/create-payment/:billId", h.CreatePayment)
	protected.GET("/transactions/payment-info/:ref", h.PaymentInfo)
	protected.GET("/bills", h.ListBills)
	protected.GET("/bills/:id", h.GetBill)
	protected.GET("/bills/:id/invoice", h.Invoice)
}

type confirmRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
	Insured       bool      `json:"insured"`
}

// Confirm runs the confirm-and-pay flow for a pending appointment and returns
// a checkout link.
func (h *Handler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	link, err := h.service.ConfirmAndPay(c.Request.Context(), req.AppointmentID, req.Insured)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, link)
}

func (h *Handler) CreatePayment(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("billId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid bill id"))
		return
	}

	link, err := h.service.CreatePaymentLink(c.Request.Context(), billID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, link)
}

// PaymentInfo accepts a bill UUID, an order code or a bare bill number.
func (h *Handler) PaymentInfo(c *gin.Context) {
	info, err := h.service.PaymentInfo(c.Request.Context(), c.Param("ref"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, info)
}

// Success reconciles a gateway return. The outcome is classified from the
// gateway's query parameters, not trusted from the path alone.
func (h *Handler) Success(c *gin.Context) {
	h.reconcile(c, payment.OutcomeSuccess)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.reconcile(c, payment.OutcomeCancelled)
}

func (h *Handler) reconcile(c *gin.Context, fallback payment.Outcome) {
	orderCode, err := strconv.ParseInt(c.Param("orderCode"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid order code"))
		return
	}

	outcome := fallback
	if params, err := payment.ParseCallback(c.Request.URL.Query()); err == nil {
		orderCode = params.OrderCode
		outcome = params.Classify()
	}

	bill, err := h.service.HandleCallback(c.Request.Context(), orderCode, outcome)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bill)
}

func (h *Handler) ListBills(c *gin.Context) {
	var patientID uuid.UUID
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid patient id"))
			return
		}
		patientID = id
	}

	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid pagination parameters"))
		return
	}
	page.Normalize()

	bills, total, err := h.service.ListBills(c.Request.Context(), patientID, &page)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, bills, page.Page, page.PageSize, total)
}

func (h *Handler) GetBill(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid bill id"))
		return
	}

	bill, err := h.service.GetBill(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bill)
}

// Invoice streams the PDF receipt for a paid bill.
func (h *Handler) Invoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid bill id"))
		return
	}

	pdf, err := h.service.Invoice(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=invoice.pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
