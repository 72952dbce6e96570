package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/portal-api/internal/middleware"
	"github.com/medicore/portal-api/internal/model"
	"github.com/medicore/portal-api/internal/service/auth"
	apperrors "github.com/medicore/portal-api/pkg/errors"
	"github.com/medicore/portal-api/pkg/httputil"
	"github.com/medicore/portal-api/pkg/validator"
)

type Handler struct {
	service   *auth.Service
	validator *validator.Validator
}

func NewHandler(service *auth.Service, v *validator.Validator) *Handler {
	return &Handler{service: service, validator: v}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup, protected *gin.RouterGroup) {
	public.POST("/auth/register", h.Register)
	public.POST("/auth/login", h.Login)

	protected.POST("/auth/logout", h.Logout)
	protected.POST("/auth/change-password", h.ChangePassword)
	protected.GET("/auth/me", h.Me)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) Logout(c *gin.Context) {
	tokenID := c.GetString(middleware.ContextTokenID)
	if err := h.service.Logout(c.Request.Context(), tokenID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "logged out"})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	if err := h.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "password changed"})
}

// Me returns the authenticated session, used by clients to restore state.
func (h *Handler) Me(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized("not authenticated"))
		return
	}
	httputil.RespondWithSuccess(c, sess)
}
