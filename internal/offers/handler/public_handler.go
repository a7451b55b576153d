package handler

import (
	"context"
	"net/http"

	"charterdesk_backend/internal/offers/transport"
	"charterdesk_backend/platform/httpkit"
	"charterdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// PublicService is the slice of the offers service the customer-facing
// routes need.
type PublicService interface {
	Create(ctx context.Context, req transport.CreateOfferRequest) (*transport.OfferResponse, error)
	GetPublic(ctx context.Context, idOrNumber, rawToken string) (*transport.PublicOfferResponse, error)
	Approve(ctx context.Context, idOrNumber, rawToken string) (*transport.PublicOfferResponse, error)
	Decline(ctx context.Context, idOrNumber, rawToken string, req transport.DeclineRequest) (*transport.PublicOfferResponse, error)
	RequestChange(ctx context.Context, idOrNumber, rawToken string, req transport.ChangeRequestNote) error
}

// PublicHandler handles unauthenticated HTTP requests from customers
// following an offer link.
type PublicHandler struct {
	svc PublicService
	val *validator.Validator
}

// NewPublicHandler creates a new public offers handler.
func NewPublicHandler(svc PublicService, val *validator.Validator) *PublicHandler {
	return &PublicHandler{svc: svc, val: val}
}

// RegisterRoutes registers the public offer routes (no auth middleware).
// The access token travels in the `t` query parameter so the whole link
// can be pasted into a mail or an SMS.
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Intake)
	rg.GET("/:idOrNumber", h.Get)
	rg.POST("/:idOrNumber/approve", h.Approve)
	rg.POST("/:idOrNumber/decline", h.Decline)
	rg.POST("/:idOrNumber/change-request", h.RequestChange)
}

// Intake handles POST /api/v1/public/offers — the customer-facing
// charter request form.
func (h *PublicHandler) Intake(c *gin.Context) {
	var req transport.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, gin.H{"number": result.OfferNumber})
}

// Get handles GET /api/v1/public/offers/:idOrNumber?t=<token>
func (h *PublicHandler) Get(c *gin.Context) {
	result, err := h.svc.GetPublic(c.Request.Context(), c.Param("idOrNumber"), c.Query("t"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Approve handles POST /api/v1/public/offers/:idOrNumber/approve
func (h *PublicHandler) Approve(c *gin.Context) {
	result, err := h.svc.Approve(c.Request.Context(), c.Param("idOrNumber"), c.Query("t"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Decline handles POST /api/v1/public/offers/:idOrNumber/decline
func (h *PublicHandler) Decline(c *gin.Context) {
	var req transport.DeclineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Decline(c.Request.Context(), c.Param("idOrNumber"), c.Query("t"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RequestChange handles POST /api/v1/public/offers/:idOrNumber/change-request
func (h *PublicHandler) RequestChange(c *gin.Context) {
	var req transport.ChangeRequestNote
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.RequestChange(c.Request.Context(), c.Param("idOrNumber"), c.Query("t"), req); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "received"})
}
