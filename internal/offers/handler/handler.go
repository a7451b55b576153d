// Package handler provides HTTP handlers for the offers module.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"charterdesk_backend/internal/accesstoken"
	"charterdesk_backend/internal/offers/repository"
	"charterdesk_backend/internal/offers/service"
	"charterdesk_backend/internal/offers/transport"
	"charterdesk_backend/platform/httpkit"
	"charterdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request body"
	msgValidationFailed = "validation failed"
	msgInvalidOfferID   = "invalid offer ID"
)

// Handler handles staff HTTP requests for offers.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new offers handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the staff offer routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.POST("/quote", h.Preview)
	rg.POST("/:id/proposal", h.SendProposal)
	rg.POST("/:id/reopen", h.Reopen)
	rg.POST("/:id/cancel", h.Cancel)
	rg.GET("/:id/link", h.CustomerLink)
}

// List handles GET /api/v1/offers
func (h *Handler) List(c *gin.Context) {
	params := repository.ListParams{
		Search: c.Query("search"),
	}
	if status := c.Query("status"); status != "" {
		params.Status = &status
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(c.Query("pageSize")); err == nil {
		params.PageSize = size
	}

	result, err := h.svc.List(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get handles GET /api/v1/offers/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidOfferID, nil)
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Update handles PATCH /api/v1/offers/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidOfferID, nil)
		return
	}

	var req transport.UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Preview handles POST /api/v1/offers/quote — the staff pricing calculator,
// no persistence.
func (h *Handler) Preview(c *gin.Context) {
	var req transport.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Preview(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SendProposal handles POST /api/v1/offers/:id/proposal
func (h *Handler) SendProposal(c *gin.Context) {
	h.answer(c, h.svc.SendProposal)
}

// Reopen handles POST /api/v1/offers/:id/reopen
func (h *Handler) Reopen(c *gin.Context) {
	h.answer(c, h.svc.Reopen)
}

type answerFunc func(ctx context.Context, id uuid.UUID, req transport.SendProposalRequest) (*transport.OfferResponse, error)

// answer is the shared body for SendProposal and Reopen, which take the
// same priced payload and differ only in the allowed starting status.
func (h *Handler) answer(c *gin.Context, fn answerFunc) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidOfferID, nil)
		return
	}

	var req transport.SendProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := fn(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Cancel handles POST /api/v1/offers/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidOfferID, nil)
		return
	}

	result, err := h.svc.Cancel(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CustomerLink handles GET /api/v1/offers/:id/link. It issues a fresh
// access token and returns the deep link staff can hand to the customer.
func (h *Handler) CustomerLink(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidOfferID, nil)
		return
	}

	link, err := h.svc.CustomerLink(c.Request.Context(), id, accesstoken.RoleCustomer)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"link": link})
}
