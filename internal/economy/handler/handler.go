// Package handler provides HTTP handlers for the economy module.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"charterdesk_backend/internal/economy/service"
	"charterdesk_backend/platform/config"
	"charterdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// Handler handles staff HTTP requests for the financial series.
type Handler struct {
	svc *service.Service
	cfg config.PricingConfig
}

// New creates a new economy handler.
func New(svc *service.Service, cfg config.PricingConfig) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}

// RegisterRoutes registers the economy routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/series", h.Series)
}

// Series handles GET /api/v1/economy/series?from&to&includeVat&vatRate.
// Defaults: the current calendar year, VAT-inclusive amounts, the
// operator's domestic VAT rate.
func (h *Handler) Series(c *gin.Context) {
	now := time.Now()
	params := service.SeriesParams{
		From:       time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC),
		To:         time.Date(now.Year(), 12, 31, 0, 0, 0, 0, time.UTC),
		IncludeVAT: true,
		VATRate:    h.cfg.GetVATRateDomestic(),
	}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD", nil)
			return
		}
		params.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD", nil)
			return
		}
		params.To = t
	}
	if raw := c.Query("includeVat"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid includeVat flag", nil)
			return
		}
		params.IncludeVAT = v
	}
	if raw := c.Query("vatRate"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid vatRate", nil)
			return
		}
		params.VATRate = v
	}

	result, err := h.svc.Series(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
