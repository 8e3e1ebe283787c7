package handlers

import (
	"github.com/gin-gonic/gin"

	"rxledger/internal/domain/reports"
	"rxledger/internal/infrastructure/http/v1/dto"
)

// ReportsHandler serves report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// Summary returns the sales summary for a period.
// GET /branches/:branchId/reports/summary
func (h *ReportsHandler) Summary(c *gin.Context) {
	var query dto.PeriodQuery
	if !h.BindQuery(c, &query) {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), h.BranchID(c), query.ToPeriod())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, summary)
}

// Advanced returns the full report: financials, payment breakdown, top
// products and inventory valuation. Subscription-gated.
// GET /branches/:branchId/reports/advanced
func (h *ReportsHandler) Advanced(c *gin.Context) {
	var query dto.PeriodQuery
	if !h.BindQuery(c, &query) {
		return
	}

	report, err := h.service.Advanced(c.Request.Context(), h.BranchID(c), query.ToPeriod())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}
