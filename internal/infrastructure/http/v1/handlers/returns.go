package handlers

import (
	"github.com/gin-gonic/gin"

	"rxledger/internal/domain/documents/refund"
	"rxledger/internal/infrastructure/http/v1/dto"
)

// ReturnHandler serves return endpoints.
type ReturnHandler struct {
	*BaseHandler
	service *refund.Service
}

// NewReturnHandler creates a return handler.
func NewReturnHandler(base *BaseHandler, service *refund.Service) *ReturnHandler {
	return &ReturnHandler{BaseHandler: base, service: service}
}

// Process returns an invoice: restocks the returned lines, records the
// credit note and flips the invoice to REFUNDED.
// POST /branches/:branchId/invoices/:invoiceId/return
func (h *ReturnHandler) Process(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "invoiceId")
	if !ok {
		return
	}

	var req dto.ProcessReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput(h.BranchID(c), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	ret, err := h.service.Process(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedWith(c, dto.FromReturn(ret))
}

// GetByInvoice retrieves the return processed for an invoice.
// GET /branches/:branchId/invoices/:invoiceId/return
func (h *ReturnHandler) GetByInvoice(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "invoiceId")
	if !ok {
		return
	}

	ret, err := h.service.GetByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromReturn(ret))
}
