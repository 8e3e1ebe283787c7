package handlers

import (
	"github.com/gin-gonic/gin"

	"rxledger/internal/core/apperror"
	"rxledger/internal/domain/documents/invoice"
	"rxledger/internal/domain/documents/refund"
	"rxledger/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler serves invoice endpoints.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
	returns *refund.Service
}

// NewInvoiceHandler creates an invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service, returns *refund.Service) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, service: service, returns: returns}
}

// Create issues an invoice from a cart.
// POST /branches/:branchId/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput(h.BranchID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	inv, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedWith(c, dto.FromInvoice(inv))
}

// Get retrieves an invoice with its lines and, once refunded, the
// return record.
// GET /branches/:branchId/invoices/:invoiceId
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "invoiceId")
	if !ok {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), h.BranchID(c), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	var ret *refund.Return
	if inv.Status == invoice.StatusRefunded {
		ret, err = h.returns.GetByInvoice(c.Request.Context(), invoiceID)
		if err != nil && !apperror.IsNotFound(err) {
			h.Error(c, err)
			return
		}
	}

	h.OK(c, dto.FromInvoiceWithReturn(inv, ret))
}

// List retrieves invoices with filtering and pagination.
// GET /branches/:branchId/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var query dto.ListInvoicesQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), h.BranchID(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.InvoiceResponse, 0, len(result.Items))
	for _, inv := range result.Items {
		items = append(items, dto.FromInvoice(inv))
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
