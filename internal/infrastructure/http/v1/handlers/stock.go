package handlers

import (
	"github.com/gin-gonic/gin"

	"rxledger/internal/domain/registers/stock"
)

// StockHandler serves stock register queries.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// GetOnHand returns the current on-hand quantity for a product.
// GET /branches/:branchId/products/:productId/stock
func (h *StockHandler) GetOnHand(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}

	qty, err := h.service.GetOnHand(c.Request.Context(), h.BranchID(c), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"productId": productID.String(),
		"onHand":    qty,
	})
}

// GetMovements returns the movement journal for a document.
// GET /branches/:branchId/invoices/:invoiceId/movements
func (h *StockHandler) GetMovements(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "invoiceId")
	if !ok {
		return
	}

	movements, err := h.service.GetMovements(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"recorderId": invoiceID.String(),
		"movements":  movements,
	})
}
