package handlers

import (
	"github.com/gin-gonic/gin"

	"rxledger/internal/domain/catalogs/product"
	"rxledger/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves product catalog endpoints.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// Create adds a product to the branch catalog.
// POST /branches/:branchId/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity(h.BranchID(c))
	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedWith(c, dto.FromProduct(p))
}

// Get retrieves a product.
// GET /branches/:branchId/products/:productId
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), h.BranchID(c), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// Update modifies catalog fields of a product.
// PUT /branches/:branchId/products/:productId
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), h.BranchID(c), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(p)
	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromProduct(p))
}

// Archive soft-archives a product.
// DELETE /branches/:branchId/products/:productId
func (h *ProductHandler) Archive(c *gin.Context) {
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}

	if err := h.service.Archive(c.Request.Context(), h.BranchID(c), productID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List retrieves products with filtering and pagination.
// GET /branches/:branchId/products
func (h *ProductHandler) List(c *gin.Context) {
	var query dto.ListProductsQuery
	if !h.BindQuery(c, &query) {
		return
	}

	result, err := h.service.List(c.Request.Context(), h.BranchID(c), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ProductResponse, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, dto.FromProduct(p))
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
