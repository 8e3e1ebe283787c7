package dto

import (
	"time"

	"rxledger/internal/core/entity"
	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
	"rxledger/internal/domain/catalogs/product"
)

// CreateProductRequest for adding a product to the branch catalog.
type CreateProductRequest struct {
	Name    string `json:"name" binding:"required"`
	SKU     string `json:"sku"`
	HSNCode string `json:"hsnCode"`

	BatchNumber string     `json:"batchNumber"`
	ExpiryDate  *time.Time `json:"expiryDate"`

	Quantity types.Quantity `json:"quantity"`
	MinStock types.Quantity `json:"minStock"`

	MRP           types.Money `json:"mrp"`
	PurchasePrice types.Money `json:"purchasePrice"`

	GSTRate types.Percent `json:"gstRate"`
}

// ToEntity converts the request to a product.
func (r *CreateProductRequest) ToEntity(branchID id.ID) *product.Product {
	return &product.Product{
		Base:          entity.NewBase(),
		BranchID:      branchID,
		Name:          r.Name,
		SKU:           r.SKU,
		HSNCode:       r.HSNCode,
		BatchNumber:   r.BatchNumber,
		ExpiryDate:    r.ExpiryDate,
		Quantity:      r.Quantity,
		MinStock:      r.MinStock,
		MRP:           r.MRP,
		PurchasePrice: r.PurchasePrice,
		GSTRate:       r.GSTRate,
		IsActive:      r.Quantity.IsPositive(),
	}
}

// UpdateProductRequest for modifying catalog fields. Quantity is absent:
// stock changes go through sales, returns and restock operations.
type UpdateProductRequest struct {
	Name    *string `json:"name"`
	SKU     *string `json:"sku"`
	HSNCode *string `json:"hsnCode"`

	BatchNumber *string    `json:"batchNumber"`
	ExpiryDate  *time.Time `json:"expiryDate"`

	MinStock      *types.Quantity `json:"minStock"`
	MRP           *types.Money    `json:"mrp"`
	PurchasePrice *types.Money    `json:"purchasePrice"`
	GSTRate       *types.Percent  `json:"gstRate"`
}

// ApplyTo merges non-nil fields into the product.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.SKU != nil {
		p.SKU = *r.SKU
	}
	if r.HSNCode != nil {
		p.HSNCode = *r.HSNCode
	}
	if r.BatchNumber != nil {
		p.BatchNumber = *r.BatchNumber
	}
	if r.ExpiryDate != nil {
		p.ExpiryDate = r.ExpiryDate
	}
	if r.MinStock != nil {
		p.MinStock = *r.MinStock
	}
	if r.MRP != nil {
		p.MRP = *r.MRP
	}
	if r.PurchasePrice != nil {
		p.PurchasePrice = *r.PurchasePrice
	}
	if r.GSTRate != nil {
		p.GSTRate = *r.GSTRate
	}
}

// ProductResponse is a full product representation.
type ProductResponse struct {
	ID       string `json:"id"`
	BranchID string `json:"branchId"`
	Name     string `json:"name"`
	SKU      string `json:"sku,omitempty"`
	HSNCode  string `json:"hsnCode,omitempty"`

	BatchNumber string     `json:"batchNumber,omitempty"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`

	Quantity types.Quantity `json:"quantity"`
	MinStock types.Quantity `json:"minStock"`
	LowStock bool           `json:"lowStock"`

	MRP           types.Money `json:"mrp"`
	PurchasePrice types.Money `json:"purchasePrice"`

	GSTRate  types.Percent `json:"gstRate"`
	IsActive bool          `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromProduct maps a product to its response.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID.String(),
		BranchID:      p.BranchID.String(),
		Name:          p.Name,
		SKU:           p.SKU,
		HSNCode:       p.HSNCode,
		BatchNumber:   p.BatchNumber,
		ExpiryDate:    p.ExpiryDate,
		Quantity:      p.Quantity,
		MinStock:      p.MinStock,
		LowStock:      p.IsLowStock(),
		MRP:           p.MRP,
		PurchasePrice: p.PurchasePrice,
		GSTRate:       p.GSTRate,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ListProductsQuery filters the product list.
type ListProductsQuery struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"activeOnly"`
	LowStock   bool   `form:"lowStock"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

// ToFilter converts the query to the repository filter.
func (q *ListProductsQuery) ToFilter() product.ListFilter {
	filter := product.ListFilter{
		ActiveOnly: q.ActiveOnly,
		LowStock:   q.LowStock,
	}
	filter.Search = q.Search
	filter.Limit = q.Limit
	filter.Offset = q.Offset
	return filter
}
