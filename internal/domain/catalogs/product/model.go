// Package product provides the Product catalog.
//
// Product.Quantity is the on-hand stock counter. It is a shared mutable
// resource across concurrent invoice transactions and is mutated only
// through the stock register's atomic primitives, never directly.
package product

import (
	"context"
	"time"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/entity"
	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
)

// Product represents a stocked pharmacy item.
type Product struct {
	entity.Base

	BranchID id.ID  `db:"branch_id" json:"branchId"`
	Name     string `db:"name" json:"name"`
	SKU      string `db:"sku" json:"sku,omitempty"`
	HSNCode  string `db:"hsn_code" json:"hsnCode,omitempty"`

	BatchNumber string     `db:"batch_number" json:"batchNumber,omitempty"`
	ExpiryDate  *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`

	// Quantity is on-hand stock; fractional units are legal (loose tablets).
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// MinStock is the low-stock alert threshold.
	MinStock types.Quantity `db:"min_stock" json:"minStock"`

	// MRP is the per-unit sale price used as the line base price.
	MRP           types.Money `db:"mrp" json:"mrp"`
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// GSTRate is the tax rate in percent (0, 5, 12, 18, 28).
	GSTRate types.Percent `db:"gst_rate" json:"gstRate"`

	// IsActive is auto-cleared when stock hits zero (auto-archive) and
	// restored on restock. Products referenced by invoice lines are
	// soft-archived, never deleted.
	IsActive bool `db:"is_active" json:"isActive"`
}

// New creates a new active product for a branch.
func New(branchID id.ID, name string) *Product {
	return &Product{
		Base:     entity.NewBase(),
		BranchID: branchID,
		Name:     name,
		IsActive: true,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if id.IsNil(p.BranchID) {
		return apperror.NewValidation("branch is required").
			WithDetail("field", "branchId")
	}
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.Quantity.IsNegative() {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}
	if p.MRP.IsNegative() {
		return apperror.NewValidation("mrp cannot be negative").
			WithDetail("field", "mrp")
	}
	if p.GSTRate.IsNegative() {
		return apperror.NewValidation("gstRate cannot be negative").
			WithDetail("field", "gstRate")
	}
	return nil
}

// IsLowStock reports whether on-hand stock is at or below the threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity.LessThanOrEqual(p.MinStock)
}

var _ entity.Validatable = (*Product)(nil)
