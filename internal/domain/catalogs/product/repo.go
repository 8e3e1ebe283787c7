package product

import (
	"context"

	"rxledger/internal/core/id"
	"rxledger/internal/domain"
)

// Repository defines operations for the product catalog.
//
// Quantity and IsActive mutation is intentionally absent here: stock
// movement goes through the stock register's atomic operations.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, branchID, productID id.ID) (*Product, error)
	Update(ctx context.Context, p *Product) error

	// Archive soft-archives a product (products referenced by invoice
	// lines are never deleted).
	Archive(ctx context.Context, branchID, productID id.ID) error

	List(ctx context.Context, branchID id.ID, filter ListFilter) (domain.ListResult[*Product], error)
}

// ListFilter for filtering products.
type ListFilter struct {
	domain.ListFilter

	ActiveOnly bool
	LowStock   bool
}
