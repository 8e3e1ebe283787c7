package branch

import (
	"context"

	"rxledger/internal/core/id"
)

// Repository defines operations for the branch catalog.
type Repository interface {
	Create(ctx context.Context, b *Branch) error
	GetByID(ctx context.Context, branchID id.ID) (*Branch, error)
	GetByCode(ctx context.Context, code string) (*Branch, error)
	List(ctx context.Context) ([]*Branch, error)
	Exists(ctx context.Context, branchID id.ID) (bool, error)
}
