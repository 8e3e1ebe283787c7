package reports

import (
	"context"

	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
)

// Repository defines report data access. All queries are read-only and
// must tolerate empty result sets by returning zero values.
type Repository interface {
	GetSalesSummary(ctx context.Context, branchID id.ID, period Period) (*SalesSummary, error)
	GetTopProducts(ctx context.Context, branchID id.ID, period Period, limit int) ([]TopProduct, error)
	GetInventoryValuation(ctx context.Context, branchID id.ID) (types.Money, error)
}
