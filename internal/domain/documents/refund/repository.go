package refund

import (
	"context"

	"rxledger/internal/core/id"
)

// Repository defines storage operations for returns.
type Repository interface {
	Create(ctx context.Context, ret *Return) error
	SaveLines(ctx context.Context, returnID id.ID, lines []Line) error

	// GetByInvoice returns the return for an invoice, or
	// apperror.CodeNotFound when none exists.
	GetByInvoice(ctx context.Context, invoiceID id.ID) (*Return, error)
	GetLines(ctx context.Context, returnID id.ID) ([]Line, error)
}
