package invoice

import (
	"context"
	"time"

	"rxledger/internal/core/id"
	"rxledger/internal/domain"
)

// Repository defines storage operations for invoices.
type Repository interface {
	// Create inserts the invoice row. A collision on the unique invoice
	// number surfaces as apperror.CodeDuplicate so the caller can retry
	// with a fresh number.
	Create(ctx context.Context, inv *Invoice) error

	// SaveLines inserts the invoice's line rows.
	SaveLines(ctx context.Context, invoiceID id.ID, lines []Line) error

	GetByID(ctx context.Context, branchID, invoiceID id.ID) (*Invoice, error)
	GetLines(ctx context.Context, invoiceID id.ID) ([]Line, error)

	// MarkRefunded flips status ISSUED -> REFUNDED. Returns
	// apperror.CodeInvoiceRefunded when the invoice is not in ISSUED
	// state, so a concurrent double-return loses cleanly.
	MarkRefunded(ctx context.Context, invoiceID id.ID) error

	List(ctx context.Context, branchID id.ID, filter ListFilter) (domain.ListResult[*Invoice], error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
}
