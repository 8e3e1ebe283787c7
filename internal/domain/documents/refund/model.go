// Package refund provides the Return document: the reversal of an
// issued invoice. Stock released, a credit note recorded, invoice
// status flipped to REFUNDED.
package refund

import (
	"context"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/entity"
	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
)

// DocumentType is the recorder type journaled in the stock register.
const DocumentType = "Return"

// CreditNoteNumber derives the credit-note reference from the original
// invoice number, e.g. "CN-INV202506000123".
func CreditNoteNumber(invoiceNumber string) string {
	return "CN-" + invoiceNumber
}

// Return represents a processed return. At most one return exists per
// invoice; the invoice transitions ISSUED -> REFUNDED outright, with no
// partial-refund state machine. Created once; immutable.
type Return struct {
	entity.Document

	BranchID  id.ID `db:"branch_id" json:"branchId"`
	InvoiceID id.ID `db:"invoice_id" json:"invoiceId"`

	Reason       string      `db:"reason" json:"reason"`
	RefundAmount types.Money `db:"refund_amount" json:"refundAmount"`

	// Table part: restocked lines
	Lines []Line `db:"-" json:"lines"`
}

// Line is one restocked return line, referencing the original invoice line.
type Line struct {
	LineID        id.ID          `db:"line_id" json:"lineId"`
	InvoiceLineID id.ID          `db:"invoice_line_id" json:"invoiceLineId"`
	ProductID     id.ID          `db:"product_id" json:"productId"`
	ProductName   string         `db:"product_name" json:"productName"`
	Quantity      types.Quantity `db:"quantity" json:"quantity"`
}

// ReturnItem is one requested restock line.
type ReturnItem struct {
	InvoiceItemID id.ID
	Quantity      types.Quantity
}

// ProcessInput is the return request.
type ProcessInput struct {
	BranchID  id.ID
	InvoiceID id.ID

	Reason       string
	RefundAmount types.Money
	Items        []ReturnItem
}

// Validate rejects malformed return requests before any store access.
func (in *ProcessInput) Validate(ctx context.Context) error {
	if id.IsNil(in.BranchID) {
		return apperror.NewValidation("branch is required").
			WithDetail("field", "branchId")
	}
	if id.IsNil(in.InvoiceID) {
		return apperror.NewValidation("invoice is required").
			WithDetail("field", "invoiceId")
	}
	if in.Reason == "" {
		return apperror.NewValidation("reason is required").
			WithDetail("field", "reason")
	}
	if in.RefundAmount.IsNegative() {
		return apperror.NewValidation("refund amount cannot be negative").
			WithDetail("field", "refundAmount")
	}
	if len(in.Items) == 0 {
		return apperror.NewValidation("at least one return item is required").
			WithDetail("field", "returnItems")
	}
	for i, item := range in.Items {
		if id.IsNil(item.InvoiceItemID) {
			return apperror.NewValidation("invoice item is required").
				WithDetail("field", "returnItems").
				WithDetail("lineNo", i+1)
		}
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "returnItems").
				WithDetail("lineNo", i+1)
		}
	}
	return nil
}
