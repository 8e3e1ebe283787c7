// Package invoice provides the Invoice document and its issuing
// transaction: the single write path that turns a cart into a durable
// invoice with stock deducted, GST computed and a gap-free number
// assigned.
package invoice

import (
	"context"
	"fmt"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/entity"
	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
)

// DocumentType is the recorder type journaled in the stock register.
const DocumentType = "Invoice"

// Status is the invoice lifecycle state. The machine has two states:
// ISSUED -> REFUNDED, terminal.
type Status string

const (
	StatusIssued   Status = "ISSUED"
	StatusRefunded Status = "REFUNDED"
)

// Payment methods accepted at the counter.
const (
	PaymentCash = "CASH"
	PaymentCard = "CARD"
	PaymentUPI  = "UPI"
)

// Invoice represents an issued sales invoice. Once committed it is
// immutable except for the single status flip on refund.
type Invoice struct {
	entity.Document

	BranchID id.ID  `db:"branch_id" json:"branchId"`
	Status   Status `db:"status" json:"status"`

	CustomerName    string `db:"customer_name" json:"customerName,omitempty"`
	CustomerPhone   string `db:"customer_phone" json:"customerPhone,omitempty"`
	CustomerAddress string `db:"customer_address" json:"customerAddress,omitempty"`

	PaymentMethod string `db:"payment_method" json:"paymentMethod"`

	// InterState is supplied by the caller; it selects IGST vs CGST+SGST.
	InterState bool `db:"inter_state" json:"interState"`

	Subtotal       types.Money `db:"subtotal" json:"subtotal"`
	DiscountAmount types.Money `db:"discount_amount" json:"discountAmount"`
	CGSTAmount     types.Money `db:"cgst_amount" json:"cgstAmount"`
	SGSTAmount     types.Money `db:"sgst_amount" json:"sgstAmount"`
	IGSTAmount     types.Money `db:"igst_amount" json:"igstAmount"`
	TotalAmount    types.Money `db:"total_amount" json:"totalAmount"`

	Notes string `db:"notes" json:"notes,omitempty"`

	// Table part: invoice lines
	Lines []Line `db:"-" json:"lines"`
}

// Line is one invoice line. Product name, price and tax rate are
// snapshotted at issue time: the live product may change or be archived
// later, the invoice must stay historically accurate.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID   id.ID  `db:"product_id" json:"productId"`
	ProductName string `db:"product_name" json:"productName"`

	UnitPrice      types.Money    `db:"unit_price" json:"unitPrice"`
	Quantity       types.Quantity `db:"quantity" json:"quantity"`
	DiscountAmount types.Money    `db:"discount_amount" json:"discountAmount"`
	GSTRate        types.Percent  `db:"gst_rate" json:"gstRate"`
	CGSTAmount     types.Money    `db:"cgst_amount" json:"cgstAmount"`
	SGSTAmount     types.Money    `db:"sgst_amount" json:"sgstAmount"`
	IGSTAmount     types.Money    `db:"igst_amount" json:"igstAmount"`
	Total          types.Money    `db:"total" json:"total"`
}

// CartItem is one requested cart line.
type CartItem struct {
	ProductID       id.ID
	Quantity        types.Quantity
	DiscountPercent types.Percent
}

// CreateInput is the cart handed to the issuing transaction.
type CreateInput struct {
	BranchID id.ID

	CustomerName    string
	CustomerPhone   string
	CustomerAddress string

	Items           []CartItem
	DiscountPercent types.Percent
	PaymentMethod   string
	InterState      bool
	Notes           string
}

// Validate rejects malformed carts before any store access.
func (in *CreateInput) Validate(ctx context.Context) error {
	if id.IsNil(in.BranchID) {
		return apperror.NewValidation("branch is required").
			WithDetail("field", "branchId")
	}
	if len(in.Items) == 0 {
		return apperror.NewValidation("cart must contain at least one item").
			WithDetail("field", "items")
	}
	for i, item := range in.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if err := validatePercent(item.DiscountPercent, "items", i+1); err != nil {
			return err
		}
	}
	if err := validatePercent(in.DiscountPercent, "discountPercent", 0); err != nil {
		return err
	}
	switch in.PaymentMethod {
	case "", PaymentCash, PaymentCard, PaymentUPI:
	default:
		return apperror.NewValidation("unknown payment method").
			WithDetail("field", "paymentMethod").
			WithDetail("value", in.PaymentMethod)
	}
	return nil
}

func validatePercent(pct types.Percent, field string, lineNo int) error {
	if pct.IsNegative() || pct.GreaterThan(types.MustMoney("100")) {
		err := apperror.NewValidation("discount percent must be between 0 and 100").
			WithDetail("field", field)
		if lineNo > 0 {
			err = err.WithDetail("lineNo", lineNo)
		}
		return err
	}
	return nil
}

// New creates an ISSUED invoice shell from a cart; amounts and lines
// are filled in by the issuing transaction.
func New(in CreateInput, createdBy id.ID) *Invoice {
	method := in.PaymentMethod
	if method == "" {
		method = PaymentCash
	}
	return &Invoice{
		Document:        entity.NewDocument(createdBy),
		BranchID:        in.BranchID,
		Status:          StatusIssued,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		PaymentMethod:   method,
		InterState:      in.InterState,
		Notes:           in.Notes,
		Lines:           make([]Line, 0, len(in.Items)),
	}
}

// CheckTotals verifies the committed-invoice money invariant:
// total == subtotal - discount + cgst + sgst + igst, within one paisa.
func (inv *Invoice) CheckTotals() error {
	expected := inv.Subtotal.
		Sub(inv.DiscountAmount).
		Add(inv.CGSTAmount).
		Add(inv.SGSTAmount).
		Add(inv.IGSTAmount)

	if inv.TotalAmount.Sub(expected).Abs().GreaterThan(types.MustMoney("0.01")) {
		return apperror.NewInternal(fmt.Errorf("invoice totals do not balance")).
			WithDetail("total", inv.TotalAmount.String()).
			WithDetail("expected", expected.String())
	}
	return nil
}

// FindLine returns the line with the given line ID, or nil.
func (inv *Invoice) FindLine(lineID id.ID) *Line {
	for i := range inv.Lines {
		if inv.Lines[i].LineID == lineID {
			return &inv.Lines[i]
		}
	}
	return nil
}
