package dto

import (
	"time"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
	"rxledger/internal/domain/documents/refund"
)

// ReturnItemRequest is one requested restock line.
type ReturnItemRequest struct {
	InvoiceItemID string         `json:"invoiceItemId" binding:"required"`
	Quantity      types.Quantity `json:"quantity" binding:"required"`
}

// ProcessReturnRequest for returning an invoice.
type ProcessReturnRequest struct {
	Reason       string              `json:"reason" binding:"required"`
	RefundAmount types.Money         `json:"refundAmount"`
	Items        []ReturnItemRequest `json:"returnItems" binding:"required"`
}

// ToInput converts the request to the service input.
func (r *ProcessReturnRequest) ToInput(branchID, invoiceID id.ID) (refund.ProcessInput, error) {
	items := make([]refund.ReturnItem, 0, len(r.Items))
	for i, item := range r.Items {
		lineID, err := id.Parse(item.InvoiceItemID)
		if err != nil {
			return refund.ProcessInput{}, apperror.NewValidation("invalid invoice item id").
				WithDetail("field", "returnItems").
				WithDetail("lineNo", i+1).
				WithDetail("invoiceItemId", item.InvoiceItemID)
		}
		items = append(items, refund.ReturnItem{
			InvoiceItemID: lineID,
			Quantity:      item.Quantity,
		})
	}

	return refund.ProcessInput{
		BranchID:     branchID,
		InvoiceID:    invoiceID,
		Reason:       r.Reason,
		RefundAmount: r.RefundAmount,
		Items:        items,
	}, nil
}

// ReturnLineResponse is one restocked line.
type ReturnLineResponse struct {
	LineID        string         `json:"lineId"`
	InvoiceLineID string         `json:"invoiceLineId"`
	ProductID     string         `json:"productId"`
	ProductName   string         `json:"productName"`
	Quantity      types.Quantity `json:"quantity"`
}

// ReturnResponse is a full return representation.
type ReturnResponse struct {
	ID           string      `json:"id"`
	CreditNote   string      `json:"creditNote"`
	BranchID     string      `json:"branchId"`
	InvoiceID    string      `json:"invoiceId"`
	Reason       string      `json:"reason"`
	RefundAmount types.Money `json:"refundAmount"`

	Lines []ReturnLineResponse `json:"lines,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// FromReturn maps a return to its response.
func FromReturn(ret *refund.Return) ReturnResponse {
	lines := make([]ReturnLineResponse, 0, len(ret.Lines))
	for _, l := range ret.Lines {
		lines = append(lines, ReturnLineResponse{
			LineID:        l.LineID.String(),
			InvoiceLineID: l.InvoiceLineID.String(),
			ProductID:     l.ProductID.String(),
			ProductName:   l.ProductName,
			Quantity:      l.Quantity,
		})
	}

	return ReturnResponse{
		ID:           ret.ID.String(),
		CreditNote:   ret.Number,
		BranchID:     ret.BranchID.String(),
		InvoiceID:    ret.InvoiceID.String(),
		Reason:       ret.Reason,
		RefundAmount: ret.RefundAmount,
		Lines:        lines,
		CreatedAt:    ret.CreatedAt,
		CreatedBy:    ret.CreatedBy.String(),
	}
}
