package dto

import (
	"time"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
	"rxledger/internal/domain/documents/invoice"
	"rxledger/internal/domain/documents/refund"
)

// CartItemRequest is one cart line of an invoice request.
type CartItemRequest struct {
	ProductID       string         `json:"productId" binding:"required"`
	Quantity        types.Quantity `json:"quantity" binding:"required"`
	DiscountPercent types.Percent  `json:"discountPercent"`
}

// CreateInvoiceRequest for issuing an invoice.
type CreateInvoiceRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`

	Items           []CartItemRequest `json:"items" binding:"required"`
	DiscountPercent types.Percent     `json:"discountPercent"`
	PaymentMethod   string            `json:"paymentMethod"`
	InterState      bool              `json:"interState"`
	Notes           string            `json:"notes"`
}

// ToInput converts the request to the service input.
func (r *CreateInvoiceRequest) ToInput(branchID id.ID) (invoice.CreateInput, error) {
	items := make([]invoice.CartItem, 0, len(r.Items))
	for i, item := range r.Items {
		productID, err := id.Parse(item.ProductID)
		if err != nil {
			return invoice.CreateInput{}, apperror.NewValidation("invalid product id").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1).
				WithDetail("productId", item.ProductID)
		}
		items = append(items, invoice.CartItem{
			ProductID:       productID,
			Quantity:        item.Quantity,
			DiscountPercent: item.DiscountPercent,
		})
	}

	return invoice.CreateInput{
		BranchID:        branchID,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		CustomerAddress: r.CustomerAddress,
		Items:           items,
		DiscountPercent: r.DiscountPercent,
		PaymentMethod:   r.PaymentMethod,
		InterState:      r.InterState,
		Notes:           r.Notes,
	}, nil
}

// InvoiceLineResponse is one invoice line.
type InvoiceLineResponse struct {
	LineID         string         `json:"lineId"`
	LineNo         int            `json:"lineNo"`
	ProductID      string         `json:"productId"`
	ProductName    string         `json:"productName"`
	UnitPrice      types.Money    `json:"unitPrice"`
	Quantity       types.Quantity `json:"quantity"`
	DiscountAmount types.Money    `json:"discountAmount"`
	GSTRate        types.Percent  `json:"gstRate"`
	CGSTAmount     types.Money    `json:"cgstAmount"`
	SGSTAmount     types.Money    `json:"sgstAmount"`
	IGSTAmount     types.Money    `json:"igstAmount"`
	Total          types.Money    `json:"total"`
}

// InvoiceResponse is a full invoice representation.
type InvoiceResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	BranchID string `json:"branchId"`
	Status   string `json:"status"`

	CustomerName    string `json:"customerName,omitempty"`
	CustomerPhone   string `json:"customerPhone,omitempty"`
	CustomerAddress string `json:"customerAddress,omitempty"`

	PaymentMethod string `json:"paymentMethod"`
	InterState    bool   `json:"interState"`

	Subtotal       types.Money `json:"subtotal"`
	DiscountAmount types.Money `json:"discountAmount"`
	CGSTAmount     types.Money `json:"cgstAmount"`
	SGSTAmount     types.Money `json:"sgstAmount"`
	IGSTAmount     types.Money `json:"igstAmount"`
	TotalAmount    types.Money `json:"totalAmount"`

	Notes string `json:"notes,omitempty"`

	Lines []InvoiceLineResponse `json:"lines,omitempty"`

	// Return carries the refund record once the invoice is refunded.
	Return *ReturnResponse `json:"return,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// FromInvoice maps an invoice to its response.
func FromInvoice(inv *invoice.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lines = append(lines, InvoiceLineResponse{
			LineID:         l.LineID.String(),
			LineNo:         l.LineNo,
			ProductID:      l.ProductID.String(),
			ProductName:    l.ProductName,
			UnitPrice:      l.UnitPrice,
			Quantity:       l.Quantity,
			DiscountAmount: l.DiscountAmount,
			GSTRate:        l.GSTRate,
			CGSTAmount:     l.CGSTAmount,
			SGSTAmount:     l.SGSTAmount,
			IGSTAmount:     l.IGSTAmount,
			Total:          l.Total,
		})
	}

	return InvoiceResponse{
		ID:              inv.ID.String(),
		Number:          inv.Number,
		BranchID:        inv.BranchID.String(),
		Status:          string(inv.Status),
		CustomerName:    inv.CustomerName,
		CustomerPhone:   inv.CustomerPhone,
		CustomerAddress: inv.CustomerAddress,
		PaymentMethod:   inv.PaymentMethod,
		InterState:      inv.InterState,
		Subtotal:        inv.Subtotal,
		DiscountAmount:  inv.DiscountAmount,
		CGSTAmount:      inv.CGSTAmount,
		SGSTAmount:      inv.SGSTAmount,
		IGSTAmount:      inv.IGSTAmount,
		TotalAmount:     inv.TotalAmount,
		Notes:           inv.Notes,
		Lines:           lines,
		CreatedAt:       inv.CreatedAt,
		CreatedBy:       inv.CreatedBy.String(),
	}
}

// FromInvoiceWithReturn maps an invoice together with its return record,
// when one exists.
func FromInvoiceWithReturn(inv *invoice.Invoice, ret *refund.Return) InvoiceResponse {
	resp := FromInvoice(inv)
	if ret != nil {
		r := FromReturn(ret)
		resp.Return = &r
	}
	return resp
}

// defaultPageSize bounds an invoice list page when the client omits limit.
const defaultPageSize = 50

// ListInvoicesQuery filters the invoice list. Pagination is page-based:
// page counts from 1, limit is the page size.
type ListInvoicesQuery struct {
	Status    string     `form:"status"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	Search    string     `form:"search"`
	Page      int        `form:"page"`
	Limit     int        `form:"limit"`
}

// ToFilter converts the query to the repository filter.
func (q *ListInvoicesQuery) ToFilter() (invoice.ListFilter, error) {
	filter := invoice.ListFilter{}
	filter.Search = q.Search
	filter.DateFrom = q.StartDate
	filter.DateTo = q.EndDate

	filter.Limit = q.Limit
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if q.Page > 1 {
		filter.Offset = (q.Page - 1) * filter.Limit
	}

	switch q.Status {
	case "":
	case string(invoice.StatusIssued), string(invoice.StatusRefunded):
		status := invoice.Status(q.Status)
		filter.Status = &status
	default:
		return filter, apperror.NewValidation("unknown invoice status").
			WithDetail("status", q.Status)
	}

	return filter, nil
}
