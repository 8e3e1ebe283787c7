package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxledger/internal/core/entity"
	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
	"rxledger/internal/domain/documents/invoice"
	"rxledger/internal/domain/documents/refund"
)

func refundedInvoice() *invoice.Invoice {
	inv := invoice.New(invoice.CreateInput{
		BranchID:      id.New(),
		PaymentMethod: invoice.PaymentCash,
	}, id.New())
	inv.Number = "INV202506000042"
	inv.Status = invoice.StatusRefunded
	inv.Subtotal = types.MustMoney("500")
	inv.TotalAmount = types.MustMoney("560")
	return inv
}

func TestFromInvoiceWithReturn_EmbedsReturn(t *testing.T) {
	inv := refundedInvoice()

	ret := &refund.Return{
		Document:     entity.NewDocument(id.New()),
		BranchID:     inv.BranchID,
		InvoiceID:    inv.ID,
		Reason:       "expired stock",
		RefundAmount: types.MustMoney("560"),
	}
	ret.Number = refund.CreditNoteNumber(inv.Number)

	resp := FromInvoiceWithReturn(inv, ret)

	require.NotNil(t, resp.Return)
	assert.Equal(t, "CN-INV202506000042", resp.Return.CreditNote)
	assert.Equal(t, inv.ID.String(), resp.Return.InvoiceID)
	assert.Equal(t, "expired stock", resp.Return.Reason)
}

func TestFromInvoiceWithReturn_OmitsWhenAbsent(t *testing.T) {
	resp := FromInvoiceWithReturn(refundedInvoice(), nil)
	require.Nil(t, resp.Return)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `"return"`)
}

func TestListInvoicesQuery_PageMapsToOffset(t *testing.T) {
	q := ListInvoicesQuery{Page: 3, Limit: 20}

	filter, err := q.ToFilter()
	require.NoError(t, err)

	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, 40, filter.Offset)
}

func TestListInvoicesQuery_Defaults(t *testing.T) {
	q := ListInvoicesQuery{}

	filter, err := q.ToFilter()
	require.NoError(t, err)

	assert.Equal(t, defaultPageSize, filter.Limit)
	assert.Zero(t, filter.Offset)
	assert.Nil(t, filter.Status)
}

func TestListInvoicesQuery_DateRangeAndStatus(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	q := ListInvoicesQuery{
		Status:    string(invoice.StatusIssued),
		StartDate: &from,
		EndDate:   &to,
	}

	filter, err := q.ToFilter()
	require.NoError(t, err)

	require.NotNil(t, filter.Status)
	assert.Equal(t, invoice.StatusIssued, *filter.Status)
	assert.Equal(t, &from, filter.DateFrom)
	assert.Equal(t, &to, filter.DateTo)
}

func TestListInvoicesQuery_RejectsUnknownStatus(t *testing.T) {
	q := ListInvoicesQuery{Status: "VOID"}

	_, err := q.ToFilter()
	require.Error(t, err)
}
