// Package reports provides read-only rollups over committed invoices.
package reports

import (
	"time"

	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
)

// Period is the date range of a report.
type Period struct {
	FromDate time.Time
	ToDate   time.Time
}

// PaymentBucket is one payment-method group in the sales summary.
type PaymentBucket struct {
	Method string      `db:"method" json:"method"`
	Total  types.Money `db:"total" json:"total"`
	Count  int64       `db:"count" json:"count"`
}

// SalesSummary is the per-branch sales rollup for a period.
// An empty period yields zeros and empty lists, never an error.
type SalesSummary struct {
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	TotalSales    types.Money `json:"totalSales"`
	TotalGST      types.Money `json:"totalGst"`
	TotalDiscount types.Money `json:"totalDiscount"`
	InvoiceCount  int64       `json:"invoiceCount"`

	PaymentBreakdown []PaymentBucket `json:"paymentBreakdown"`
}

// TopProduct is one row of the top-sellers ranking, aggregated from
// invoice line snapshots.
type TopProduct struct {
	ProductID    id.ID          `db:"product_id" json:"productId"`
	ProductName  string         `db:"product_name" json:"productName"`
	QuantitySold types.Quantity `db:"quantity_sold" json:"quantitySold"`
	Revenue      types.Money    `db:"revenue" json:"revenue"`
}

// AdvancedReport extends the sales summary with rankings and a live
// inventory valuation snapshot (sum of quantity * purchasePrice over
// active products).
type AdvancedReport struct {
	SalesSummary

	TopProducts        []TopProduct `json:"topProducts"`
	InventoryValuation types.Money  `json:"inventoryValuation"`
}
