// Package report_repo provides PostgreSQL implementations for report queries.
package report_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
	"rxledger/internal/domain/reports"
	"rxledger/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository with aggregate queries over
// committed invoices. All queries tolerate empty periods.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// Ensure interface compliance.
var _ reports.Repository = (*ReportRepo)(nil)

// GetSalesSummary aggregates invoice totals for a branch and period.
func (r *ReportRepo) GetSalesSummary(ctx context.Context, branchID id.ID, period reports.Period) (*reports.SalesSummary, error) {
	querier := r.txManager.GetQuerier(ctx)

	summary := &reports.SalesSummary{
		FromDate: period.FromDate,
		ToDate:   period.ToDate,
	}

	err := querier.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_amount), 0),
			COALESCE(SUM(cgst_amount + sgst_amount + igst_amount), 0),
			COALESCE(SUM(discount_amount), 0),
			COUNT(*)
		FROM doc_invoices
		WHERE branch_id = $1 AND created_at >= $2 AND created_at < $3
	`, branchID, period.FromDate, period.ToDate).Scan(
		&summary.TotalSales, &summary.TotalGST,
		&summary.TotalDiscount, &summary.InvoiceCount,
	)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	var breakdown []reports.PaymentBucket
	err = pgxscan.Select(ctx, querier, &breakdown, `
		SELECT
			payment_method AS method,
			COALESCE(SUM(total_amount), 0) AS total,
			COUNT(*) AS count
		FROM doc_invoices
		WHERE branch_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY payment_method
		ORDER BY total DESC
	`, branchID, period.FromDate, period.ToDate)
	if err != nil {
		return nil, fmt.Errorf("payment breakdown: %w", err)
	}
	summary.PaymentBreakdown = breakdown

	return summary, nil
}

// GetTopProducts ranks products by quantity sold from invoice line
// snapshots. Revenue is reported alongside but does not drive the order.
func (r *ReportRepo) GetTopProducts(ctx context.Context, branchID id.ID, period reports.Period, limit int) ([]reports.TopProduct, error) {
	querier := r.txManager.GetQuerier(ctx)

	var top []reports.TopProduct
	err := pgxscan.Select(ctx, querier, &top, `
		SELECT
			l.product_id,
			l.product_name,
			COALESCE(SUM(l.quantity), 0) AS quantity_sold,
			COALESCE(SUM(l.total), 0)    AS revenue
		FROM doc_invoice_lines l
		JOIN doc_invoices i ON i.id = l.invoice_id
		WHERE i.branch_id = $1 AND i.created_at >= $2 AND i.created_at < $3
		GROUP BY l.product_id, l.product_name
		ORDER BY quantity_sold DESC, revenue DESC
		LIMIT $4
	`, branchID, period.FromDate, period.ToDate, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	return top, nil
}

// GetInventoryValuation sums quantity * purchase_price over active
// products. A live snapshot, not period-bound.
func (r *ReportRepo) GetInventoryValuation(ctx context.Context, branchID id.ID) (types.Money, error) {
	querier := r.txManager.GetQuerier(ctx)

	var valuation types.Money
	err := querier.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity * purchase_price), 0)
		FROM cat_products
		WHERE branch_id = $1 AND is_active = true
	`, branchID).Scan(&valuation)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return types.Money{}, fmt.Errorf("inventory valuation: %w", err)
	}

	return valuation, nil
}
