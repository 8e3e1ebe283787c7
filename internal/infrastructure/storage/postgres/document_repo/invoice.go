// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/id"
	"rxledger/internal/domain"
	"rxledger/internal/domain/documents/invoice"
	"rxledger/internal/infrastructure/storage/postgres"
)

const (
	invoiceTable     = "doc_invoices"
	invoiceLineTable = "doc_invoice_lines"
)

var invoiceColumns = []string{
	"id", "created_at", "updated_at", "number", "created_by",
	"branch_id", "status",
	"customer_name", "customer_phone", "customer_address",
	"payment_method", "inter_state",
	"subtotal", "discount_amount",
	"cgst_amount", "sgst_amount", "igst_amount", "total_amount",
	"notes",
}

var invoiceLineColumns = []string{
	"line_id", "invoice_id", "line_no",
	"product_id", "product_name",
	"unit_price", "quantity", "discount_amount", "gst_rate",
	"cgst_amount", "sgst_amount", "igst_amount", "total",
}

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Ensure interface compliance.
var _ invoice.Repository = (*InvoiceRepo)(nil)

// Create inserts the invoice header row. A unique violation on the
// invoice number maps to CodeDuplicate so the issuing transaction can
// retry with a fresh number.
func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	q := r.builder.Insert(invoiceTable).
		Columns(invoiceColumns...).
		Values(
			inv.ID, inv.CreatedAt, inv.UpdatedAt, inv.Number, inv.CreatedBy,
			inv.BranchID, inv.Status,
			inv.CustomerName, inv.CustomerPhone, inv.CustomerAddress,
			inv.PaymentMethod, inv.InterState,
			inv.Subtotal, inv.DiscountAmount,
			inv.CGSTAmount, inv.SGSTAmount, inv.IGSTAmount, inv.TotalAmount,
			inv.Notes,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("invoice", "number", inv.Number)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	return nil
}

// SaveLines inserts the invoice's line rows.
func (r *InvoiceRepo) SaveLines(ctx context.Context, invoiceID id.ID, lines []invoice.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.builder.Insert(invoiceLineTable).Columns(invoiceLineColumns...)
	for _, l := range lines {
		q = q.Values(
			l.LineID, invoiceID, l.LineNo,
			l.ProductID, l.ProductName,
			l.UnitPrice, l.Quantity, l.DiscountAmount, l.GSTRate,
			l.CGSTAmount, l.SGSTAmount, l.IGSTAmount, l.Total,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert invoice lines: %w", err)
	}

	return nil
}

// GetByID retrieves an invoice header scoped to its branch.
func (r *InvoiceRepo) GetByID(ctx context.Context, branchID, invoiceID id.ID) (*invoice.Invoice, error) {
	return r.getOne(ctx, squirrel.Eq{"branch_id": branchID, "id": invoiceID}, invoiceID)
}

func (r *InvoiceRepo) getOne(ctx context.Context, where squirrel.Eq, ref any) (*invoice.Invoice, error) {
	q := r.builder.Select(invoiceColumns...).
		From(invoiceTable).
		Where(where).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var inv invoice.Invoice
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("invoice", ref)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	return &inv, nil
}

// GetLines retrieves an invoice's line rows ordered by line number.
func (r *InvoiceRepo) GetLines(ctx context.Context, invoiceID id.ID) ([]invoice.Line, error) {
	q := r.builder.Select(
		"line_id", "line_no",
		"product_id", "product_name",
		"unit_price", "quantity", "discount_amount", "gst_rate",
		"cgst_amount", "sgst_amount", "igst_amount", "total",
	).From(invoiceLineTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []invoice.Line
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select invoice lines: %w", err)
	}

	return lines, nil
}

// MarkRefunded flips status ISSUED -> REFUNDED. The status guard in the
// WHERE clause makes a concurrent double-return lose: the second update
// matches zero rows.
func (r *InvoiceRepo) MarkRefunded(ctx context.Context, invoiceID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, `
		UPDATE doc_invoices
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
	`, invoiceID, invoice.StatusRefunded, invoice.StatusIssued)
	if err != nil {
		return fmt.Errorf("mark refunded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var number string
		err := querier.QueryRow(ctx,
			"SELECT number FROM doc_invoices WHERE id = $1", invoiceID,
		).Scan(&number)
		if err != nil {
			return apperror.NewNotFound("invoice", invoiceID)
		}
		return apperror.NewInvoiceRefunded(number)
	}
	return nil
}

// List retrieves invoices for a branch with paging and total count.
func (r *InvoiceRepo) List(ctx context.Context, branchID id.ID, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	where := squirrel.And{squirrel.Eq{"branch_id": branchID}}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"status": *filter.Status})
	}
	if filter.DateFrom != nil {
		where = append(where, squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		where = append(where, squirrel.Lt{"created_at": *filter.DateTo})
	}
	if filter.Search != "" {
		where = append(where, squirrel.Or{
			squirrel.ILike{"number": "%" + filter.Search + "%"},
			squirrel.ILike{"customer_name": "%" + filter.Search + "%"},
			squirrel.ILike{"customer_phone": "%" + filter.Search + "%"},
		})
	}

	countSQL, countArgs, err := r.builder.Select("COUNT(*)").
		From(invoiceTable).
		Where(where).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count invoices: %w", err)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}

	q := r.builder.Select(invoiceColumns...).
		From(invoiceTable).
		Where(where).
		OrderBy(orderBy)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select invoices: %w", err)
	}

	return result, nil
}
