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
	"rxledger/internal/domain/documents/refund"
	"rxledger/internal/infrastructure/storage/postgres"
)

const (
	returnTable     = "doc_returns"
	returnLineTable = "doc_return_lines"
)

var returnColumns = []string{
	"id", "created_at", "updated_at", "number", "created_by",
	"branch_id", "invoice_id",
	"reason", "refund_amount",
}

// ReturnRepo implements refund.Repository.
type ReturnRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReturnRepo creates a new return repository.
func NewReturnRepo(txManager *postgres.TxManager) *ReturnRepo {
	return &ReturnRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Ensure interface compliance.
var _ refund.Repository = (*ReturnRepo)(nil)

// Create inserts the return row. The unique index on invoice_id backs
// the one-return-per-invoice rule at the storage level.
func (r *ReturnRepo) Create(ctx context.Context, ret *refund.Return) error {
	q := r.builder.Insert(returnTable).
		Columns(returnColumns...).
		Values(
			ret.ID, ret.CreatedAt, ret.UpdatedAt, ret.Number, ret.CreatedBy,
			ret.BranchID, ret.InvoiceID,
			ret.Reason, ret.RefundAmount,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("return", "invoiceId", ret.InvoiceID.String())
		}
		return fmt.Errorf("insert return: %w", err)
	}

	return nil
}

// SaveLines inserts the return's line rows.
func (r *ReturnRepo) SaveLines(ctx context.Context, returnID id.ID, lines []refund.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.builder.Insert(returnLineTable).Columns(
		"line_id", "return_id", "invoice_line_id",
		"product_id", "product_name", "quantity",
	)
	for _, l := range lines {
		q = q.Values(
			l.LineID, returnID, l.InvoiceLineID,
			l.ProductID, l.ProductName, l.Quantity,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert return lines: %w", err)
	}

	return nil
}

// GetByInvoice retrieves the return recorded against an invoice.
func (r *ReturnRepo) GetByInvoice(ctx context.Context, invoiceID id.ID) (*refund.Return, error) {
	q := r.builder.Select(returnColumns...).
		From(returnTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ret refund.Return
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &ret, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("return", invoiceID)
		}
		return nil, fmt.Errorf("get return: %w", err)
	}

	return &ret, nil
}

// GetLines retrieves a return's line rows.
func (r *ReturnRepo) GetLines(ctx context.Context, returnID id.ID) ([]refund.Line, error) {
	q := r.builder.Select(
		"line_id", "invoice_line_id",
		"product_id", "product_name", "quantity",
	).From(returnLineTable).
		Where(squirrel.Eq{"return_id": returnID}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []refund.Line
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select return lines: %w", err)
	}

	return lines, nil
}
