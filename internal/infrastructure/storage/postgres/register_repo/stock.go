// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
	"rxledger/internal/domain/registers/stock"
	"rxledger/internal/infrastructure/storage/postgres"
)

const stockMovementsTable = "reg_stock_movements"

// StockRepo implements stock.Repository. On-hand quantity lives on the
// products table; the movements table is an append-only journal.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)

// Reserve decrements on-hand quantity in a single conditional UPDATE.
// The quantity check and the decrement happen in one statement, so two
// transactions competing for the last units serialize on the row lock
// and the loser sees the already-decremented quantity.
func (r *StockRepo) Reserve(ctx context.Context, branchID, productID id.ID, qty types.Quantity) (types.Quantity, error) {
	querier := r.txManager.GetQuerier(ctx)

	var (
		name      string
		remaining types.Quantity
	)
	err := querier.QueryRow(ctx, `
		UPDATE cat_products
		SET quantity   = quantity - $3,
		    is_active  = (quantity - $3) > 0,
		    updated_at = now()
		WHERE branch_id = $1 AND id = $2 AND quantity >= $3
		RETURNING name, quantity
	`, branchID, productID, qty).Scan(&name, &remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return types.Quantity{}, fmt.Errorf("reserve stock: %w", err)
	}

	// Zero rows: either the product is missing or stock is short.
	var available types.Quantity
	err = querier.QueryRow(ctx, `
		SELECT name, quantity FROM cat_products
		WHERE branch_id = $1 AND id = $2
	`, branchID, productID).Scan(&name, &available)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Quantity{}, apperror.NewNotFound("product", productID)
	}
	if err != nil {
		return types.Quantity{}, fmt.Errorf("check stock: %w", err)
	}

	return types.Quantity{}, apperror.NewInsufficientStock(name, available, qty)
}

// Release increments on-hand quantity and reactivates the product.
func (r *StockRepo) Release(ctx context.Context, branchID, productID id.ID, qty types.Quantity) (types.Quantity, error) {
	querier := r.txManager.GetQuerier(ctx)

	var remaining types.Quantity
	err := querier.QueryRow(ctx, `
		UPDATE cat_products
		SET quantity   = quantity + $3,
		    is_active  = true,
		    updated_at = now()
		WHERE branch_id = $1 AND id = $2
		RETURNING quantity
	`, branchID, productID, qty).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Quantity{}, apperror.NewNotFound("product", productID)
	}
	if err != nil {
		return types.Quantity{}, fmt.Errorf("release stock: %w", err)
	}

	return remaining, nil
}

// CreateMovements batch inserts journal rows.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []stock.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	q := r.builder.Insert(stockMovementsTable).Columns(
		"line_id", "branch_id", "recorder_id", "recorder_type",
		"record_type", "product_id", "quantity", "created_at",
	)

	for _, m := range movements {
		q = q.Values(
			m.LineID, m.BranchID, m.RecorderID, m.RecorderType,
			m.RecordType, m.ProductID, m.Quantity, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

// GetOnHand returns current on-hand quantity for a product.
func (r *StockRepo) GetOnHand(ctx context.Context, branchID, productID id.ID) (types.Quantity, error) {
	querier := r.txManager.GetQuerier(ctx)

	var qty types.Quantity
	err := querier.QueryRow(ctx, `
		SELECT quantity FROM cat_products
		WHERE branch_id = $1 AND id = $2
	`, branchID, productID).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Quantity{}, apperror.NewNotFound("product", productID)
	}
	if err != nil {
		return types.Quantity{}, fmt.Errorf("get on-hand: %w", err)
	}

	return qty, nil
}

// GetMovementsByRecorder retrieves movements for a document.
func (r *StockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]stock.Movement, error) {
	q := r.builder.Select(
		"line_id", "branch_id", "recorder_id", "recorder_type",
		"record_type", "product_id", "quantity", "created_at",
	).From(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []stock.Movement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}
