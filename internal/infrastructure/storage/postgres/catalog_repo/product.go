package catalog_repo

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
	"rxledger/internal/domain/catalogs/product"
	"rxledger/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

var productColumns = []string{
	"id", "created_at", "updated_at",
	"branch_id", "name", "sku", "hsn_code",
	"batch_number", "expiry_date",
	"quantity", "min_stock",
	"mrp", "purchase_price", "gst_rate", "is_active",
}

// ProductRepo implements product.Repository.
//
// Quantity and is_active are written here only on Create; after that
// they belong to the stock register.
type ProductRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Ensure interface compliance.
var _ product.Repository = (*ProductRepo)(nil)

// Create inserts a new product.
func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	q := r.builder.Insert(productTable).
		Columns(productColumns...).
		Values(
			p.ID, p.CreatedAt, p.UpdatedAt,
			p.BranchID, p.Name, p.SKU, p.HSNCode,
			p.BatchNumber, p.ExpiryDate,
			p.Quantity, p.MinStock,
			p.MRP, p.PurchasePrice, p.GSTRate, p.IsActive,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("product", "sku", p.SKU)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product scoped to its branch.
func (r *ProductRepo) GetByID(ctx context.Context, branchID, productID id.ID) (*product.Product, error) {
	q := r.builder.Select(productColumns...).
		From(productTable).
		Where(squirrel.Eq{"branch_id": branchID, "id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

// Update modifies catalog fields. Quantity and is_active are excluded:
// stock mutation goes through the register's atomic operations.
func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	q := r.builder.Update(productTable).
		Set("name", p.Name).
		Set("sku", p.SKU).
		Set("hsn_code", p.HSNCode).
		Set("batch_number", p.BatchNumber).
		Set("expiry_date", p.ExpiryDate).
		Set("min_stock", p.MinStock).
		Set("mrp", p.MRP).
		Set("purchase_price", p.PurchasePrice).
		Set("gst_rate", p.GSTRate).
		Set("updated_at", p.UpdatedAt).
		Where(squirrel.Eq{"branch_id": p.BranchID, "id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID)
	}

	return nil
}

// Archive soft-archives a product.
func (r *ProductRepo) Archive(ctx context.Context, branchID, productID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, `
		UPDATE cat_products
		SET is_active = false, updated_at = now()
		WHERE branch_id = $1 AND id = $2
	`, branchID, productID)
	if err != nil {
		return fmt.Errorf("archive product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID)
	}
	return nil
}

// List retrieves products for a branch with paging and total count.
func (r *ProductRepo) List(ctx context.Context, branchID id.ID, filter product.ListFilter) (domain.ListResult[*product.Product], error) {
	result := domain.ListResult[*product.Product]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	where := squirrel.And{squirrel.Eq{"branch_id": branchID}}
	if filter.ActiveOnly {
		where = append(where, squirrel.Eq{"is_active": true})
	}
	if filter.LowStock {
		where = append(where, squirrel.Expr("quantity <= min_stock"))
	}
	if filter.Search != "" {
		where = append(where, squirrel.Or{
			squirrel.ILike{"name": "%" + filter.Search + "%"},
			squirrel.ILike{"sku": "%" + filter.Search + "%"},
		})
	}

	countSQL, countArgs, err := r.builder.Select("COUNT(*)").
		From(productTable).
		Where(where).
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count products: %w", err)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "name"
	}

	q := r.builder.Select(productColumns...).
		From(productTable).
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
		return result, fmt.Errorf("select products: %w", err)
	}

	return result, nil
}
