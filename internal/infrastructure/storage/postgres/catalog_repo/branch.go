// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
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
	"rxledger/internal/domain/catalogs/branch"
	"rxledger/internal/infrastructure/storage/postgres"
)

const branchTable = "cat_branches"

var branchColumns = []string{
	"id", "created_at", "updated_at",
	"name", "code", "gstin", "state", "address", "phone", "is_active",
}

// BranchRepo implements branch.Repository.
type BranchRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewBranchRepo creates a new branch repository.
func NewBranchRepo(txManager *postgres.TxManager) *BranchRepo {
	return &BranchRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Ensure interface compliance.
var _ branch.Repository = (*BranchRepo)(nil)

// Create inserts a new branch.
func (r *BranchRepo) Create(ctx context.Context, b *branch.Branch) error {
	q := r.builder.Insert(branchTable).
		Columns(branchColumns...).
		Values(
			b.ID, b.CreatedAt, b.UpdatedAt,
			b.Name, b.Code, b.GSTIN, b.State, b.Address, b.Phone, b.IsActive,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("branch", "code", b.Code)
		}
		return fmt.Errorf("insert branch: %w", err)
	}

	return nil
}

// GetByID retrieves a branch by id.
func (r *BranchRepo) GetByID(ctx context.Context, branchID id.ID) (*branch.Branch, error) {
	return r.getOne(ctx, squirrel.Eq{"id": branchID}, branchID)
}

// GetByCode retrieves a branch by its unique code.
func (r *BranchRepo) GetByCode(ctx context.Context, code string) (*branch.Branch, error) {
	return r.getOne(ctx, squirrel.Eq{"code": code}, code)
}

func (r *BranchRepo) getOne(ctx context.Context, where squirrel.Eq, ref any) (*branch.Branch, error) {
	q := r.builder.Select(branchColumns...).
		From(branchTable).
		Where(where).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b branch.Branch
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("branch", ref)
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}

	return &b, nil
}

// List returns all branches ordered by code.
func (r *BranchRepo) List(ctx context.Context) ([]*branch.Branch, error) {
	q := r.builder.Select(branchColumns...).
		From(branchTable).
		OrderBy("code")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var branches []*branch.Branch
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &branches, sql, args...); err != nil {
		return nil, fmt.Errorf("select branches: %w", err)
	}

	return branches, nil
}

// Exists reports whether a branch exists.
func (r *BranchRepo) Exists(ctx context.Context, branchID id.ID) (bool, error) {
	var exists bool
	querier := r.txManager.GetQuerier(ctx)
	err := querier.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM cat_branches WHERE id = $1)", branchID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check branch exists: %w", err)
	}
	return exists, nil
}
