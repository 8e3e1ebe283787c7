package stock

import (
	"context"
	"fmt"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
	"rxledger/pkg/logger"
)

// Service provides business operations for the stock register.
// Transactions are managed by the caller (document services).
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Reserve deducts stock for one document line and journals the expense
// movement. Returns the post-decrement quantity. Must be called within
// the document's transaction so a later failure rolls the deduction back.
func (s *Service) Reserve(ctx context.Context, branchID, recorderID id.ID, recorderType string, productID id.ID, qty types.Quantity) (types.Quantity, error) {
	if !qty.IsPositive() {
		return types.Zero(), apperror.NewValidation("quantity must be positive").
			WithDetail("product_id", productID.String())
	}

	remaining, err := s.repo.Reserve(ctx, branchID, productID, qty)
	if err != nil {
		return types.Zero(), err
	}

	movement := NewMovement(branchID, recorderID, recorderType, RecordTypeExpense, productID, qty)
	if err := s.repo.CreateMovements(ctx, []Movement{movement}); err != nil {
		return types.Zero(), fmt.Errorf("journal expense movement: %w", err)
	}

	return remaining, nil
}

// Release restores stock for one returned line and journals the receipt
// movement. The product is reactivated if it was auto-archived.
func (s *Service) Release(ctx context.Context, branchID, recorderID id.ID, recorderType string, productID id.ID, qty types.Quantity) (types.Quantity, error) {
	if !qty.IsPositive() {
		return types.Zero(), apperror.NewValidation("quantity must be positive").
			WithDetail("product_id", productID.String())
	}

	remaining, err := s.repo.Release(ctx, branchID, productID, qty)
	if err != nil {
		return types.Zero(), err
	}

	movement := NewMovement(branchID, recorderID, recorderType, RecordTypeReceipt, productID, qty)
	if err := s.repo.CreateMovements(ctx, []Movement{movement}); err != nil {
		return types.Zero(), fmt.Errorf("journal receipt movement: %w", err)
	}

	logger.Debug(ctx, "stock released",
		"product_id", productID,
		"quantity", qty,
		"remaining", remaining,
	)

	return remaining, nil
}

// GetOnHand returns the current on-hand quantity for a product.
func (s *Service) GetOnHand(ctx context.Context, branchID, productID id.ID) (types.Quantity, error) {
	return s.repo.GetOnHand(ctx, branchID, productID)
}

// GetMovements retrieves the movement journal for a document.
func (s *Service) GetMovements(ctx context.Context, recorderID id.ID) ([]Movement, error) {
	return s.repo.GetMovementsByRecorder(ctx, recorderID)
}
