// Package stock provides the stock register: the only authority allowed
// to mutate product on-hand quantity.
package stock

import (
	"context"
	"time"

	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
)

// RecordType distinguishes stock movement directions.
type RecordType string

const (
	// RecordTypeExpense reduces stock (invoice issue).
	RecordTypeExpense RecordType = "EXPENSE"
	// RecordTypeReceipt increases stock (return, restock).
	RecordTypeReceipt RecordType = "RECEIPT"
)

// Movement is one journal row of the stock register. The recorder is
// the document that caused the movement (invoice or return).
type Movement struct {
	LineID       id.ID          `db:"line_id" json:"lineId"`
	BranchID     id.ID          `db:"branch_id" json:"branchId"`
	RecorderID   id.ID          `db:"recorder_id" json:"recorderId"`
	RecorderType string         `db:"recorder_type" json:"recorderType"`
	RecordType   RecordType     `db:"record_type" json:"recordType"`
	ProductID    id.ID          `db:"product_id" json:"productId"`
	Quantity     types.Quantity `db:"quantity" json:"quantity"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
}

// NewMovement creates a movement row for a document line.
func NewMovement(branchID, recorderID id.ID, recorderType string, recordType RecordType, productID id.ID, qty types.Quantity) Movement {
	return Movement{
		LineID:       id.New(),
		BranchID:     branchID,
		RecorderID:   recorderID,
		RecorderType: recorderType,
		RecordType:   recordType,
		ProductID:    productID,
		Quantity:     qty,
		CreatedAt:    time.Now().UTC(),
	}
}

// Repository defines the stock register's storage operations.
//
// Reserve and Release must be single atomic store operations: a
// separate read followed by a write is a lost-update race between two
// concurrent invoices selling the last unit of the same product.
type Repository interface {
	// Reserve atomically checks available quantity and decrements it in
	// the same step. Returns the post-decrement quantity. Fails with
	// apperror.CodeInsufficientStock (naming the product and its
	// available quantity) without any change when stock is short, and
	// with apperror.CodeNotFound when the product does not exist.
	//
	// When the post-decrement quantity reaches zero the product is
	// auto-archived (is_active cleared).
	Reserve(ctx context.Context, branchID, productID id.ID, qty types.Quantity) (types.Quantity, error)

	// Release atomically increments quantity by qty and reactivates the
	// product. Returns the post-increment quantity. Never fails on
	// quantity grounds.
	Release(ctx context.Context, branchID, productID id.ID, qty types.Quantity) (types.Quantity, error)

	// CreateMovements batch inserts journal rows (within the caller's
	// transaction).
	CreateMovements(ctx context.Context, movements []Movement) error

	// GetOnHand returns the current on-hand quantity.
	GetOnHand(ctx context.Context, branchID, productID id.ID) (types.Quantity, error)

	// GetMovementsByRecorder retrieves all movements for a document.
	GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]Movement, error)
}
