// Package entity provides base types shared by catalogs and documents.
package entity

import (
	"context"
	"time"

	"rxledger/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Base contains common fields for all persisted entities.
type Base struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBase creates a Base with a generated ID and current timestamps.
func NewBase() Base {
	now := time.Now().UTC()
	return Base{
		ID:        id.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// Document extends Base with audit fields for business documents.
// Documents are append-only: once committed they never change except
// for explicitly modeled status transitions.
type Document struct {
	Base

	// Number is the document number, unique within type and period
	Number string `db:"number" json:"number"`

	// CreatedBy is the user who issued the document
	CreatedBy id.ID `db:"created_by" json:"createdBy"`
}

// NewDocument creates a Document with generated ID and timestamps.
func NewDocument(createdBy id.ID) Document {
	return Document{
		Base:      NewBase(),
		CreatedBy: createdBy,
	}
}
