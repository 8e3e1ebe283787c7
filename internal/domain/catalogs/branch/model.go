// Package branch provides the Branch catalog (pharmacy location).
// A branch is the unit of data isolation for products, invoices and stock.
package branch

import (
	"context"

	"rxledger/internal/core/apperror"
	"rxledger/internal/core/entity"
)

// Branch represents a pharmacy location.
type Branch struct {
	entity.Base

	Name  string `db:"name" json:"name"`
	Code  string `db:"code" json:"code"`
	GSTIN string `db:"gstin" json:"gstin,omitempty"`

	// State is the branch's tax jurisdiction state code (e.g. "KA").
	// Kept informational: the invoice inter-state flag is supplied by
	// the caller, not derived from state codes.
	State string `db:"state" json:"state,omitempty"`

	Address  string `db:"address" json:"address,omitempty"`
	Phone    string `db:"phone" json:"phone,omitempty"`
	IsActive bool   `db:"is_active" json:"isActive"`
}

// New creates a new active branch.
func New(name, code string) *Branch {
	return &Branch{
		Base:     entity.NewBase(),
		Name:     name,
		Code:     code,
		IsActive: true,
	}
}

// Validate implements entity.Validatable.
func (b *Branch) Validate(ctx context.Context) error {
	if b.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if b.Code == "" {
		return apperror.NewValidation("code is required").
			WithDetail("field", "code")
	}
	return nil
}

var _ entity.Validatable = (*Branch)(nil)
