// Package context provides request-scoped values extraction.
package context

import (
	"context"

	"rxledger/internal/core/id"
)

// Roles recognized by the platform. The identity service owns the role
// catalog; the core only distinguishes admins from branch staff.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleCashier = "CASHIER"
)

// Principal contains the authenticated caller as handed over by the
// identity service: who they are, what role they hold, and which
// branches they may act on. The core trusts this tuple.
type Principal struct {
	UserID    id.ID
	Name      string
	Role      string
	BranchIDs []id.ID
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// HasBranch reports whether the principal may act on the given branch.
// Admins may act on any branch.
func (p *Principal) HasBranch(branchID id.ID) bool {
	if p.IsAdmin() {
		return true
	}
	for _, b := range p.BranchIDs {
		if b == branchID {
			return true
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal adds the Principal to context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipal returns the Principal from context, or nil.
func GetPrincipal(ctx context.Context) *Principal {
	if v, ok := ctx.Value(principalKey{}).(*Principal); ok {
		return v
	}
	return nil
}

// GetUserID returns the caller's user ID from context, or the nil ID.
func GetUserID(ctx context.Context) id.ID {
	if p := GetPrincipal(ctx); p != nil {
		return p.UserID
	}
	return id.Nil()
}
