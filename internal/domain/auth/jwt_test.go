package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxledger/internal/core/apperror"
	appctx "rxledger/internal/core/context"
	"rxledger/internal/core/id"
)

func TestTokenValidator_RoundTrip(t *testing.T) {
	v := NewTokenValidator("test-secret", "rxledger")

	branchID := id.New()
	principal := &appctx.Principal{
		UserID:    id.New(),
		Name:      "Test Cashier",
		Role:      appctx.RoleCashier,
		BranchIDs: []id.ID{branchID},
	}

	tokenString, err := v.Issue(principal, time.Hour)
	require.NoError(t, err)

	got, err := v.ValidateToken(tokenString)
	require.NoError(t, err)

	assert.Equal(t, principal.UserID, got.UserID)
	assert.Equal(t, principal.Name, got.Name)
	assert.Equal(t, appctx.RoleCashier, got.Role)
	require.Len(t, got.BranchIDs, 1)
	assert.Equal(t, branchID, got.BranchIDs[0])
	assert.True(t, got.HasBranch(branchID))
	assert.False(t, got.HasBranch(id.New()))
}

func TestTokenValidator_WrongSecret(t *testing.T) {
	issuer := NewTokenValidator("secret-a", "rxledger")
	validator := NewTokenValidator("secret-b", "rxledger")

	tokenString, err := issuer.Issue(&appctx.Principal{
		UserID: id.New(),
		Role:   appctx.RoleAdmin,
	}, time.Hour)
	require.NoError(t, err)

	_, err = validator.ValidateToken(tokenString)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestTokenValidator_Expired(t *testing.T) {
	v := NewTokenValidator("test-secret", "rxledger")

	tokenString, err := v.Issue(&appctx.Principal{
		UserID: id.New(),
		Role:   appctx.RoleManager,
	}, -time.Minute)
	require.NoError(t, err)

	_, err = v.ValidateToken(tokenString)
	require.Error(t, err)
}

func TestTokenValidator_WrongIssuer(t *testing.T) {
	other := NewTokenValidator("test-secret", "someone-else")
	v := NewTokenValidator("test-secret", "rxledger")

	tokenString, err := other.Issue(&appctx.Principal{
		UserID: id.New(),
		Role:   appctx.RoleAdmin,
	}, time.Hour)
	require.NoError(t, err)

	_, err = v.ValidateToken(tokenString)
	require.Error(t, err)
}

func TestTokenValidator_Garbage(t *testing.T) {
	v := NewTokenValidator("test-secret", "rxledger")

	_, err := v.ValidateToken("not.a.token")
	require.Error(t, err)
}
