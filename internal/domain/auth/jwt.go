// Package auth validates tokens issued by the identity service.
//
// The core does not own users or roles: it trusts the signed
// (userId, role, branchIds) tuple carried by the token.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rxledger/internal/core/apperror"
	appctx "rxledger/internal/core/context"
	"rxledger/internal/core/id"
)

// Claims is the token payload handed over by the identity service.
type Claims struct {
	jwt.RegisteredClaims

	Name      string   `json:"name,omitempty"`
	Role      string   `json:"role"`
	BranchIDs []string `json:"branches,omitempty"`
}

// TokenValidator validates HMAC-signed identity tokens.
type TokenValidator struct {
	secret []byte
	issuer string
}

// NewTokenValidator creates a validator for tokens signed with secret.
func NewTokenValidator(secret, issuer string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret), issuer: issuer}
}

// ValidateToken parses and verifies a token, returning the principal.
func (v *TokenValidator) ValidateToken(tokenString string) (*appctx.Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid token").WithCause(err)
	}
	if !token.Valid {
		return nil, apperror.NewUnauthorized("invalid token")
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, apperror.NewUnauthorized("invalid token issuer")
	}

	userID, err := id.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid token subject")
	}

	branchIDs := make([]id.ID, 0, len(claims.BranchIDs))
	for _, raw := range claims.BranchIDs {
		branchID, err := id.Parse(raw)
		if err != nil {
			return nil, apperror.NewUnauthorized("invalid branch claim")
		}
		branchIDs = append(branchIDs, branchID)
	}

	return &appctx.Principal{
		UserID:    userID,
		Name:      claims.Name,
		Role:      claims.Role,
		BranchIDs: branchIDs,
	}, nil
}

// Issue signs a token for a principal. Used by seeding and tests; in
// production tokens come from the identity service.
func (v *TokenValidator) Issue(p *appctx.Principal, ttl time.Duration) (string, error) {
	branchIDs := make([]string, 0, len(p.BranchIDs))
	for _, branchID := range p.BranchIDs {
		branchIDs = append(branchIDs, branchID.String())
	}

	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:      p.Name,
		Role:      p.Role,
		BranchIDs: branchIDs,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
