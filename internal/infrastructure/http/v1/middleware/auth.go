package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"rxledger/internal/core/apperror"
	appctx "rxledger/internal/core/context"
	"rxledger/internal/core/id"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.Principal, error)
}

// Auth middleware validates JWT tokens and populates the principal.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		principal, err := validator.ValidateToken(parts[1])
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := appctx.WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", principal.UserID.String())

		c.Next()
	}
}

// BranchAccess middleware parses the :branchId path parameter and
// rejects callers whose token does not grant that branch. Admins pass.
// The parsed branch ID is stored in the gin context for handlers.
func BranchAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("branchId")
		branchID, err := id.Parse(raw)
		if err != nil {
			_ = c.Error(apperror.NewValidation("invalid branch id").
				WithDetail("branchId", raw))
			c.Abort()
			return
		}

		principal := appctx.GetPrincipal(c.Request.Context())
		if principal == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		if !principal.HasBranch(branchID) {
			_ = c.Error(
				apperror.NewForbidden("branch access denied").
					WithDetail("branchId", branchID.String()),
			)
			c.Abort()
			return
		}

		c.Set("branch_id", branchID)
		c.Next()
	}
}

// RequireRole middleware checks if the caller holds one of the roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := appctx.GetPrincipal(c.Request.Context())
		if principal == nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		for _, required := range roles {
			if principal.Role == required {
				c.Next()
				return
			}
		}
		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
