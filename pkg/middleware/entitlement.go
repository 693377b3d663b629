package middleware

import (
	"context"
	"net/http"

	"readverse/pkg/entitlement"
	"readverse/pkg/logger"

	"github.com/gin-gonic/gin"
)

const entitlementKey = "entitlement"

type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) (*entitlement.Entitlement, error)
}

// EntitlementMiddleware resolves the caller's role from storage on every
// request. It must run after one of the auth middlewares.
func EntitlementMiddleware(resolver RoleResolver, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		ent, err := resolver.ResolveRole(c.Request.Context(), userID)
		if err != nil {
			log.Error("Failed to resolve role for user %s: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve entitlement"})
			c.Abort()
			return
		}

		if claimed := c.GetString("claimed_role"); claimed != "" && claimed != string(ent.Role) {
			log.With("user_id", userID).Info("Token role %s is stale, using %s", claimed, ent.Role)
		}

		c.Set(entitlementKey, ent)
		c.Next()
	}
}

// GetEntitlement returns the entitlement stored by EntitlementMiddleware, or a
// guest entitlement when none was resolved.
func GetEntitlement(c *gin.Context) *entitlement.Entitlement {
	if v, ok := c.Get(entitlementKey); ok {
		if ent, ok := v.(*entitlement.Entitlement); ok {
			return ent
		}
	}
	return &entitlement.Entitlement{Role: entitlement.RoleGuest}
}

// RequireAccount rejects callers without a live account, including valid
// tokens whose user was since deactivated or deleted.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		ent := GetEntitlement(c)
		if ent.IsGuest() || ent.UserID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is inactive or does not exist"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireRoles(roles ...entitlement.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ent := GetEntitlement(c)
		for _, role := range roles {
			if ent.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}
