package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"readverse/pkg/entitlement"
	"readverse/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRoleResolver struct {
	mock.Mock
}

func (m *MockRoleResolver) ResolveRole(ctx context.Context, userID string) (*entitlement.Entitlement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entitlement.Entitlement), args.Error(1)
}

var _ RoleResolver = (*MockRoleResolver)(nil)

func withUser(userID, claimedRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
			c.Set("claimed_role", claimedRole)
		}
		c.Next()
	}
}

func TestEntitlementMiddleware_UsesStoredRole(t *testing.T) {
	resolver := new(MockRoleResolver)
	resolver.On("ResolveRole", mock.Anything, "user-1").
		Return(&entitlement.Entitlement{UserID: "user-1", Role: entitlement.RoleUser}, nil)

	router := setupTestRouter()
	router.Use(withUser("user-1", "admin"), EntitlementMiddleware(resolver, logger.NewWithWriter(io.Discard)))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": GetEntitlement(c).Role})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
	resolver.AssertExpectations(t)
}

func TestEntitlementMiddleware_ResolverError(t *testing.T) {
	resolver := new(MockRoleResolver)
	resolver.On("ResolveRole", mock.Anything, "user-1").Return(nil, errors.New("db down"))

	router := setupTestRouter()
	router.Use(withUser("user-1", "user"), EntitlementMiddleware(resolver, logger.NewWithWriter(io.Discard)))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		role     entitlement.Role
		expected int
	}{
		{"admin allowed", entitlement.RoleAdmin, http.StatusOK},
		{"user forbidden", entitlement.RoleUser, http.StatusForbidden},
		{"vip forbidden", entitlement.RoleVIP, http.StatusForbidden},
		{"guest forbidden", entitlement.RoleGuest, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.Use(func(c *gin.Context) {
				c.Set(entitlementKey, &entitlement.Entitlement{Role: tt.role})
				c.Next()
			})
			router.GET("/admin", RequireRoles(entitlement.RoleAdmin), func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "ok"})
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/admin", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestGetEntitlement_DefaultsToGuest(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.True(t, GetEntitlement(c).IsGuest())
}

func TestRequireAccount_DeactivatedUserRejected(t *testing.T) {
	// The token is still valid but the account no longer resolves
	resolver := new(MockRoleResolver)
	resolver.On("ResolveRole", mock.Anything, "mallory").
		Return(&entitlement.Entitlement{Role: entitlement.RoleGuest}, nil)

	reached := false
	router := setupTestRouter()
	router.Use(withUser("mallory", "user"), EntitlementMiddleware(resolver, logger.NewWithWriter(io.Discard)), RequireAccount())
	router.GET("/wallet/topups", func(c *gin.Context) {
		reached = true
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/wallet/topups", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
	resolver.AssertExpectations(t)
}

func TestRequireAccount_ActiveUserPasses(t *testing.T) {
	router := setupTestRouter()
	router.Use(func(c *gin.Context) {
		c.Set(entitlementKey, &entitlement.Entitlement{UserID: "alice", Role: entitlement.RoleUser})
		c.Next()
	}, RequireAccount())
	router.GET("/wallet", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetEntitlement(c).UserID})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/wallet", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"alice"`)
}
