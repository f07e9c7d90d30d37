package middleware

import (
	"net/http"
	"strings"

	"reviewhub/internal/api/authz"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

const userContextKey = "user"

// Authenticate checks for a valid bearer token in the Authorization
// header and loads the acting user into the request context. Loading
// from the store (rather than trusting claims) makes role changes take
// effect immediately.
func Authenticate(authService service.AuthService, userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveUser(c, authService, userService)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// AuthenticateOptional loads the acting user when a valid token is
// present and lets anonymous requests through. Handlers behind it must
// gate mutations themselves.
func AuthenticateOptional(authService service.AuthService, userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := resolveUser(c, authService, userService); ok {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

func resolveUser(c *gin.Context, authService service.AuthService, userService service.UserService) (*models.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Expected format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}

	user, err := userService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, false
	}
	return user, true
}

// CurrentUser returns the authenticated user set by the middleware, or
// nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// RequireAdmin rejects requests whose acting user lacks admin-level
// authorization (admin role or staff flag).
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if !authz.IsAdmin(user.Role, user.IsStaff) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
