package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aethermere/campaign/server/cache"
	"github.com/aethermere/campaign/server/config"
	"github.com/aethermere/campaign/server/model"
	"github.com/aethermere/campaign/server/policy"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const CurrentUserKey = "current_user"

// Auth validates the Bearer JWT, checks the session cache, and loads the
// authenticated user row into the request context. Loading the row on
// every request makes role changes and deletions effective immediately.
func Auth(sec config.SecurityConfig, c cache.Cache, db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := ParseToken(tokenStr, sec.JWTSecret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// Check session still valid in cache.
		sessionKey := "session:" + tokenStr
		cacheCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		exists, err := c.Exists(cacheCtx, sessionKey)
		if err != nil || !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		var user model.User
		if err := db.Where("id = ? AND deleted_at IS NULL", claims.UserID).
			First(&user).Error; err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
			return
		}

		ctx.Set(CurrentUserKey, &user)
		ctx.Next()
	}
}

// CurrentUser retrieves the authenticated user from the Gin context.
// Returns nil outside an Auth-protected route.
func CurrentUser(c *gin.Context) *model.User {
	if v, exists := c.Get(CurrentUserKey); exists {
		return v.(*model.User)
	}
	return nil
}

// RequireAdmin aborts with 403 unless the authenticated user may manage
// accounts. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !policy.CanManageUsers(u) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}
