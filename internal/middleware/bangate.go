package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
	"github.com/emilythestrangee/gamevault/backend/internal/rules"
)

// Routes a banned user may still reach: leaving, reading the ban notice,
// and clearing notifications.
var banExemptPaths = []string{
	"/api/logout",
	"/api/ban-notice",
	"/api/notifications",
}

func banExempt(path string) bool {
	for _, p := range banExemptPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// BanGate runs the temporary-ban expiry and the overdue lending sweep
// on every authenticated request, then blocks banned users from
// everything but the exempt routes.
func BanGate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt("user_id")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		now := time.Now().UTC()
		if _, err := rules.ReconcileBanState(db, &user, now); err != nil {
			log.Printf("ban reconcile failed for user %d: %v", user.ID, err)
		}
		if _, err := rules.SweepOverdueLendings(db, now); err != nil {
			log.Printf("overdue sweep failed: %v", err)
		}

		if user.IsBanned && !banExempt(c.FullPath()) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":             "Your account is banned",
				"ban_reason":        user.BanReason,
				"banned_at":         user.BannedAt,
				"ban_duration_days": user.BanDurationDays,
			})
			c.Abort()
			return
		}

		c.Set("current_user", &user)
		c.Next()
	}
}

// CurrentUser returns the user loaded by BanGate.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	raw, exists := c.Get("current_user")
	if !exists {
		return nil, false
	}
	user, ok := raw.(*models.User)
	return user, ok
}

// RequireAdmin rejects non-admin callers. Must run after BanGate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireConsumer keeps admin accounts out of storefront actions like
// buying, borrowing and redeeming.
func RequireConsumer() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}
		if user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin accounts cannot perform consumer actions"})
			c.Abort()
			return
		}
		c.Next()
	}
}
