package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
	"github.com/emilythestrangee/gamevault/backend/internal/rules"
)

const profileUploadDir = "static/uploads"

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetProfile returns the caller's profile with unread notifications.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var notifications []models.Notification
	h.db.Where("user_id = ? AND is_read = ?", userID, false).Order("created_at desc").Find(&notifications)
	if notifications == nil {
		notifications = []models.Notification{}
	}

	var purchaseCount, reviewCount int64
	h.db.Model(&models.Purchase{}).Where("user_id = ?", userID).Count(&purchaseCount)
	h.db.Model(&models.Review{}).Where("user_id = ?", userID).Count(&reviewCount)

	c.JSON(http.StatusOK, gin.H{
		"user":           user,
		"notifications":  notifications,
		"purchase_count": purchaseCount,
		"review_count":   reviewCount,
	})
}

// UpdateProfile edits the caller's bio and profile picture. Pictures are
// saved under a user-and-timestamp keyed filename.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if bio, ok := c.GetPostForm("bio"); ok {
		user.Bio = bio
	}

	if file, err := c.FormFile("profile_picture"); err == nil {
		filename := fmt.Sprintf("user_%d_%d_%s", userID, time.Now().Unix(), filepath.Base(file.Filename))
		dst := filepath.Join(profileUploadDir, filename)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save picture"})
			return
		}
		user.ProfilePicture = filename
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}

// Leaderboard returns the top 20 users by popularity points.
func (h *UserHandler) Leaderboard(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("popularity_points desc").Limit(20).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	var entries []gin.H
	for _, user := range users {
		entries = append(entries, gin.H{
			"id":                user.ID,
			"username":          user.Username,
			"profile_picture":   user.ProfilePicture,
			"popularity_points": user.PopularityPoints,
		})
	}
	if entries == nil {
		entries = []gin.H{}
	}

	c.JSON(http.StatusOK, entries)
}

// Recommendations returns up to six games matched to the caller's
// favorite genre, or the front of the catalog for new users.
func (h *UserHandler) Recommendations(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	games, err := rules.RecommendGames(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build recommendations"})
		return
	}
	if games == nil {
		games = []models.Game{}
	}

	c.JSON(http.StatusOK, games)
}
