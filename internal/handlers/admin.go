package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
	"github.com/emilythestrangee/gamevault/backend/internal/notify"
)

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// Dashboard returns the catalog and user list for the admin console.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var games []models.Game
	h.db.Order("id").Find(&games)

	var users []models.User
	h.db.Order("id").Find(&users)

	var unreadAlerts int64
	h.db.Model(&models.AdminNotification{}).Where("is_read = ?", false).Count(&unreadAlerts)

	c.JSON(http.StatusOK, gin.H{
		"games":         games,
		"users":         users,
		"unread_alerts": unreadAlerts,
	})
}

type gameInput struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"required"`
	Genre           string  `json:"genre"`
	Platform        string  `json:"platform"`
	ImageURL        string  `json:"image_url"`
	VoicePreviewURL string  `json:"voice_preview_url"`
	IsAvailable     *bool   `json:"is_available"`
}

// AddGame creates a catalog entry and announces it to every user.
func (h *AdminHandler) AddGame(c *gin.Context) {
	var input gameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game := models.Game{
		Title:           input.Title,
		Description:     input.Description,
		Price:           input.Price,
		Genre:           input.Genre,
		Platform:        input.Platform,
		ImageURL:        input.ImageURL,
		VoicePreviewURL: input.VoicePreviewURL,
		IsAvailable:     true,
	}
	if input.IsAvailable != nil {
		game.IsAvailable = *input.IsAvailable
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		return notify.AllUsers(tx,
			"New Game Added!",
			fmt.Sprintf("Check out the new game: %s", game.Title),
			"catalog")
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add game"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Game added successfully and notifications sent", "game": game})
}

// UpdateGame edits a catalog entry. Flipping a game to available
// fulfills (and deletes) pending notify requests.
func (h *AdminHandler) UpdateGame(c *gin.Context) {
	gameID := c.Param("id")
	var game models.Game
	if err := h.db.First(&game, gameID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var input struct {
		Title           *string  `json:"title"`
		Description     *string  `json:"description"`
		Price           *float64 `json:"price"`
		Genre           *string  `json:"genre"`
		Platform        *string  `json:"platform"`
		ImageURL        *string  `json:"image_url"`
		VoicePreviewURL *string  `json:"voice_preview_url"`
		IsAvailable     *bool    `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wasUnavailable := !game.IsAvailable

	if input.Title != nil {
		game.Title = *input.Title
	}
	if input.Description != nil {
		game.Description = *input.Description
	}
	if input.Price != nil {
		game.Price = *input.Price
	}
	if input.Genre != nil {
		game.Genre = *input.Genre
	}
	if input.Platform != nil {
		game.Platform = *input.Platform
	}
	if input.ImageURL != nil {
		game.ImageURL = *input.ImageURL
	}
	if input.VoicePreviewURL != nil {
		game.VoicePreviewURL = *input.VoicePreviewURL
	}
	if input.IsAvailable != nil {
		game.IsAvailable = *input.IsAvailable
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&game).Error; err != nil {
			return err
		}

		if wasUnavailable && game.IsAvailable {
			return fulfillNotifyRequests(tx, &game)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update game"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game updated successfully", "game": game})
}

// fulfillNotifyRequests notifies every user waiting on a game and
// deletes their requests.
func fulfillNotifyRequests(tx *gorm.DB, game *models.Game) error {
	var requests []models.NotifyRequest
	if err := tx.Where("game_id = ?", game.ID).Find(&requests).Error; err != nil {
		return err
	}

	for _, request := range requests {
		if err := notify.User(tx, request.UserID,
			"Game Available",
			fmt.Sprintf("%s is now available in the store!", game.Title),
			"catalog"); err != nil {
			return err
		}
	}

	if len(requests) == 0 {
		return nil
	}
	return tx.Where("game_id = ?", game.ID).Delete(&models.NotifyRequest{}).Error
}

// BanUser bans a user, temporarily when duration_days is given,
// permanently otherwise. Admin accounts can never be banned.
func (h *AdminHandler) BanUser(c *gin.Context) {
	adminID, _ := extractUserID(c)

	var input struct {
		Reason       string `json:"reason" binding:"required"`
		DurationDays *int   `json:"duration_days"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ban reason is required"})
		return
	}
	if input.DurationDays != nil && *input.DurationDays < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ban duration must be at least one day"})
		return
	}

	userID := c.Param("id")
	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.IsAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Admin accounts cannot be banned"})
		return
	}
	if user.IsBanned {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is already banned"})
		return
	}

	now := time.Now().UTC()
	err := h.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"is_banned":         true,
			"banned_at":         now,
			"banned_by":         adminID,
			"ban_reason":        input.Reason,
			"ban_duration_days": input.DurationDays,
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return err
		}

		message := fmt.Sprintf("Your account has been banned permanently. Reason: %s", input.Reason)
		if input.DurationDays != nil {
			message = fmt.Sprintf("Your account has been banned for %d days. Reason: %s", *input.DurationDays, input.Reason)
		}
		return notify.User(tx, user.ID, "Account Banned", message, "ban")
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ban user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s has been banned", user.Username)})
}

// UnbanUser lifts a ban manually.
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	userID := c.Param("id")
	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if !user.IsBanned {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not banned"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		clear := map[string]interface{}{
			"is_banned":         false,
			"banned_at":         nil,
			"banned_by":         nil,
			"ban_reason":        "",
			"ban_duration_days": nil,
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(clear).Error; err != nil {
			return err
		}
		return notify.User(tx, user.ID,
			"Ban Lifted",
			"Your ban has been lifted by an administrator. Welcome back!",
			"unban")
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unban user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s has been unbanned", user.Username)})
}

// GetAdminNotifications lists the moderation queue.
func (h *AdminHandler) GetAdminNotifications(c *gin.Context) {
	var notifications []models.AdminNotification
	if err := h.db.Order("is_read, created_at desc").Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	if notifications == nil {
		notifications = []models.AdminNotification{}
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkAdminNotificationsRead clears the moderation queue's unread flag.
func (h *AdminHandler) MarkAdminNotificationsRead(c *gin.Context) {
	if err := h.db.Model(&models.AdminNotification{}).
		Where("is_read = ?", false).
		UpdateColumn("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
