package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/middleware"
	"github.com/emilythestrangee/gamevault/backend/internal/models"
	"github.com/emilythestrangee/gamevault/backend/internal/rules"
)

const setupUploadDir = "static/uploads/setups"

type SetupHandler struct {
	db *gorm.DB
}

func NewSetupHandler(db *gorm.DB) *SetupHandler {
	return &SetupHandler{db: db}
}

// GetSetups lists setup posts, newest first. If no post is featured yet,
// the most-liked one gets the slot.
func (h *SetupHandler) GetSetups(c *gin.Context) {
	var featured models.SetupPost
	err := h.db.Where("is_featured = ?", true).Preload("User").First(&featured).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := h.db.Order("likes desc").Preload("User").First(&featured).Error; err == nil {
			h.db.Model(&models.SetupPost{}).Where("id = ?", featured.ID).UpdateColumn("is_featured", true)
			featured.IsFeatured = true
		}
	}

	var setups []models.SetupPost
	if err := h.db.Preload("User").Order("created_at desc").Find(&setups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch setups"})
		return
	}
	if setups == nil {
		setups = []models.SetupPost{}
	}

	response := gin.H{"setups": setups}
	if featured.ID != 0 {
		response["featured"] = featured
	}

	c.JSON(http.StatusOK, response)
}

// CreateSetup posts a new PC setup, saving the uploaded image under a
// user-and-timestamp keyed path.
func (h *SetupHandler) CreateSetup(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	imageURL := "/" + setupUploadDir + "/default_setup.jpg"
	if file, err := c.FormFile("image"); err == nil {
		filename := fmt.Sprintf("setup_%d_%d_%s", userID, time.Now().Unix(), filepath.Base(file.Filename))
		dst := filepath.Join(setupUploadDir, filename)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}
		imageURL = "/" + setupUploadDir + "/" + filename
	}

	setup := models.SetupPost{
		UserID:      userID,
		Title:       title,
		Description: c.PostForm("description"),
		ImageURL:    imageURL,
	}
	if err := h.db.Create(&setup).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create setup"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Setup posted successfully", "setup": setup})
}

// UpdateSetup edits a setup post. Owner or admin only.
func (h *SetupHandler) UpdateSetup(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	setupID := c.Param("id")
	var setup models.SetupPost
	if err := h.db.First(&setup, setupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Setup not found"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if setup.UserID != userID && (user == nil || !user.IsAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own setups"})
		return
	}

	if title := c.PostForm("title"); title != "" {
		setup.Title = title
	}
	if description := c.PostForm("description"); description != "" {
		setup.Description = description
	}
	if file, err := c.FormFile("image"); err == nil {
		filename := fmt.Sprintf("setup_%d_%d_%s", userID, time.Now().Unix(), filepath.Base(file.Filename))
		dst := filepath.Join(setupUploadDir, filename)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}
		setup.ImageURL = "/" + setupUploadDir + "/" + filename
	}

	if err := h.db.Save(&setup).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update setup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Setup updated successfully", "setup": setup})
}

// DeleteSetup removes a setup post and its votes. Owner or admin only.
func (h *SetupHandler) DeleteSetup(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	setupID := c.Param("id")
	var setup models.SetupPost
	if err := h.db.First(&setup, setupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Setup not found"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if setup.UserID != userID && (user == nil || !user.IsAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own setups"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("setup_id = ?", setup.ID).Delete(&models.SetupVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&setup).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete setup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Setup deleted successfully"})
}

// VoteSetup casts a reaction or badge vote on a setup post.
func (h *SetupHandler) VoteSetup(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var input struct {
		SetupID  int    `json:"setup_id" binding:"required"`
		VoteType string `json:"vote_type" binding:"required,oneof=like dislike cleanest rgb budget"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid vote type"})
		return
	}

	outcome, err := rules.VoteSetup(h.db, userID, input.SetupID, input.VoteType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Setup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("Vote %s", outcome)})
}
