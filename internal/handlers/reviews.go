package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
	"github.com/emilythestrangee/gamevault/backend/internal/notify"
	"github.com/emilythestrangee/gamevault/backend/internal/rules"
)

type ReviewHandler struct {
	db *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

// ReviewGame creates or updates the caller's review of a game. Only the
// first review of a game earns popularity points.
func (h *ReviewHandler) ReviewGame(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be 1-5 and content is required"})
		return
	}

	gameID := c.Param("id")
	var game models.Game
	if err := h.db.First(&game, gameID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var review models.Review
	err := h.db.Where("user_id = ? AND game_id = ?", userID, game.ID).First(&review).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = h.db.Transaction(func(tx *gorm.DB) error {
			review = models.Review{
				UserID:  userID,
				GameID:  game.ID,
				Rating:  input.Rating,
				Content: input.Content,
			}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
			return tx.Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn("popularity_points", gorm.Expr("popularity_points + ?", rules.FirstReviewPoints)).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Review submitted successfully", "review": review})

	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})

	default:
		review.Rating = input.Rating
		review.Content = input.Content
		if err := h.db.Save(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review updated successfully", "review": review})
	}
}

// VoteReview casts a like or dislike on a review.
func (h *ReviewHandler) VoteReview(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var input struct {
		ReviewID int    `json:"review_id" binding:"required"`
		VoteType string `json:"vote_type" binding:"required,oneof=like dislike"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Vote type must be like or dislike"})
		return
	}

	outcome, err := rules.VoteReview(h.db, userID, input.ReviewID, input.VoteType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("Vote %s", outcome)})
}

// CommentReview adds a comment under a review and notifies its author.
func (h *ReviewHandler) CommentReview(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		ReviewID int    `json:"review_id" binding:"required"`
		Content  string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var review models.Review
	if err := h.db.First(&review, input.ReviewID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var commenter models.User
	if err := h.db.First(&commenter, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		comment := models.ReviewComment{
			UserID:   userID,
			ReviewID: review.ID,
			Content:  input.Content,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		if review.UserID != userID {
			return notify.User(tx, review.UserID,
				"New Comment",
				fmt.Sprintf("%s commented on your review", commenter.Username),
				"review")
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Comment added"})
}

// GetReviewComments lists the comments under a review.
func (h *ReviewHandler) GetReviewComments(c *gin.Context) {
	reviewID := c.Param("id")

	var comments []models.ReviewComment
	if err := h.db.Where("review_id = ?", reviewID).Preload("User").Order("created_at").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	if comments == nil {
		comments = []models.ReviewComment{}
	}

	c.JSON(http.StatusOK, comments)
}
