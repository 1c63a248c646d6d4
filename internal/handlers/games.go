package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
)

const gamesPerPage = 12

type GameHandler struct {
	db *gorm.DB
}

func NewGameHandler(db *gorm.DB) *GameHandler {
	return &GameHandler{db: db}
}

// GetGames lists available games, 12 per page.
func (h *GameHandler) GetGames(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	var total int64
	h.db.Model(&models.Game{}).Where("is_available = ?", true).Count(&total)

	var games []models.Game
	if err := h.db.Where("is_available = ?", true).
		Order("id").
		Offset((page - 1) * gamesPerPage).
		Limit(gamesPerPage).
		Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch games"})
		return
	}

	if games == nil {
		games = []models.Game{}
	}

	c.JSON(http.StatusOK, gin.H{
		"games": games,
		"page":  page,
		"pages": (total + gamesPerPage - 1) / gamesPerPage,
		"total": total,
	})
}

// GetGame returns a game with its reviews; when the caller is
// authenticated, their own review is surfaced separately.
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID := c.Param("id")

	var game models.Game
	if err := h.db.First(&game, gameID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	var reviews []models.Review
	h.db.Where("game_id = ?", game.ID).Preload("User").Order("created_at desc").Find(&reviews)
	if reviews == nil {
		reviews = []models.Review{}
	}

	response := gin.H{
		"game":    game,
		"reviews": reviews,
	}

	if userID, ok := extractUserID(c); ok {
		var userReview models.Review
		if err := h.db.Where("user_id = ? AND game_id = ?", userID, game.ID).First(&userReview).Error; err == nil {
			response["user_review"] = userReview
		}
	}

	c.JSON(http.StatusOK, response)
}

// RequestNotify registers the caller for a heads-up when an unavailable
// game comes back in stock.
func (h *GameHandler) RequestNotify(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	gameID := c.Param("id")
	var game models.Game
	if err := h.db.First(&game, gameID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	if game.IsAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Game is already available"})
		return
	}

	var existing models.NotifyRequest
	if err := h.db.Where("user_id = ? AND game_id = ?", userID, game.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You will already be notified for this game"})
		return
	}

	request := models.NotifyRequest{UserID: userID, GameID: game.ID}
	if err := h.db.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "We'll notify you when this game is available"})
}
