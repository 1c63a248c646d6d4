package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
	"github.com/emilythestrangee/gamevault/backend/internal/notify"
	"github.com/emilythestrangee/gamevault/backend/internal/rules"
)

type LendingHandler struct {
	db *gorm.DB
}

func NewLendingHandler(db *gorm.DB) *LendingHandler {
	return &LendingHandler{db: db}
}

// GetLendings returns the open lending board plus the caller's own
// records on both sides.
func (h *LendingHandler) GetLendings(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var open []models.GameLending
	h.db.Where("borrower_id IS NULL").Preload("Game").Preload("Lender").Find(&open)

	var lent []models.GameLending
	h.db.Where("lender_id = ?", userID).Preload("Game").Preload("Borrower").Find(&lent)

	var borrowed []models.GameLending
	h.db.Where("borrower_id = ? AND is_returned = ?", userID, false).Preload("Game").Preload("Lender").Find(&borrowed)

	if open == nil {
		open = []models.GameLending{}
	}
	if lent == nil {
		lent = []models.GameLending{}
	}
	if borrowed == nil {
		borrowed = []models.GameLending{}
	}

	c.JSON(http.StatusOK, gin.H{
		"open":     open,
		"lent":     lent,
		"borrowed": borrowed,
	})
}

// LendGame opens a lending record for a game the caller owns.
func (h *LendingHandler) LendGame(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	gameID := c.Param("id")
	var purchase models.Purchase
	if err := h.db.Where("user_id = ? AND game_id = ?", userID, gameID).First(&purchase).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You do not own this game"})
		return
	}

	lending := models.GameLending{LenderID: userID, GameID: purchase.GameID}
	if err := h.db.Create(&lending).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lending"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Game is now available for lending", "lending": lending})
}

// BorrowGame claims an open lending record for 1-30 days. The claim is a
// conditional update on borrower_id so two concurrent borrows cannot
// both win.
func (h *LendingHandler) BorrowGame(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		DurationDays int `json:"duration_days" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Borrow duration is required"})
		return
	}

	if !rules.ValidLendDuration(input.DurationDays) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Borrow duration must be between %d and %d days", rules.MinLendDays, rules.MaxLendDays)})
		return
	}

	lendingID := c.Param("id")
	var lending models.GameLending
	if err := h.db.Preload("Game").First(&lending, lendingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lending record not found"})
		return
	}

	if lending.LenderID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot borrow your own game"})
		return
	}
	if lending.BorrowerID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Game is already borrowed"})
		return
	}
	if !rules.PlatformLendable(lending.Game.Platform) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PlayStation games can be lent"})
		return
	}

	now := time.Now().UTC()
	returnDate := now.Add(time.Duration(input.DurationDays) * 24 * time.Hour)

	res := h.db.Model(&models.GameLending{}).
		Where("id = ? AND borrower_id IS NULL", lending.ID).
		Updates(map[string]interface{}{"borrower_id": userID, "return_date": returnDate})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to borrow game"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Game is already borrowed"})
		return
	}

	var borrower models.User
	h.db.First(&borrower, userID)
	if err := notify.User(h.db, lending.LenderID,
		"Game Borrowed",
		fmt.Sprintf("%s borrowed %s, due back %s", borrower.Username, lending.Game.Title, returnDate.Format("Jan 2, 2006")),
		"lending"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to borrow game"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game borrowed successfully", "return_date": returnDate})
}

// ReturnGame marks a borrowed record returned. Borrower only; terminal.
func (h *LendingHandler) ReturnGame(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	lendingID := c.Param("id")
	var lending models.GameLending
	if err := h.db.Preload("Game").First(&lending, lendingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lending record not found"})
		return
	}

	if lending.BorrowerID == nil || *lending.BorrowerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the borrower can return this game"})
		return
	}
	if lending.IsReturned {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Game has already been returned"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GameLending{}).Where("id = ?", lending.ID).
			UpdateColumn("is_returned", true).Error; err != nil {
			return err
		}

		var borrower models.User
		if err := tx.First(&borrower, userID).Error; err != nil {
			return err
		}
		return notify.User(tx, lending.LenderID,
			"Game Returned",
			fmt.Sprintf("%s returned %s", borrower.Username, lending.Game.Title),
			"lending")
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to return game"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game returned. Thanks!"})
}

// DeleteLending removes an open record. Rejected once a borrower holds
// the game.
func (h *LendingHandler) DeleteLending(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	lendingID := c.Param("id")
	var lending models.GameLending
	if err := h.db.First(&lending, lendingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lending record not found"})
		return
	}

	if lending.LenderID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own lendings"})
		return
	}
	if lending.BorrowerID != nil && !lending.IsReturned {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete a lending while the game is borrowed"})
		return
	}

	if err := h.db.Delete(&lending).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete lending"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lending removed"})
}
