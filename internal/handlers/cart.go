package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
	"github.com/emilythestrangee/gamevault/backend/internal/rules"
)

type CartHandler struct {
	db *gorm.DB
}

func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{db: db}
}

// AddToCart puts a game in the caller's cart. Owned games and duplicate
// cart entries are rejected.
func (h *CartHandler) AddToCart(c *gin.Context) {
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

	if !game.IsAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Game is not available"})
		return
	}

	var owned models.Purchase
	if err := h.db.Where("user_id = ? AND game_id = ?", userID, game.ID).First(&owned).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You already own this game"})
		return
	}

	var existing models.Cart
	if err := h.db.Where("user_id = ? AND game_id = ?", userID, game.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Game is already in your cart"})
		return
	}

	item := models.Cart{UserID: userID, GameID: game.ID, Quantity: 1}
	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game added to cart"})
}

// GetCart returns the caller's cart with its subtotal.
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var items []models.Cart
	if err := h.db.Where("user_id = ?", userID).Preload("Game").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	if items == nil {
		items = []models.Cart{}
	}

	var total float64
	for _, item := range items {
		total += item.Game.Price * float64(item.Quantity)
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// RemoveFromCart drops one entry from the caller's cart.
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	gameID := c.Param("id")
	res := h.db.Where("user_id = ? AND game_id = ?", userID, gameID).Delete(&models.Cart{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from cart"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game is not in your cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game removed from cart"})
}

// Checkout converts every cart row into a purchase in one transaction,
// applying an optional voucher to the subtotal (floored at zero), and
// empties the cart.
func (h *CartHandler) Checkout(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		VoucherID *int `json:"voucher_id"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var subtotal, discount, total float64
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var items []models.Cart
		if err := tx.Where("user_id = ?", userID).Preload("Game").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return errEmptyCart
		}

		for _, item := range items {
			subtotal += item.Game.Price * float64(item.Quantity)
			purchase := models.Purchase{
				UserID:    userID,
				GameID:    item.GameID,
				PricePaid: item.Game.Price,
			}
			if err := tx.Create(&purchase).Error; err != nil {
				return err
			}
		}

		if input.VoucherID != nil {
			amount, err := rules.ApplyVoucher(tx, userID, *input.VoucherID, time.Now().UTC())
			if err != nil {
				return err
			}
			discount = amount
		}

		total = subtotal - discount
		if total < 0 {
			total = 0
		}

		return tx.Where("user_id = ?", userID).Delete(&models.Cart{}).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		case errors.Is(err, rules.ErrVoucherNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
		case errors.Is(err, rules.ErrVoucherUsed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Voucher has already been used"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Purchase successful!",
		"subtotal": subtotal,
		"discount": discount,
		"total":    total,
	})
}

var errEmptyCart = errors.New("cart is empty")

// GetPurchases lists the caller's library.
func (h *CartHandler) GetPurchases(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var purchases []models.Purchase
	if err := h.db.Where("user_id = ?", userID).Preload("Game").Order("purchase_date desc").Find(&purchases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
		return
	}
	if purchases == nil {
		purchases = []models.Purchase{}
	}

	c.JSON(http.StatusOK, purchases)
}

// GetVouchers lists the caller's vouchers alongside the redeemable tiers.
func (h *CartHandler) GetVouchers(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var vouchers []models.Voucher
	if err := h.db.Where("user_id = ?", userID).Order("created_at desc").Find(&vouchers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vouchers"})
		return
	}
	if vouchers == nil {
		vouchers = []models.Voucher{}
	}

	c.JSON(http.StatusOK, gin.H{"vouchers": vouchers, "tiers": rules.VoucherTiers})
}

// RedeemVoucher spends popularity points on a voucher tier.
func (h *CartHandler) RedeemVoucher(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var input struct {
		Points int `json:"points" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Points tier is required"})
		return
	}

	voucher, err := rules.RedeemVoucher(h.db, userID, input.Points)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrUnknownTier):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown voucher tier"})
		case errors.Is(err, rules.ErrInsufficientPoints):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Not enough popularity points"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to redeem voucher"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Voucher %s redeemed for $%.2f", voucher.Code, voucher.Amount),
		"voucher": voucher,
	})
}
