package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Game         *GameHandler
	Review       *ReviewHandler
	Cart         *CartHandler
	Lending      *LendingHandler
	Setup        *SetupHandler
	User         *UserHandler
	Notification *NotificationHandler
	Admin        *AdminHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(db),
		Game:         NewGameHandler(db),
		Review:       NewReviewHandler(db),
		Cart:         NewCartHandler(db),
		Lending:      NewLendingHandler(db),
		Setup:        NewSetupHandler(db),
		User:         NewUserHandler(db),
		Notification: NewNotificationHandler(db),
		Admin:        NewAdminHandler(db),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
