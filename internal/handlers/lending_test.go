package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
)

func lendingRouter(db *gorm.DB, userID int) *gin.Engine {
	h := NewLendingHandler(db)
	r := gin.New()
	r.Use(withTestUser(userID))
	r.GET("/lendings", h.GetLendings)
	r.POST("/lendings/:id", h.LendGame)
	r.POST("/lendings/:id/borrow", h.BorrowGame)
	r.POST("/lendings/:id/return", h.ReturnGame)
	r.DELETE("/lendings/:id", h.DeleteLending)
	return r
}

func TestLendGameRequiresOwnership(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "lender")
	game := createGame(t, db, "Bloodborne", "Action", "PS4", 19.99)

	r := lendingRouter(db, user.ID)

	w := performJSON(t, r, http.MethodPost, fmt.Sprintf("/lendings/%d", game.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, db.Create(&models.Purchase{UserID: user.ID, GameID: game.ID, PricePaid: game.Price}).Error)

	w = performJSON(t, r, http.MethodPost, fmt.Sprintf("/lendings/%d", game.ID), nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBorrowGameValidation(t *testing.T) {
	db := setupTestDB(t)
	lender := createUser(t, db, "lender")
	borrower := createUser(t, db, "borrower")
	other := createUser(t, db, "other")

	psGame := createGame(t, db, "Bloodborne", "Action", "PS4", 19.99)
	pcGame := createGame(t, db, "Factorio", "Strategy", "PC", 29.99)

	openLending := models.GameLending{LenderID: lender.ID, GameID: psGame.ID}
	require.NoError(t, db.Create(&openLending).Error)

	pcLending := models.GameLending{LenderID: lender.ID, GameID: pcGame.ID}
	require.NoError(t, db.Create(&pcLending).Error)

	returnDate := time.Now().UTC().Add(7 * 24 * time.Hour)
	takenLending := models.GameLending{LenderID: lender.ID, GameID: psGame.ID, BorrowerID: &other.ID, ReturnDate: &returnDate}
	require.NoError(t, db.Create(&takenLending).Error)

	tests := []struct {
		name     string
		userID   int
		lending  int
		duration int
		want     int
	}{
		{"valid borrow", borrower.ID, openLending.ID, 7, http.StatusOK},
		{"duration too short", borrower.ID, openLending.ID, 0, http.StatusBadRequest},
		{"duration too long", borrower.ID, openLending.ID, 31, http.StatusBadRequest},
		{"self borrow", lender.ID, openLending.ID, 7, http.StatusBadRequest},
		{"already borrowed", borrower.ID, takenLending.ID, 7, http.StatusBadRequest},
		{"non playstation game", borrower.ID, pcLending.ID, 7, http.StatusBadRequest},
		{"unknown record", borrower.ID, 9999, 7, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := lendingRouter(db, tt.userID)
			w := performJSON(t, r, http.MethodPost,
				fmt.Sprintf("/lendings/%d/borrow", tt.lending),
				gin.H{"duration_days": tt.duration})
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestBorrowGameSecondClaimLoses(t *testing.T) {
	db := setupTestDB(t)
	lender := createUser(t, db, "lender")
	first := createUser(t, db, "first")
	second := createUser(t, db, "second")
	game := createGame(t, db, "Bloodborne", "Action", "PS4", 19.99)

	lending := models.GameLending{LenderID: lender.ID, GameID: game.ID}
	require.NoError(t, db.Create(&lending).Error)

	w := performJSON(t, lendingRouter(db, first.ID), http.MethodPost,
		fmt.Sprintf("/lendings/%d/borrow", lending.ID), gin.H{"duration_days": 7})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = performJSON(t, lendingRouter(db, second.ID), http.MethodPost,
		fmt.Sprintf("/lendings/%d/borrow", lending.ID), gin.H{"duration_days": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var fresh models.GameLending
	require.NoError(t, db.First(&fresh, lending.ID).Error)
	require.NotNil(t, fresh.BorrowerID)
	assert.Equal(t, first.ID, *fresh.BorrowerID)

	// Lender was told exactly once
	var notes int64
	db.Model(&models.Notification{}).Where("user_id = ?", lender.ID).Count(&notes)
	assert.EqualValues(t, 1, notes)
}

func TestReturnGameBorrowerOnlyAndTerminal(t *testing.T) {
	db := setupTestDB(t)
	lender := createUser(t, db, "lender")
	borrower := createUser(t, db, "borrower")
	stranger := createUser(t, db, "stranger")
	game := createGame(t, db, "Bloodborne", "Action", "PS4", 19.99)

	returnDate := time.Now().UTC().Add(7 * 24 * time.Hour)
	lending := models.GameLending{LenderID: lender.ID, GameID: game.ID, BorrowerID: &borrower.ID, ReturnDate: &returnDate}
	require.NoError(t, db.Create(&lending).Error)

	w := performJSON(t, lendingRouter(db, stranger.ID), http.MethodPost,
		fmt.Sprintf("/lendings/%d/return", lending.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performJSON(t, lendingRouter(db, borrower.ID), http.MethodPost,
		fmt.Sprintf("/lendings/%d/return", lending.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fresh models.GameLending
	require.NoError(t, db.First(&fresh, lending.ID).Error)
	assert.True(t, fresh.IsReturned)

	// Returning is terminal
	w = performJSON(t, lendingRouter(db, borrower.ID), http.MethodPost,
		fmt.Sprintf("/lendings/%d/return", lending.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteLendingWhileBorrowedFails(t *testing.T) {
	db := setupTestDB(t)
	lender := createUser(t, db, "lender")
	borrower := createUser(t, db, "borrower")
	game := createGame(t, db, "Bloodborne", "Action", "PS4", 19.99)

	returnDate := time.Now().UTC().Add(7 * 24 * time.Hour)
	lending := models.GameLending{LenderID: lender.ID, GameID: game.ID, BorrowerID: &borrower.ID, ReturnDate: &returnDate}
	require.NoError(t, db.Create(&lending).Error)

	w := performJSON(t, lendingRouter(db, lender.ID), http.MethodDelete,
		fmt.Sprintf("/lendings/%d", lending.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// After the return it can go
	require.NoError(t, db.Model(&models.GameLending{}).Where("id = ?", lending.ID).
		UpdateColumn("is_returned", true).Error)

	w = performJSON(t, lendingRouter(db, lender.ID), http.MethodDelete,
		fmt.Sprintf("/lendings/%d", lending.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.GameLending{}).Where("id = ?", lending.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestDeleteLendingLenderOnly(t *testing.T) {
	db := setupTestDB(t)
	lender := createUser(t, db, "lender")
	stranger := createUser(t, db, "stranger")
	game := createGame(t, db, "Bloodborne", "Action", "PS4", 19.99)

	lending := models.GameLending{LenderID: lender.ID, GameID: game.ID}
	require.NoError(t, db.Create(&lending).Error)

	w := performJSON(t, lendingRouter(db, stranger.ID), http.MethodDelete,
		fmt.Sprintf("/lendings/%d", lending.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
