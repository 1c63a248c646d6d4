package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/middleware"
	"github.com/emilythestrangee/gamevault/backend/internal/models"
)

func gameRouter(db *gorm.DB) *gin.Engine {
	h := NewGameHandler(db)
	r := gin.New()
	r.GET("/games", h.GetGames)
	r.GET("/games/:id", middleware.OptionalAuth(), h.GetGame)
	return r
}

func TestGetGameSurfacesOwnReviewWhenAuthenticated(t *testing.T) {
	db := setupTestDB(t)
	reviewer := createUser(t, db, "reviewer")
	other := createUser(t, db, "other")
	game := createGame(t, db, "Elden Ring", "RPG", "PS5", 59.99)

	require.NoError(t, db.Create(&models.Review{UserID: reviewer.ID, GameID: game.ID, Rating: 5, Content: "mine"}).Error)
	require.NoError(t, db.Create(&models.Review{UserID: other.ID, GameID: game.ID, Rating: 3, Content: "theirs"}).Error)

	r := gameRouter(db)

	// Anonymous callers get the reviews but no user_review
	w := performJSON(t, r, http.MethodGet, fmt.Sprintf("/games/%d", game.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "user_review")

	// A Bearer token surfaces the caller's own review
	token, err := signToken(reviewer)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/games/%d", game.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "user_review")
	assert.Contains(t, w.Body.String(), "mine")
}

func TestGetGamesPaginatesAvailableTitles(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < gamesPerPage+2; i++ {
		createGame(t, db, fmt.Sprintf("Game %d", i), "Action", "PS5", 9.99)
	}
	delisted := createGame(t, db, "Delisted", "Action", "PS5", 9.99)
	require.NoError(t, db.Model(&models.Game{}).Where("id = ?", delisted.ID).
		UpdateColumn("is_available", false).Error)

	r := gameRouter(db)

	w := performJSON(t, r, http.MethodGet, "/games", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pages":2`)
	assert.NotContains(t, w.Body.String(), "Delisted")

	w = performJSON(t, r, http.MethodGet, "/games?page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"total":%d`, gamesPerPage+2))
}
