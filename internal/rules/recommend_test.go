package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
)

func TestRecommendGamesFallbackForNewUsers(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "newbie")

	for i := 0; i < 8; i++ {
		createGame(t, db, "Game", "Action", "PS5", 9.99)
	}
	unavailable := createGame(t, db, "Delisted", "Action", "PS5", 9.99)
	require.NoError(t, db.Model(&models.Game{}).Where("id = ?", unavailable.ID).
		UpdateColumn("is_available", false).Error)

	games, err := RecommendGames(db, user.ID)
	require.NoError(t, err)
	require.Len(t, games, 6)

	// Catalog order, available only
	for i := 1; i < len(games); i++ {
		assert.Greater(t, games[i].ID, games[i-1].ID)
	}
	for _, game := range games {
		assert.True(t, game.IsAvailable)
	}
}

func TestRecommendGamesPicksModeGenre(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "rpgfan")

	rpg1 := createGame(t, db, "Elden Ring", "RPG", "PS5", 59.99)
	rpg2 := createGame(t, db, "Persona 5", "RPG", "PS4", 29.99)
	racing := createGame(t, db, "Gran Turismo 7", "Racing", "PS5", 59.99)
	rpg3 := createGame(t, db, "Final Fantasy XVI", "RPG", "PS5", 69.99)

	require.NoError(t, db.Create(&models.Purchase{UserID: user.ID, GameID: rpg1.ID, PricePaid: rpg1.Price}).Error)
	require.NoError(t, db.Create(&models.Purchase{UserID: user.ID, GameID: rpg2.ID, PricePaid: rpg2.Price}).Error)
	require.NoError(t, db.Create(&models.Purchase{UserID: user.ID, GameID: racing.ID, PricePaid: racing.Price}).Error)

	// A highly rated RPG review tips the scale further
	require.NoError(t, db.Create(&models.Review{UserID: user.ID, GameID: rpg1.ID, Rating: 5, Content: "great"}).Error)

	games, err := RecommendGames(db, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, games)
	for _, game := range games {
		assert.Equal(t, "RPG", game.Genre)
	}

	ids := make([]int, 0, len(games))
	for _, game := range games {
		ids = append(ids, game.ID)
	}
	assert.Contains(t, ids, rpg3.ID)
}

func TestRecommendGamesIgnoresLowRatings(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "critic")

	action := createGame(t, db, "God of War", "Action", "PS5", 49.99)
	racing := createGame(t, db, "Gran Turismo 7", "Racing", "PS5", 59.99)
	createGame(t, db, "Wipeout", "Racing", "PS4", 19.99)

	require.NoError(t, db.Create(&models.Purchase{UserID: user.ID, GameID: racing.ID, PricePaid: racing.Price}).Error)
	// Rated below 4: the Action genre must not count
	require.NoError(t, db.Create(&models.Review{UserID: user.ID, GameID: action.ID, Rating: 2, Content: "meh"}).Error)

	games, err := RecommendGames(db, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, games)
	for _, game := range games {
		assert.Equal(t, "Racing", game.Genre)
	}
}
