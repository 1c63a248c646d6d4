package rules

import (
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
)

const recommendationLimit = 6

// RecommendGames picks the user's most frequent genre across purchases
// and highly rated reviews (ties broken by whichever genre showed up
// first) and returns up to six available titles of that genre. Users
// with no history get the first six available games in catalog order.
func RecommendGames(db *gorm.DB, userID int) ([]models.Game, error) {
	var purchaseGenres []string
	err := db.Model(&models.Purchase{}).
		Joins("JOIN games ON games.id = purchases.game_id").
		Where("purchases.user_id = ? AND games.genre <> ''", userID).
		Pluck("games.genre", &purchaseGenres).Error
	if err != nil {
		return nil, err
	}

	var ratedGenres []string
	err = db.Model(&models.Review{}).
		Joins("JOIN games ON games.id = reviews.game_id").
		Where("reviews.user_id = ? AND reviews.rating >= ? AND games.genre <> ''", userID, 4).
		Pluck("games.genre", &ratedGenres).Error
	if err != nil {
		return nil, err
	}

	genres := append(purchaseGenres, ratedGenres...)

	var games []models.Game
	if len(genres) == 0 {
		err = db.Where("is_available = ?", true).
			Order("id").Limit(recommendationLimit).Find(&games).Error
		return games, err
	}

	counts := make(map[string]int, len(genres))
	top := genres[0]
	for _, g := range genres {
		counts[g]++
		if counts[g] > counts[top] {
			top = g
		}
	}

	err = db.Where("genre = ? AND is_available = ?", top, true).
		Order("id").Limit(recommendationLimit).Find(&games).Error
	return games, err
}
