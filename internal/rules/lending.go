package rules

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
	"github.com/emilythestrangee/gamevault/backend/internal/notify"
)

// Borrow duration bounds, in days.
const (
	MinLendDays = 1
	MaxLendDays = 30
)

var lendablePlatforms = []string{"PS3", "PS4", "PS5"}

// PlatformLendable reports whether a game's comma-separated platform
// tags intersect the consoles that support disc sharing.
func PlatformLendable(platform string) bool {
	for _, tag := range strings.Split(platform, ",") {
		tag = strings.ToUpper(strings.TrimSpace(tag))
		for _, p := range lendablePlatforms {
			if tag == p {
				return true
			}
		}
	}
	return false
}

// ValidLendDuration reports whether a requested borrow window is allowed.
func ValidLendDuration(days int) bool {
	return days >= MinLendDays && days <= MaxLendDays
}

// SweepOverdueLendings flags borrowed records past their return date,
// sending one borrower notification and one admin alert per record.
// Returns the number of newly flagged records.
func SweepOverdueLendings(db *gorm.DB, now time.Time) (int, error) {
	var due []models.GameLending
	err := db.Preload("Game").Preload("Borrower").
		Where("borrower_id IS NOT NULL AND is_returned = ? AND return_date < ?", false, now).
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	flagged := 0
	for i := range due {
		lending := &due[i]
		if lending.IsOverdue && lending.OverdueNotificationSent {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{"is_overdue": true}
			if !lending.OverdueNotificationSent {
				updates["overdue_notification_sent"] = true

				if err := notify.User(tx, *lending.BorrowerID,
					"Game Overdue",
					fmt.Sprintf("Your borrowed copy of %s was due back on %s. Please return it.",
						lending.Game.Title, lending.ReturnDate.Format("Jan 2, 2006")),
					"overdue"); err != nil {
					return err
				}

				if err := notify.Admins(tx,
					"Overdue Lending",
					fmt.Sprintf("%s has not returned %s (due %s)",
						lending.Borrower.Username, lending.Game.Title,
						lending.ReturnDate.Format("Jan 2, 2006")),
					"overdue", lending.BorrowerID); err != nil {
					return err
				}
			}
			return tx.Model(&models.GameLending{}).Where("id = ?", lending.ID).Updates(updates).Error
		})
		if err != nil {
			return flagged, err
		}
		flagged++
	}

	return flagged, nil
}
