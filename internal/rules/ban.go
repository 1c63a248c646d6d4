package rules

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
	"github.com/emilythestrangee/gamevault/backend/internal/notify"
)

// BanExpiresAt returns when a temporary ban lapses, or false for
// permanent bans and unbanned users.
func BanExpiresAt(user *models.User) (time.Time, bool) {
	if !user.IsBanned || user.BannedAt == nil || user.BanDurationDays == nil {
		return time.Time{}, false
	}
	return user.BannedAt.Add(time.Duration(*user.BanDurationDays) * 24 * time.Hour), true
}

// ReconcileBanState lifts an expired temporary ban, notifying the user
// and the admin queue. It is idempotent and must run before any
// ban-gated check. Returns true when a ban was lifted.
func ReconcileBanState(db *gorm.DB, user *models.User, now time.Time) (bool, error) {
	expiry, temporary := BanExpiresAt(user)
	if !temporary || !now.After(expiry) {
		return false, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		clear := map[string]interface{}{
			"is_banned":         false,
			"banned_at":         nil,
			"banned_by":         nil,
			"ban_reason":        "",
			"ban_duration_days": nil,
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(clear).Error; err != nil {
			return err
		}

		if err := notify.User(tx, user.ID,
			"Ban Lifted",
			"Your temporary ban has expired. Welcome back!",
			"unban"); err != nil {
			return err
		}

		uid := user.ID
		return notify.Admins(tx,
			"Ban Expired",
			fmt.Sprintf("Temporary ban for %s expired and was lifted automatically", user.Username),
			"unban", &uid)
	})
	if err != nil {
		return false, err
	}

	user.IsBanned = false
	user.BannedAt = nil
	user.BannedBy = nil
	user.BanReason = ""
	user.BanDurationDays = nil
	return true, nil
}
