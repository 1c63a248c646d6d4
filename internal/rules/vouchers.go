package rules

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
)

// Popularity point awards.
const (
	FirstReviewPoints = 50
	ReviewLikePoints  = 5
)

// VoucherTiers maps a point cost to the dollar amount it buys.
var VoucherTiers = map[int]float64{
	50:  5,
	100: 12,
	200: 25,
}

var (
	ErrUnknownTier        = errors.New("unknown voucher tier")
	ErrInsufficientPoints = errors.New("not enough popularity points")
	ErrVoucherUsed        = errors.New("voucher already used")
	ErrVoucherNotFound    = errors.New("voucher not found")
)

// RedeemVoucher mints a voucher for the given tier, deducting its point
// cost exactly once. The deduction is a conditional update so two
// concurrent redemptions cannot overspend the balance.
func RedeemVoucher(db *gorm.DB, userID, pointsCost int) (*models.Voucher, error) {
	amount, ok := VoucherTiers[pointsCost]
	if !ok {
		return nil, ErrUnknownTier
	}

	var voucher models.Voucher
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND popularity_points >= ?", userID, pointsCost).
			UpdateColumn("popularity_points", gorm.Expr("popularity_points - ?", pointsCost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientPoints
		}

		voucher = models.Voucher{
			UserID:     userID,
			Code:       newVoucherCode(),
			Amount:     amount,
			PointsCost: pointsCost,
		}
		return tx.Create(&voucher).Error
	})
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

// ApplyVoucher consumes one of the user's vouchers and returns its
// discount amount. The conditional update makes reuse impossible even
// under concurrent checkouts.
func ApplyVoucher(tx *gorm.DB, userID, voucherID int, now time.Time) (float64, error) {
	var voucher models.Voucher
	if err := tx.Where("id = ? AND user_id = ?", voucherID, userID).First(&voucher).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrVoucherNotFound
		}
		return 0, err
	}

	res := tx.Model(&models.Voucher{}).
		Where("id = ? AND is_used = ?", voucherID, false).
		Updates(map[string]interface{}{"is_used": true, "used_at": now})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrVoucherUsed
	}
	return voucher.Amount, nil
}

func newVoucherCode() string {
	return "GV-" + strings.ToUpper(uuid.NewString()[:8])
}
