package models

import "time"

// Cart rows are pre-purchase intent; one row per (user, game).
type Cart struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_user_game_cart" json:"user_id"`
	GameID    int       `gorm:"not null;uniqueIndex:idx_user_game_cart" json:"game_id"`
	Quantity  int       `gorm:"default:1" json:"quantity"`
	Game      Game      `gorm:"foreignKey:GameID" json:"game"`
	CreatedAt time.Time `json:"created_at"`
}

type Purchase struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	UserID       int       `gorm:"not null;index" json:"user_id"`
	GameID       int       `gorm:"not null;index" json:"game_id"`
	PricePaid    float64   `gorm:"not null" json:"price_paid"`
	PurchaseDate time.Time `gorm:"autoCreateTime" json:"purchase_date"`
	Game         Game      `gorm:"foreignKey:GameID" json:"game"`
}

// Voucher is a single-use fixed-amount discount bought with popularity
// points.
type Voucher struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	UserID     int        `gorm:"not null;index" json:"user_id"`
	Code       string     `gorm:"unique;not null" json:"code"`
	Amount     float64    `gorm:"not null" json:"amount"`
	PointsCost int        `gorm:"not null" json:"points_cost"`
	IsUsed     bool       `gorm:"default:false" json:"is_used"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
