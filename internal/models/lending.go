package models

import "time"

// GameLending is a lender's offer of an owned game. The record is open
// while BorrowerID is nil; borrowing sets ReturnDate to the borrow time
// plus the chosen duration.
type GameLending struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	LenderID   int        `gorm:"not null;index" json:"lender_id"`
	BorrowerID *int       `gorm:"index" json:"borrower_id,omitempty"`
	GameID     int        `gorm:"not null;index" json:"game_id"`
	LendDate   time.Time  `gorm:"autoCreateTime" json:"lend_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	IsReturned bool       `gorm:"default:false" json:"is_returned"`

	// Overdue tracking. OverdueNotificationSent keeps the sweep from
	// fanning out the same alert twice.
	IsOverdue               bool `gorm:"default:false" json:"is_overdue"`
	OverdueNotificationSent bool `gorm:"default:false" json:"-"`

	Lender   User `gorm:"foreignKey:LenderID" json:"lender"`
	Borrower User `gorm:"foreignKey:BorrowerID" json:"borrower"`
	Game     Game `gorm:"foreignKey:GameID" json:"game"`
}
