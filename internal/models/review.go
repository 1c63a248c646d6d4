package models

import "time"

// Review is one per (user, game) with upsert semantics. Like/dislike
// counters are denormalized here and updated in the same transaction as
// the vote-row writes.
type Review struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_review_user_game" json:"user_id"`
	GameID    int       `gorm:"not null;uniqueIndex:idx_review_user_game" json:"game_id"`
	Rating    int       `gorm:"not null" json:"rating"` // 1-5 stars
	Content   string    `gorm:"not null" json:"content"`
	Likes     int       `gorm:"default:0" json:"likes"`
	Dislikes  int       `gorm:"default:0" json:"dislikes"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	ReviewID  int       `gorm:"not null;index" json:"review_id"`
	VoteType  string    `gorm:"not null" json:"vote_type"` // "like" or "dislike"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewComment struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null" json:"user_id"`
	ReviewID  int       `gorm:"not null;index" json:"review_id"`
	Content   string    `gorm:"not null" json:"content"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
