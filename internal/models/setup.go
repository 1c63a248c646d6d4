package models

import "time"

type SetupPost struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	UserID      int    `gorm:"not null;index" json:"user_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	ImageURL    string `gorm:"not null" json:"image_url"`

	Likes         int `gorm:"default:0" json:"likes"`
	Dislikes      int `gorm:"default:0" json:"dislikes"`
	CleanestVotes int `gorm:"default:0" json:"cleanest_votes"`
	RGBVotes      int `gorm:"default:0" json:"rgb_votes"`
	BudgetVotes   int `gorm:"default:0" json:"budget_votes"`

	IsFeatured bool      `gorm:"default:false" json:"is_featured"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SetupVote rows live in one of two independent groups: reactions
// ("like"/"dislike") and badges ("cleanest"/"rgb"/"budget"). A user may
// hold one active vote from each group on the same setup.
type SetupVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	SetupID   int       `gorm:"not null;index" json:"setup_id"`
	VoteType  string    `gorm:"not null" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
