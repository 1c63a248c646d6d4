package models

import "time"

type Game struct {
	ID              int        `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `json:"description"`
	Price           float64    `gorm:"not null" json:"price"`
	Genre           string     `json:"genre"`
	Platform        string     `json:"platform"` // comma-separated tags, e.g. "PS5,PC"
	ReleaseDate     *time.Time `json:"release_date,omitempty"`
	ImageURL        string     `json:"image_url"`
	VoicePreviewURL string     `json:"voice_preview_url"`
	IsAvailable     bool       `gorm:"default:true" json:"is_available"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NotifyRequest is a user's ask to be told when an unavailable game
// becomes available. Deleted once fulfilled.
type NotifyRequest struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	GameID    int       `gorm:"not null;index" json:"game_id"`
	CreatedAt time.Time `json:"created_at"`
}
