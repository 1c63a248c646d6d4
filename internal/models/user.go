package models

import "time"

type User struct {
	ID               int    `gorm:"primaryKey" json:"id"`
	Username         string `gorm:"unique;not null" json:"username"`
	Email            string `gorm:"unique;not null" json:"email"`
	Password         string `gorm:"not null" json:"-"`
	IsAdmin          bool   `gorm:"default:false" json:"is_admin"`
	PopularityPoints int    `gorm:"default:0" json:"popularity_points"`
	ProfilePicture   string `gorm:"default:default.jpg" json:"profile_picture"`
	Bio              string `json:"bio"`

	// Ban state. BanDurationDays nil means permanent.
	IsBanned        bool       `gorm:"default:false" json:"is_banned"`
	BannedAt        *time.Time `json:"banned_at,omitempty"`
	BannedBy        *int       `json:"banned_by,omitempty"`
	BanReason       string     `json:"ban_reason,omitempty"`
	BanDurationDays *int       `json:"ban_duration_days,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
