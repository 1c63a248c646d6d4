package models

import "time"

type Notification struct {
	ID               int       `gorm:"primaryKey" json:"id"`
	UserID           int       `gorm:"not null;index" json:"user_id"`
	Title            string    `gorm:"not null" json:"title"`
	Message          string    `gorm:"not null" json:"message"`
	NotificationType string    `gorm:"default:general" json:"notification_type"`
	IsRead           bool      `gorm:"default:false" json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}

// AdminNotification is the shared moderation queue; RelatedUserID points
// at the user the alert is about, when there is one.
type AdminNotification struct {
	ID               int       `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"not null" json:"title"`
	Message          string    `gorm:"not null" json:"message"`
	NotificationType string    `gorm:"default:general" json:"notification_type"`
	RelatedUserID    *int      `json:"related_user_id,omitempty"`
	IsRead           bool      `gorm:"default:false" json:"is_read"`
	CreatedAt        time.Time `json:"created_at"`
}
