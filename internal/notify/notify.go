package notify

import (
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"github.com/emilythestrangee/gamevault/backend/internal/models"
)

// User appends a notification to a user's queue.
func User(db *gorm.DB, userID int, title, message, notificationType string) error {
	n := models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: notificationType,
	}
	return db.Create(&n).Error
}

// AllUsers fans a notification out to every registered user.
func AllUsers(db *gorm.DB, title, message, notificationType string) error {
	var userIDs []int
	if err := db.Model(&models.User{}).Pluck("id", &userIDs).Error; err != nil {
		return err
	}

	notifications := make([]models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		notifications = append(notifications, models.Notification{
			UserID:           id,
			Title:            title,
			Message:          message,
			NotificationType: notificationType,
		})
	}
	if len(notifications) == 0 {
		return nil
	}
	return db.Create(&notifications).Error
}

// Admins appends an alert to the shared moderation queue and, when
// Twilio is configured, texts the on-call admin contact. SMS delivery is
// best-effort and never fails the request.
func Admins(db *gorm.DB, title, message, notificationType string, relatedUserID *int) error {
	n := models.AdminNotification{
		Title:            title,
		Message:          message,
		NotificationType: notificationType,
		RelatedUserID:    relatedUserID,
	}
	if err := db.Create(&n).Error; err != nil {
		return err
	}

	sendAdminSMS(title + ": " + message)
	return nil
}

func sendAdminSMS(body string) {
	from := os.Getenv("TWILIO_FROM_NUMBER")
	to := os.Getenv("ADMIN_PHONE")
	if os.Getenv("TWILIO_ACCOUNT_SID") == "" || from == "" || to == "" {
		return
	}

	client := twilio.NewRestClient()
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	if _, err := client.Api.CreateMessage(params); err != nil {
		log.Printf("admin SMS failed: %v", err)
	}
}
