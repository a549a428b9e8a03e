package usecase

import (
	pushdomain "sansynapse-backend/internal/push/domain"
	"sansynapse-backend/pkg/fcm"
)

const (
	defaultTitle = "San Synapse HR"
	defaultType  = "general"
)

// ComposeMessage maps a notification record onto the platform-aware push
// message for the given device token. Android gets a high-priority hint,
// iOS gets the default sound and a badge, and the data map carries the
// notification type and id for client-side routing.
func ComposeMessage(record *pushdomain.NotificationRecord, deviceToken string) *fcm.Message {
	title := record.Title
	if title == "" {
		title = defaultTitle
	}
	notificationType := record.Type
	if notificationType == "" {
		notificationType = defaultType
	}
	badge := 1

	return &fcm.Message{
		Token: deviceToken,
		Notification: &fcm.Notification{
			Title: title,
			Body:  record.Message,
		},
		Android: &fcm.AndroidConfig{
			Priority: "high",
		},
		APNS: &fcm.APNSConfig{
			Payload: &fcm.APNSPayload{
				Aps: &fcm.Aps{
					Sound: "default",
					Badge: &badge,
				},
			},
		},
		Data: map[string]string{
			"type":            notificationType,
			"notification_id": record.ID,
		},
	}
}
