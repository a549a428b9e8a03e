package dto

import pushdomain "sansynapse-backend/internal/push/domain"

// DispatchRequest is the trigger input. Callers may nest the notification
// under "record" or put its fields at the top level.
type DispatchRequest struct {
	Record *pushdomain.NotificationRecord `json:"record"`
	pushdomain.NotificationRecord
}

// Notification returns the notification record regardless of which shape the
// caller used.
func (r *DispatchRequest) Notification() *pushdomain.NotificationRecord {
	if r.Record != nil {
		return r.Record
	}
	return &r.NotificationRecord
}
