package domain

import "encoding/json"

// NotificationRecord is the generic notification row handed to the delivery
// bridge. It is read-only for the lifetime of one dispatch and never persisted
// here.
type NotificationRecord struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// DispatchResult is the normalized outcome of one dispatch. A gateway-side
// rejection is a reported outcome (OK false with the raw body), not an error.
type DispatchResult struct {
	Skipped bool
	OK      bool
	Raw     json.RawMessage
}
