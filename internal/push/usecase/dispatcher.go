package usecase

import (
	"context"
	"errors"
	"log"

	pushdomain "sansynapse-backend/internal/push/domain"
	"sansynapse-backend/internal/push/repository"
	"sansynapse-backend/pkg/fcm"

	"github.com/google/uuid"
)

// ErrMissingUserID is returned before any lookup or network call when the
// record does not name a recipient.
var ErrMissingUserID = errors.New("user_id is required")

// Sender delivers a composed message to the push gateway.
type Sender interface {
	Send(ctx context.Context, msg *fcm.Message) (*fcm.SendResult, error)
}

// Dispatcher runs one delivery attempt per notification record:
// resolve the recipient's device token, short-circuit to a skip when there
// is none, otherwise compose the message and hand it to the sender.
type Dispatcher struct {
	tokens repository.DeviceTokenRepository
	sender Sender
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(tokens repository.DeviceTokenRepository, sender Sender) *Dispatcher {
	return &Dispatcher{
		tokens: tokens,
		sender: sender,
	}
}

// Dispatch performs at-most-once delivery for record. A missing device token
// yields a skipped result, not an error; signing, token exchange and
// transport failures abort the dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, record *pushdomain.NotificationRecord) (*pushdomain.DispatchResult, error) {
	if record == nil || record.UserID == "" {
		return nil, ErrMissingUserID
	}

	dispatchID := uuid.New().String()

	deviceToken, err := d.tokens.GetTokenByUserID(record.UserID)
	if err != nil {
		// Lookup errors fold into the same "cannot deliver" signal as a
		// missing registration; the log line is what distinguishes them.
		log.Printf("[Dispatch] %s: token lookup for user %s failed, skipping: %v", dispatchID, record.UserID, err)
		return &pushdomain.DispatchResult{Skipped: true}, nil
	}
	if deviceToken == "" {
		log.Printf("[Dispatch] %s: no device token for user %s, skipping", dispatchID, record.UserID)
		return &pushdomain.DispatchResult{Skipped: true}, nil
	}

	msg := ComposeMessage(record, deviceToken)

	result, err := d.sender.Send(ctx, msg)
	if err != nil {
		log.Printf("[Dispatch] %s: delivery failed for user %s: %v", dispatchID, record.UserID, err)
		return nil, err
	}

	if result.OK {
		log.Printf("[Dispatch] %s: delivered to user %s", dispatchID, record.UserID)
	} else {
		log.Printf("[Dispatch] %s: gateway rejected message for user %s (status %d)", dispatchID, record.UserID, result.Status)
	}
	return &pushdomain.DispatchResult{OK: result.OK, Raw: result.Raw}, nil
}
