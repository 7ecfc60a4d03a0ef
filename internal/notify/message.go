// Package notify delivers user-facing messages (order confirmations, OTP
// codes) to the mail pipeline.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindOrderConfirmation Kind = "order_confirmation"
	KindOTP               Kind = "otp"
	KindPasswordReset     Kind = "password_reset"
)

// Message is the envelope handed to a Sender. Data carries the template
// fields for the message kind.
type Message struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	To        string         `json:"to"`
	Name      string         `json:"name,omitempty"`
	Subject   string         `json:"subject"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func NewMessage(kind Kind, to, name, subject string, data map[string]any) Message {
	return Message{
		ID:        uuid.NewString(),
		Kind:      kind,
		To:        to,
		Name:      name,
		Subject:   subject,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}
