package model

import (
	"fmt"
	"time"
)

// Channel is the medium a notification was sent through.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelApp   Channel = "app"
	ChannelSMS   Channel = "sms"
)

// Notification is an append-only record that a message was sent to a user.
// It proves a transition happened, not that delivery succeeded.
type Notification struct {
	ID          int64     `json:"id"`
	RecipientID int64     `json:"destinatario_id"`
	Message     string    `json:"mensaje"`
	Channel     Channel   `json:"canal"`
	CreatedAt   time.Time `json:"created_at"`
}

func (n *Notification) String() string {
	return fmt.Sprintf("Notificación a %d por %s", n.RecipientID, n.Channel)
}
