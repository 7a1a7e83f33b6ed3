package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds pushed over the WebSocket channel.
const (
	NotifySwapProposed  = "swap-proposed"
	NotifySwapResolved  = "swap-resolved"
	NotifyStatusUpdated = "status-updated"
	NotifyNewMessage    = "new-message"
)

type Notification struct {
	Kind                 string    `json:"kind"`
	Message              string    `json:"message"`
	RelatedTransactionID uuid.UUID `json:"related_transaction_id,omitempty"`
	Timestamp            time.Time `json:"timestamp"`
}
