package broadcaster

import (
	"context"

	"github.com/goliatone/go-messenger/pkg/domain"
)

// Topics published by the dispatcher.
const (
	TopicDelivered = "messenger.delivery.succeeded"
	TopicFailed    = "messenger.delivery.failed"
)

// Event carries a delivery outcome to interested observers.
type Event struct {
	Topic   string
	Payload any
}

// Outcome is the payload of delivery topics. Error is empty on success.
type Outcome struct {
	Delivery domain.Delivery `json:"delivery"`
	Error    string          `json:"error,omitempty"`
}

// Broadcaster pushes events to audit logs, metrics or realtime transports.
type Broadcaster interface {
	Broadcast(ctx context.Context, event Event) error
}

// Nop broadcaster discards events.
type Nop struct{}

var _ Broadcaster = (*Nop)(nil)

func (n *Nop) Broadcast(ctx context.Context, event Event) error { return nil }
