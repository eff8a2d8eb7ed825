package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventMatchCreated  EventType = "match_created"
	EventMatchAccepted EventType = "match_accepted"
	EventMatchRejected EventType = "match_rejected"
)

// Event is addressed to exactly one recipient. A fan-out to both parties is two events.
type Event struct {
	Type        EventType `json:"type"`
	MatchID     uuid.UUID `json:"match_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Sink delivers events. Delivery is best effort: callers log errors and move on.
type Sink interface {
	Notify(ctx context.Context, evt Event) error
}
