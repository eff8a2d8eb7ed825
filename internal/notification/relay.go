package notification

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

type Subscriber interface {
	// Subscribe blocks, calling handle for every message, until ctx is done.
	Subscribe(ctx context.Context, channel string, handle func(payload []byte)) error
}

// Relay forwards events published on channel to the locally connected recipients. Every
// instance runs one, so a user connected to any instance gets events raised on any other.
type Relay struct {
	sub     Subscriber
	channel string
	hub     Deliverer
	logger  *zap.Logger
}

func NewRelay(sub Subscriber, channel string, hub Deliverer, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{sub: sub, channel: channel, hub: hub, logger: logger.Named("relay")}
}

func (r *Relay) Run(ctx context.Context) error {
	return r.sub.Subscribe(ctx, r.channel, r.Forward)
}

func (r *Relay) Forward(payload []byte) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		r.logger.Warn("dropping malformed event", zap.Error(err))
		return
	}
	delivered := r.hub.SendTo(evt.RecipientID, payload)
	r.logger.Debug("event relayed",
		zap.String("type", string(evt.Type)),
		zap.String("recipient_id", evt.RecipientID.String()),
		zap.Int("connections", delivered),
	)
}
