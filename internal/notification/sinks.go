package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("notification")}
}

func (s *LogSink) Notify(_ context.Context, evt Event) error {
	s.logger.Info("match event",
		zap.String("type", string(evt.Type)),
		zap.String("match_id", evt.MatchID.String()),
		zap.String("recipient_id", evt.RecipientID.String()),
		zap.String("reason", evt.Reason),
	)
	return nil
}

type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// PublishSink pushes events as JSON onto a pub/sub channel, usually Redis.
type PublishSink struct {
	pub     Publisher
	channel string
}

func NewPublishSink(pub Publisher, channel string) *PublishSink {
	return &PublishSink{pub: pub, channel: channel}
}

func (s *PublishSink) Notify(ctx context.Context, evt Event) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := s.pub.Publish(ctx, s.channel, b); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	return nil
}

// Deliverer is satisfied by the websocket hub.
type Deliverer interface {
	SendTo(userID uuid.UUID, payload []byte) int
}

type HubSink struct {
	hub Deliverer
}

func NewHubSink(hub Deliverer) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Notify(_ context.Context, evt Event) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	s.hub.SendTo(evt.RecipientID, b)
	return nil
}

// Multi forwards to every sink, even after a failure, and joins the errors.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, evt Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
