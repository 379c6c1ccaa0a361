package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type redisPubSub interface {
	Publish(ctx context.Context, channel string, payload any) (int64, error)
	Subscribe(ctx context.Context, channels ...string) (*redis.PubSub, error)
}

// Broker relays events between API instances over a Redis Pub/Sub channel.
// Every instance publishes to Redis and delivers what it receives to its own
// hub, so a shopper connected to any instance gets the event.
type Broker struct {
	client  redisPubSub
	channel string
	hub     *Hub
	logg    *logger.Logger
}

// NewBroker wires a broker for channel onto hub.
func NewBroker(client redisPubSub, channel string, hub *Hub, logg *logger.Logger) (*Broker, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if channel == "" {
		return nil, fmt.Errorf("redis channel required")
	}
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Broker{client: client, channel: channel, hub: hub, logg: logg}, nil
}

// Publish sends evt to every instance, including this one.
func (b *Broker) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if _, err := b.client.Publish(ctx, b.channel, payload); err != nil {
		return err
	}
	return nil
}

// Run relays the channel into the local hub until ctx is canceled.
func (b *Broker) Run(ctx context.Context) error {
	ps, err := b.client.Subscribe(ctx, b.channel)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	defer ps.Close()

	logCtx := b.logg.WithField(ctx, "channel", b.channel)
	b.logg.Info(logCtx, "notifications.broker_started")

	messages := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("redis subscription %s closed", b.channel)
			}
			b.relay(logCtx, msg.Payload)
		}
	}
}

func (b *Broker) relay(ctx context.Context, payload string) {
	var evt Event
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		b.logg.Error(ctx, "notifications.decode_failed", err)
		return
	}
	if evt.Room == "" || !evt.Name.IsValid() {
		b.logg.Warn(ctx, "notifications.invalid_event")
		return
	}
	b.hub.Deliver(evt)
}
