package pubsub

import (
	"context"
	"errors"
	"sync"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

// Message attribute keys set on every exported event.
const (
	AttrEventName = "event_name"
	AttrRoom      = "room"
)

type publisher interface {
	Publish(context.Context, *pubsub.Message) publishResult
	Stop()
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// Exporter mirrors notification events onto a Pub/Sub topic. Publishing is
// fire-and-forget: results are awaited in the background and failures logged.
type Exporter struct {
	pub  publisher
	logg *logger.Logger
	wg   sync.WaitGroup
}

// NewExporter wraps the client's order events publisher.
func NewExporter(c *Client, logg *logger.Logger) (*Exporter, error) {
	p := c.OrderEventsPublisher()
	if p == nil {
		return nil, errors.New("pubsub publisher unavailable")
	}
	return newExporter(&gcpPublisher{Publisher: p}, logg), nil
}

func newExporter(pub publisher, logg *logger.Logger) *Exporter {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Exporter{pub: pub, logg: logg}
}

// Export queues data for publishing with the event name and room attributes.
func (e *Exporter) Export(ctx context.Context, eventName, room string, data []byte) {
	if e == nil || e.pub == nil {
		return
	}
	result := e.pub.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			AttrEventName: eventName,
			AttrRoom:      room,
		},
	})
	if result == nil {
		return
	}

	logCtx := e.logg.WithFields(context.WithoutCancel(ctx), map[string]any{
		"event_name": eventName,
		"room":       room,
	})
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if _, err := result.Get(logCtx); err != nil {
			e.logg.Error(logCtx, "notifications.export_failed", err)
		}
	}()
}

// Close flushes pending messages and waits for their results.
func (e *Exporter) Close() error {
	if e == nil || e.pub == nil {
		return nil
	}
	e.pub.Stop()
	e.wg.Wait()
	return nil
}

type gcpPublisher struct {
	*pubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *pubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return p.Publisher.Publish(ctx, msg)
}
