package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

// Publisher delivers an event to its room. Implemented by Hub and Broker.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Exporter mirrors events to an external sink such as GCP Pub/Sub.
type Exporter interface {
	Export(ctx context.Context, eventName, room string, data []byte)
}

// NotifierParams bundles the notifier dependencies. Exporter is optional.
type NotifierParams struct {
	Publisher Publisher
	Exporter  Exporter
	Logger    *logger.Logger
	Now       func() time.Time
}

// Notifier is the facade services use to push order and stock events.
// Failures are logged and never returned to the caller.
type Notifier struct {
	publisher Publisher
	exporter  Exporter
	logg      *logger.Logger
	now       func() time.Time
}

// NewNotifier constructs a notifier.
func NewNotifier(params NotifierParams) (*Notifier, error) {
	if params.Publisher == nil {
		return nil, fmt.Errorf("publisher required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Notifier{
		publisher: params.Publisher,
		exporter:  params.Exporter,
		logg:      logg,
		now:       now,
	}, nil
}

// OrderEvent notifies the order owner.
func (n *Notifier) OrderEvent(ctx context.Context, name enums.EventName, userID uuid.UUID, payload OrderPayload) {
	n.emit(ctx, name, UserRoom(userID), payload)
}

// StockUpdated notifies the admin room that inventory moved.
func (n *Notifier) StockUpdated(ctx context.Context, payload StockPayload) {
	if payload.Products == nil {
		payload.Products = []StockChange{}
	}
	n.emit(ctx, enums.EventStockUpdate, AdminRoom, payload)
}

func (n *Notifier) emit(ctx context.Context, name enums.EventName, room string, payload any) {
	logCtx := n.logg.WithFields(ctx, map[string]any{
		"event_name": name.String(),
		"room":       room,
	})

	data, err := json.Marshal(payload)
	if err != nil {
		n.logg.Error(logCtx, "notifications.publish_failed", err)
		return
	}

	evt := Event{Name: name, Room: room, Data: data, SentAt: n.now().UTC()}
	if err := n.publisher.Publish(ctx, evt); err != nil {
		n.logg.Error(logCtx, "notifications.publish_failed", err)
	}
	if n.exporter != nil {
		n.exporter.Export(ctx, name.String(), room, data)
	}
}
